// Package migrations ships the catalog schema with the binary.
package migrations

import "embed"

// Files holds the NNN_name.sql files applied in version order at startup.
//
//go:embed *.sql
var Files embed.FS
