package templates

import "embed"

// Files holds the page templates compiled into the binary.
//
//go:embed *.html
var Files embed.FS
