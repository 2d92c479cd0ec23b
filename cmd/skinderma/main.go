package main

import "github.com/terraincognita07/skinderma/internal/cli"

func main() {
	cli.Execute()
}
