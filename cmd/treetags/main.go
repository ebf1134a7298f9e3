// treetags generates vi-compatible tag files from tree-sitter parses.
// Single binary, grammar-driven — point it at a tree and get a tags file.
package main

import (
	"os"

	"github.com/corey/treetags/cmd/treetags/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
