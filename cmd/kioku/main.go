// Package main implements the kioku command line tool, a local
// spaced-repetition trainer for words, cloze sentences, and characters.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "kioku: %v\n", err)
		os.Exit(1)
	}
}
