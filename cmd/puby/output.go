package main

import (
	"fmt"
	"os"
)

// exitWithError writes an error message to stderr and exits with code.
func exitWithError(code int, format string, args ...any) {
	fmt.Fprintf(os.Stderr, "error: "+format+"\n", args...)
	os.Exit(code)
}
