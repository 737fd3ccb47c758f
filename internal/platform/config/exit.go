package config

import (
	"fmt"
	"io"
	"os"
)

// Exit codes used by runabout command-line tools.
const (
	ExitFailure = 1
	ExitUsage   = 2
)

// Exitf writes a formatted error message to stderr and exits with ExitFailure.
func Exitf(format string, args ...any) {
	exitf(os.Stderr, ExitFailure, format, args...)
}

// Usagef writes a formatted usage error to stderr and exits with ExitUsage.
func Usagef(format string, args ...any) {
	exitf(os.Stderr, ExitUsage, format, args...)
}

func exitf(w io.Writer, code int, format string, args ...any) {
	fmt.Fprintf(w, format+"\n", args...)
	os.Exit(code)
}
