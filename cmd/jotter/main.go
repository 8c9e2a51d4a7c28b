// Package main provides the jotter CLI.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/jotterhq/jotter/pkg/types"
)

// Exit codes: user errors (bad input, not found, auth) exit 1; storage and
// other system failures exit 2.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitCode(err))
	}
}

func exitCode(err error) int {
	switch {
	case errors.Is(err, types.ErrInvalidArgument),
		errors.Is(err, types.ErrNotFound),
		errors.Is(err, types.ErrConflict),
		errors.Is(err, types.ErrInvalidCredentials),
		errors.Is(err, types.ErrInvalidToken),
		errors.Is(err, types.ErrUnauthorized):
		return exitUserError
	default:
		return exitSysError
	}
}
