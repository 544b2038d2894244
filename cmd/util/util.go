package util

import (
	"fmt"
	"io"
	"os"
	"runtime/debug"

	"github.com/fatih/color"
	log "github.com/sirupsen/logrus"

	"github.com/biomage-org/biomage-utils/pkg/errors"
)

// Mocked for unit testing.
var (
	stderr io.Writer = os.Stderr
	exit             = os.Exit
)

var successColor = color.New(color.FgGreen)

// HandleFatalError handles errors that are severe enough to terminate the
// program.
func HandleFatalError(err error) {
	log.WithError(errors.RootCause(err)).Debug("Root cause of fatal error")

	var friendly errors.FriendlyError
	if errors.As(err, &friendly) {
		fmt.Fprintln(stderr, friendly.FriendlyMessage())
	} else {
		fmt.Fprintf(stderr, "Error: %s\n", err)
	}
	exit(1)
}

// HandlePanic catches panics, and prints the stack trace before exiting.
// It must be deferred.
func HandlePanic() {
	if r := recover(); r != nil {
		fmt.Fprintf(stderr, "Unexpected error: %v\n\n%s\n", r, debug.Stack())
		exit(1)
	}
}

// PrintSuccess prints a green status line to `w`.
func PrintSuccess(w io.Writer, format string, args ...interface{}) {
	successColor.Fprintln(w, fmt.Sprintf(format, args...))
}
