// Command podscribe turns podcast and video links into speaker-labeled
// transcripts.
package main

import (
	"context"
	"fmt"
	"io"
	"os"

	apperrors "github.com/kbukum/podscribe/errors"
)

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		printError(os.Stderr, err)
		os.Exit(exitCode(err))
	}
}

// printError writes the AppError code and message when there is one, so a
// malformed segment or turn is named precisely.
func printError(w io.Writer, err error) {
	appErr, ok := apperrors.AsAppError(err)
	if !ok {
		fmt.Fprintf(w, "error: %v\n", err)
		return
	}
	fmt.Fprintf(w, "error: %s: %s\n", appErr.Code, appErr.Message)
	if appErr.Cause != nil {
		fmt.Fprintf(w, "  cause: %v\n", appErr.Cause)
	}
}

// exitCode is 2 for bad input and 1 for everything else.
func exitCode(err error) int {
	appErr, ok := apperrors.AsAppError(err)
	if ok && appErr.HTTPStatus >= 400 && appErr.HTTPStatus < 500 {
		return 2
	}
	return 1
}
