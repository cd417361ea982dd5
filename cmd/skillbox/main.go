package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"

	"skillbox/internal/services"
)

// exitError ends the process with code after the command already reported
// its own outcome on stdout.
type exitError struct {
	code int
}

func (e *exitError) Error() string {
	return fmt.Sprintf("exit status %d", e.code)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	cmd := newRootCommand()
	err := cmd.ExecuteContext(ctx)
	stop()
	os.Exit(reportError(os.Stderr, err))
}

// reportError prints err and returns the process exit code.
func reportError(w io.Writer, err error) int {
	if err == nil {
		return 0
	}
	var exitErr *exitError
	if errors.As(err, &exitErr) {
		return exitErr.code
	}
	if errors.Is(err, context.Canceled) {
		return 1
	}
	label := color.New(color.FgRed, color.Bold)
	label.Fprint(w, "Error: ")
	fmt.Fprintln(w, err)
	if hint := services.Hint(services.Classify(err)); hint != "" {
		color.New(color.Faint).Fprintf(w, "Hint: %s\n", hint)
	}
	return 1
}
