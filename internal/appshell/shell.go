// Package appshell is the os.Exit boundary: it owns signal handling and
// context cancellation so that internal/app never touches either directly,
// which keeps RunContext testable without spawning a real process.
package appshell

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"
)

// Main runs run to completion against the real process argv/stdout/stderr,
// cancelling its context on SIGINT/SIGTERM so a long alignment run (the
// worker pool in internal/pipeline checks ctx between tasks) stops promptly
// instead of running to exhaustion after the user has given up on it.
func Main(run func(context.Context, []string, io.Writer, io.Writer) int) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	argv := os.Args[1:]
	if len(argv) == 0 {
		argv = []string{"-h"}
	}

	code := run(ctx, argv, os.Stdout, os.Stderr)
	// A cancelled run that still reported success gets the conventional
	// 128+SIGINT exit code instead of 0.
	if ctx.Err() != nil && code == 0 {
		code = 130
	}

	stop()
	os.Exit(code)
}
