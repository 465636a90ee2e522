package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"regexp"

	"github.com/annuaire-qc/directory/internal/importer"
	"github.com/annuaire-qc/directory/internal/quota"
)

var unknownCommandPattern = regexp.MustCompile(`unknown command "([^"]+)"`)

// Importer resolves user input into drafts.
type Importer interface {
	ImportPlace(ctx context.Context, input, address string, wantMultiple bool) (*importer.Result, error)
}

// QuotaTracker reads and gates the daily allowance.
type QuotaTracker interface {
	Info(ctx context.Context) quota.Info
	Gate(ctx context.Context, privileged, override bool) (quota.Decision, error)
	RecordImport(ctx context.Context) (int, error)
}

// Runtime is the opened import pipeline. Close releases its storage.
type Runtime struct {
	Importer Importer
	Quota    QuotaTracker
	Close    func() error
}

// Dependencies wires runtime services.
type Dependencies struct {
	Version string
	// Serve runs the HTTP server until it is told to stop.
	Serve func(ctx context.Context) error
	// Open builds the import pipeline for one-off commands.
	Open func(ctx context.Context) (*Runtime, error)
}

// Exit codes besides 0 and 1.
const (
	exitUnknownCommand = 2
	exitQuotaBlocked   = 3
)

type exitError struct {
	code int
}

func (e *exitError) Error() string {
	return ""
}

var errVersionShown = fmt.Errorf("version shown")

// Execute runs the CLI with injected dependencies and returns the exit code.
func Execute(ctx context.Context, args []string, deps Dependencies, stdout io.Writer, stderr io.Writer) int {
	cmd := NewRootCommand(deps)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetArgs(args)

	err := cmd.ExecuteContext(ctx)
	if err == nil || err == errVersionShown {
		return 0
	}
	var controlled *exitError
	if errors.As(err, &controlled) {
		return controlled.code
	}

	if matches := unknownCommandPattern.FindStringSubmatch(err.Error()); len(matches) > 1 {
		_, _ = fmt.Fprintf(stderr, "No such command '%s'\n", matches[1])
		return exitUnknownCommand
	}

	if msg := err.Error(); msg != "" {
		_, _ = fmt.Fprintln(stderr, "Error:", msg)
	}
	return 1
}
