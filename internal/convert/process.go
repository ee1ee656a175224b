package convert

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"time"

	"github.com/ATenderholt/rainbow-xform/internal/domain"
)

// ProcessRunner executes the converter as a child process with exactly two
// arguments, the source and destination locators.
type ProcessRunner struct {
	Path    string
	Timeout time.Duration
	Stdout  io.Writer
	Stderr  io.Writer
}

func NewProcessRunner(path string, timeout time.Duration) *ProcessRunner {
	return &ProcessRunner{
		Path:    path,
		Timeout: timeout,
		Stdout:  os.Stdout,
		Stderr:  os.Stderr,
	}
}

func (r ProcessRunner) Convert(ctx context.Context, source, destination domain.Locator) error {
	runCtx, cancel := withTimeout(ctx, r.Timeout)
	defer cancel()

	// CommandContext kills the child when runCtx ends; that is the only
	// termination guarantee on cancellation.
	cmd := exec.CommandContext(runCtx, r.Path, source.String(), destination.String())
	cmd.Stdout = r.Stdout
	cmd.Stderr = r.Stderr

	logger.Debugf("Running %s", cmd.String())

	err := cmd.Run()
	if err == nil {
		return nil
	}

	if timedOut(ctx, runCtx) {
		err := domain.TimeoutError{Timeout: r.Timeout, Source: source, Destination: destination}
		logger.Error(err)
		return err
	}

	if ctx.Err() != nil {
		return ctx.Err()
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		err := domain.ConversionProcessError{
			ExitCode:    exitErr.ExitCode(),
			Source:      source,
			Destination: destination,
		}
		logger.Error(err)
		return err
	}

	return fmt.Errorf("unable to run %s: %w", r.Path, err)
}
