// Package convert runs the external converter that turns a billing export
// into Avro. The converter is opaque: it receives the source and destination
// locators and reports success through its exit status.
package convert

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ATenderholt/rainbow-xform/internal/service"
	"github.com/ATenderholt/rainbow-xform/internal/settings"
)

func NewRunner(cfg *settings.Config) (service.ConversionRunner, error) {
	switch cfg.Runner {
	case settings.RunnerProcess:
		logger.Infof("Converting with executable %s", cfg.Converter)
		return NewProcessRunner(cfg.Converter, cfg.Timeout), nil

	case settings.RunnerDocker:
		logger.Infof("Converting with image %s", cfg.Image)
		return NewDockerRunner(cfg)

	case settings.RunnerLambda:
		logger.Infof("Converting with function %s", cfg.FunctionName)
		client, err := NewLambdaClient(context.Background(), cfg)
		if err != nil {
			return nil, err
		}
		return NewLambdaRunner(client, cfg.FunctionName, cfg.Timeout), nil
	}

	return nil, fmt.Errorf("unknown runner %q", cfg.Runner)
}

// withTimeout bounds ctx by timeout when it is positive.
func withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return context.WithCancel(ctx)
	}

	return context.WithTimeout(ctx, timeout)
}

// timedOut reports whether runCtx expired because of its own deadline rather
// than because the caller gave up.
func timedOut(parent, runCtx context.Context) bool {
	return parent.Err() == nil && errors.Is(runCtx.Err(), context.DeadlineExceeded)
}
