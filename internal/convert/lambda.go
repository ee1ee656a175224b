package convert

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ATenderholt/rainbow-xform/internal/domain"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/lambda"
	"github.com/aws/aws-sdk-go-v2/service/lambda/types"
)

type LambdaInvoker interface {
	Invoke(ctx context.Context, params *lambda.InvokeInput, optFns ...func(*lambda.Options)) (*lambda.InvokeOutput, error)
}

type ConversionRequest struct {
	Source      string `json:"source"`
	Destination string `json:"destination"`
}

// LambdaRunner hands each conversion to a remote function and waits for it.
// A function error counts as exit code 1.
type LambdaRunner struct {
	client       LambdaInvoker
	functionName string
	timeout      time.Duration
}

func NewLambdaRunner(client LambdaInvoker, functionName string, timeout time.Duration) *LambdaRunner {
	return &LambdaRunner{
		client:       client,
		functionName: functionName,
		timeout:      timeout,
	}
}

func (r LambdaRunner) Convert(ctx context.Context, source, destination domain.Locator) error {
	payload, err := json.Marshal(ConversionRequest{Source: source.String(), Destination: destination.String()})
	if err != nil {
		return err
	}

	runCtx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	logger.Debugf("Invoking %s with %s", r.functionName, payload)

	out, err := r.client.Invoke(runCtx, &lambda.InvokeInput{
		FunctionName:   aws.String(r.functionName),
		InvocationType: types.InvocationTypeRequestResponse,
		Payload:        payload,
	})

	if err != nil {
		if timedOut(ctx, runCtx) {
			err := domain.TimeoutError{Timeout: r.timeout, Source: source, Destination: destination}
			logger.Error(err)
			return err
		}

		if ctx.Err() != nil {
			return ctx.Err()
		}

		return fmt.Errorf("unable to invoke function %s: %w", r.functionName, err)
	}

	if out.FunctionError != nil {
		err := domain.ConversionProcessError{
			ExitCode:    1,
			Source:      source,
			Destination: destination,
			Reason:      *out.FunctionError + " " + string(out.Payload),
		}
		logger.Error(err)
		return err
	}

	return nil
}
