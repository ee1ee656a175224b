package main

import (
	"context"

	"github.com/ATenderholt/rainbow-xform/internal/convert"
	"github.com/ATenderholt/rainbow-xform/internal/domain"
	"github.com/ATenderholt/rainbow-xform/internal/logging"
	"github.com/ATenderholt/rainbow-xform/internal/service"
	"github.com/ATenderholt/rainbow-xform/internal/settings"
	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"go.uber.org/zap"
)

var logger *zap.SugaredLogger

func init() {
	logger = logging.NewLogger()
}

type Handler struct {
	dispatcher *service.Dispatcher
}

func (h Handler) Handle(ctx context.Context, event events.S3Event) error {
	summary, err := h.dispatcher.Dispatch(ctx, batchFromEvent(event))
	if err != nil {
		return err
	}

	logger.Infof("Converted %d of %d records", summary.Converted, summary.Received)
	return nil
}

// batchFromEvent keeps empty fields empty so the dispatcher reports them as
// malformed records.
func batchFromEvent(event events.S3Event) domain.Batch {
	batch := domain.Batch{Records: make([]domain.Record, 0, len(event.Records))}
	for _, r := range event.Records {
		batch.Records = append(batch.Records, domain.Record{
			BucketName: r.S3.Bucket.Name,
			ObjectKey:  r.S3.Object.Key,
		})
	}

	return batch
}

func main() {
	cfg, err := settings.FromEnv()
	if err != nil {
		logger.Fatalf("Invalid configuration: %v", err)
	}

	logging.SetDebug(cfg.IsDebug)

	runner, err := convert.NewRunner(cfg)
	if err != nil {
		logger.Fatalf("Unable to create conversion runner: %v", err)
	}

	h := Handler{dispatcher: service.NewDispatcher(cfg, runner)}
	lambda.Start(h.Handle)
}
