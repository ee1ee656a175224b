package service

import (
	"context"

	"github.com/ATenderholt/rainbow-xform/internal/domain"
	"github.com/ATenderholt/rainbow-xform/internal/settings"
	"github.com/reactivex/rxgo/v2"
)

// ConversionRunner converts the object at source and writes the result to
// destination, blocking until the conversion finishes.
type ConversionRunner interface {
	Convert(ctx context.Context, source, destination domain.Locator) error
}

// Summary counts what happened to a batch. It is informational only.
type Summary struct {
	Received  int
	Skipped   int
	Converted int
}

type Dispatcher struct {
	cfg    *settings.Config
	runner ConversionRunner
	filter domain.Filter
}

func NewDispatcher(config *settings.Config, runner ConversionRunner) *Dispatcher {
	return &Dispatcher{
		cfg:    config,
		runner: runner,
		filter: domain.BillingExportFilter(),
	}
}

type conversion struct {
	key         string
	matched     bool
	source      domain.Locator
	destination domain.Locator
}

// Dispatch converts every billing export in batch, in order, stopping at the
// first record that is malformed or fails to convert.
func (d Dispatcher) Dispatch(ctx context.Context, batch domain.Batch) (Summary, error) {
	summary := Summary{Received: len(batch.Records)}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	items := make([]interface{}, len(batch.Records))
	for i, record := range batch.Records {
		items[i] = indexedRecord{index: i, record: record}
	}

	// Stages run ahead of this loop but keep order, so conversions happen in
	// record order and an error surfaces only after the records before it.
	// Skips are decided here so nothing past a failure is reported.
	conversions := rxgo.Just(items...)(rxgo.WithContext(ctx)).
		Map(d.validate, rxgo.WithContext(ctx)).
		Map(d.locate, rxgo.WithContext(ctx)).
		Observe(rxgo.WithContext(ctx))

	for item := range conversions {
		if item.Error() {
			logger.Error(item.E)
			return summary, item.E
		}

		c := item.V.(conversion)
		if !c.matched {
			logger.Infof("Skipping update %s", c.key)
			summary.Skipped++
			continue
		}

		logger.Infof("Converting %s to %s", c.source, c.destination)

		err := d.runner.Convert(ctx, c.source, c.destination)
		if err != nil {
			logger.Errorf("Conversion of %s failed: %v", c.source, err)
			return summary, err
		}

		summary.Converted++
	}

	if err := ctx.Err(); err != nil {
		return summary, err
	}

	logger.Debugf("Dispatched batch: %+v", summary)

	return summary, nil
}

type indexedRecord struct {
	index  int
	record domain.Record
}

func (d Dispatcher) validate(_ context.Context, i interface{}) (interface{}, error) {
	r := i.(indexedRecord)

	err := r.record.Validate(r.index)
	if err != nil {
		return nil, err
	}

	return r.record, nil
}

func (d Dispatcher) locate(_ context.Context, i interface{}) (interface{}, error) {
	r := i.(domain.Record)

	if !d.filter.Matches(r.ObjectKey) {
		return conversion{key: r.ObjectKey}, nil
	}

	source, err := domain.NewLocator(d.cfg.Scheme, r.BucketName, r.ObjectKey)
	if err != nil {
		return nil, err
	}

	destination, err := domain.NewLocator(d.cfg.Scheme, d.cfg.DestinationBucket, domain.DestinationKey(r.ObjectKey))
	if err != nil {
		return nil, err
	}

	return conversion{key: r.ObjectKey, matched: true, source: source, destination: destination}, nil
}
