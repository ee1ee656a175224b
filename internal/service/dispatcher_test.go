package service_test

import (
	"context"
	"testing"

	"github.com/ATenderholt/rainbow-xform/internal/domain"
	"github.com/ATenderholt/rainbow-xform/internal/service"
	"github.com/ATenderholt/rainbow-xform/internal/settings"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	keyMay  = "foo-aws-billing-detailed-line-items-with-resources-and-tags-2023-05.csv.zip"
	keyJune = "foo-aws-billing-detailed-line-items-with-resources-and-tags-2023-06.csv.zip"
)

type call struct {
	source      string
	destination string
}

// FakeRunner records conversions and fails with exitCodes[source] when set.
type FakeRunner struct {
	calls     []call
	exitCodes map[string]int
}

func (r *FakeRunner) Convert(ctx context.Context, source, destination domain.Locator) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.calls = append(r.calls, call{source.String(), destination.String()})

	if code, ok := r.exitCodes[source.String()]; ok {
		return domain.ConversionProcessError{ExitCode: code, Source: source, Destination: destination}
	}

	return nil
}

func newDispatcher(runner service.ConversionRunner) *service.Dispatcher {
	cfg := &settings.Config{
		DestinationBucket: "koblas-tubular-test",
		Scheme:            "s3",
	}

	return service.NewDispatcher(cfg, runner)
}

func TestDispatchMatchingRecord(t *testing.T) {
	runner := &FakeRunner{}
	batch := domain.Batch{Records: []domain.Record{{BucketName: "src-bucket", ObjectKey: keyMay}}}

	summary, err := newDispatcher(runner).Dispatch(context.Background(), batch)
	require.NoError(t, err)

	assert.Equal(t, []call{{
		"s3://src-bucket/foo-aws-billing-detailed-line-items-with-resources-and-tags-2023-05.csv.zip",
		"s3://koblas-tubular-test/dbrfoo-aws-billing-detailed-line-items-with-resources-and-tags-2023-05.avro",
	}}, runner.calls)
	assert.Equal(t, service.Summary{Received: 1, Converted: 1}, summary)
}

func TestDispatchSkipsOtherFiles(t *testing.T) {
	runner := &FakeRunner{}
	batch := domain.Batch{Records: []domain.Record{{BucketName: "src-bucket", ObjectKey: "random-file.txt"}}}

	summary, err := newDispatcher(runner).Dispatch(context.Background(), batch)
	require.NoError(t, err)

	assert.Empty(t, runner.calls)
	assert.Equal(t, service.Summary{Received: 1, Skipped: 1}, summary)
}

func TestDispatchEmptyBatch(t *testing.T) {
	runner := &FakeRunner{}

	summary, err := newDispatcher(runner).Dispatch(context.Background(), domain.Batch{})
	require.NoError(t, err)

	assert.Empty(t, runner.calls)
	assert.Equal(t, service.Summary{}, summary)
}

func TestDispatchPreservesOrder(t *testing.T) {
	runner := &FakeRunner{}
	batch := domain.Batch{Records: []domain.Record{
		{BucketName: "a", ObjectKey: keyJune},
		{BucketName: "b", ObjectKey: "random-file.txt"},
		{BucketName: "c", ObjectKey: keyMay},
	}}

	summary, err := newDispatcher(runner).Dispatch(context.Background(), batch)
	require.NoError(t, err)

	require.Len(t, runner.calls, 2)
	assert.Equal(t, "s3://a/"+keyJune, runner.calls[0].source)
	assert.Equal(t, "s3://c/"+keyMay, runner.calls[1].source)
	assert.Equal(t, service.Summary{Received: 3, Skipped: 1, Converted: 2}, summary)
}

func TestDispatchManyRecordsInOrder(t *testing.T) {
	runner := &FakeRunner{}

	var batch domain.Batch
	var expected []string
	for i := 0; i < 50; i++ {
		bucket := string(rune('a'+i%26)) + "-bucket"
		batch.Records = append(batch.Records, domain.Record{BucketName: bucket, ObjectKey: keyMay})
		expected = append(expected, "s3://"+bucket+"/"+keyMay)
		if i%3 == 0 {
			batch.Records = append(batch.Records, domain.Record{BucketName: bucket, ObjectKey: "skip.txt"})
		}
	}

	_, err := newDispatcher(runner).Dispatch(context.Background(), batch)
	require.NoError(t, err)

	var actual []string
	for _, c := range runner.calls {
		actual = append(actual, c.source)
	}
	assert.Equal(t, expected, actual)
}

func TestDispatchConversionFailure(t *testing.T) {
	runner := &FakeRunner{exitCodes: map[string]int{"s3://src-bucket/" + keyMay: 2}}
	batch := domain.Batch{Records: []domain.Record{{BucketName: "src-bucket", ObjectKey: keyMay}}}

	_, err := newDispatcher(runner).Dispatch(context.Background(), batch)

	var processErr domain.ConversionProcessError
	require.ErrorAs(t, err, &processErr)
	assert.Equal(t, 2, processErr.ExitCode)
	assert.Equal(t, "s3://koblas-tubular-test/dbrfoo-aws-billing-detailed-line-items-with-resources-and-tags-2023-05.avro",
		processErr.Destination.String())
}

func TestDispatchStopsAtFirstFailure(t *testing.T) {
	runner := &FakeRunner{exitCodes: map[string]int{"s3://a/" + keyMay: 1}}
	batch := domain.Batch{Records: []domain.Record{
		{BucketName: "a", ObjectKey: keyMay},
		{BucketName: "b", ObjectKey: keyJune},
	}}

	_, err := newDispatcher(runner).Dispatch(context.Background(), batch)

	var processErr domain.ConversionProcessError
	require.ErrorAs(t, err, &processErr)
	assert.Equal(t, 1, processErr.ExitCode)
	assert.Len(t, runner.calls, 1)
}

func TestDispatchFailureLeavesLaterRecordsUntouched(t *testing.T) {
	runner := &FakeRunner{exitCodes: map[string]int{"s3://a/" + keyMay: 1}}
	batch := domain.Batch{Records: []domain.Record{
		{BucketName: "a", ObjectKey: keyMay},
		{BucketName: "b", ObjectKey: "random-file.txt"},
		{BucketName: "c", ObjectKey: "other-file.txt"},
	}}

	summary, err := newDispatcher(runner).Dispatch(context.Background(), batch)

	require.Error(t, err)
	assert.Equal(t, service.Summary{Received: 3}, summary)
}

func TestDispatchMalformedRecord(t *testing.T) {
	runner := &FakeRunner{}
	batch := domain.Batch{Records: []domain.Record{
		{BucketName: "a", ObjectKey: keyMay},
		{BucketName: "", ObjectKey: keyJune},
		{BucketName: "c", ObjectKey: keyJune},
	}}

	_, err := newDispatcher(runner).Dispatch(context.Background(), batch)

	var malformed domain.MalformedRecordError
	require.ErrorAs(t, err, &malformed)
	assert.Equal(t, 1, malformed.Index)
	assert.Equal(t, domain.FieldBucketName, malformed.Field)
	assert.Equal(t, []call{{"s3://a/" + keyMay, "s3://koblas-tubular-test/dbr" + keyMay[:len(keyMay)-len(".csv.zip")] + ".avro"}}, runner.calls)
}

func TestDispatchCancelled(t *testing.T) {
	runner := &FakeRunner{}
	batch := domain.Batch{Records: []domain.Record{{BucketName: "a", ObjectKey: keyMay}}}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newDispatcher(runner).Dispatch(ctx, batch)

	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, runner.calls)
}
