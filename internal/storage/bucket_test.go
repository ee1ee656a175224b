package storage_test

import (
	"context"
	"errors"
	"testing"

	"github.com/ATenderholt/rainbow-xform/internal/storage"
	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"github.com/stretchr/testify/assert"
)

type FakeS3 struct {
	s3iface.S3API
	buckets map[string]bool
	asked   []string
}

func (f *FakeS3) HeadBucketWithContext(_ aws.Context, input *s3.HeadBucketInput, _ ...request.Option) (*s3.HeadBucketOutput, error) {
	f.asked = append(f.asked, aws.StringValue(input.Bucket))
	if f.buckets[aws.StringValue(input.Bucket)] {
		return &s3.HeadBucketOutput{}, nil
	}
	return nil, errors.New("NotFound: Not Found")
}

func TestVerifyExistingBucket(t *testing.T) {
	fake := &FakeS3{buckets: map[string]bool{"koblas-tubular-test": true}}

	err := storage.NewBucketVerifierWithClient(fake).Verify(context.Background(), "koblas-tubular-test")

	assert.NoError(t, err)
	assert.Equal(t, []string{"koblas-tubular-test"}, fake.asked)
}

func TestVerifyMissingBucket(t *testing.T) {
	fake := &FakeS3{}

	err := storage.NewBucketVerifierWithClient(fake).Verify(context.Background(), "missing")

	var bucketErr storage.BucketError
	assert.ErrorAs(t, err, &bucketErr)
	assert.Contains(t, err.Error(), "missing")
}
