package storage

import (
	"context"
	"fmt"

	"github.com/ATenderholt/rainbow-xform/internal/logging"
	"github.com/ATenderholt/rainbow-xform/internal/settings"
	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"go.uber.org/zap"
)

var logger *zap.SugaredLogger

func init() {
	logger = logging.NewLogger().Named("storage")
}

type BucketError struct {
	bucket string
	base   error
}

func (e BucketError) Error() string {
	return fmt.Sprintf("Unable to access bucket %s: %v", e.bucket, e.base)
}

func (e BucketError) Unwrap() error {
	return e.base
}

// BucketVerifier checks that a bucket exists and is reachable with the
// current credentials.
type BucketVerifier struct {
	client s3iface.S3API
}

func NewBucketVerifier(cfg *settings.Config) (*BucketVerifier, error) {
	sess, err := session.NewSession(&aws.Config{Region: aws.String(cfg.Region)})
	if err != nil {
		logger.Errorf("Unable to create AWS session: %v", err)
		return nil, err
	}

	return NewBucketVerifierWithClient(s3.New(sess)), nil
}

func NewBucketVerifierWithClient(client s3iface.S3API) *BucketVerifier {
	return &BucketVerifier{client: client}
}

func (v BucketVerifier) Verify(ctx context.Context, bucket string) error {
	logger.Infof("Verifying bucket %s", bucket)

	_, err := v.client.HeadBucketWithContext(ctx, &s3.HeadBucketInput{Bucket: aws.String(bucket)})
	if err != nil {
		err := BucketError{bucket: bucket, base: err}
		logger.Error(err)
		return err
	}

	return nil
}
