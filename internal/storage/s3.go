package storage

import (
	"context"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go/aws"
	awssession "github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
)

// S3Store reads remotely stored objects as streams. It satisfies the
// ingestion package's ObjectStore interface.
type S3Store struct {
	client s3iface.S3API
}

func NewS3Store(region string) (*S3Store, error) {
	sess, err := awssession.NewSession(&aws.Config{Region: aws.String(region)})
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS session: %w", err)
	}

	return &S3Store{client: s3.New(sess)}, nil
}

// NewS3StoreWithClient is used by tests to substitute a fake S3 client.
func NewS3StoreWithClient(client s3iface.S3API) *S3Store {
	return &S3Store{client: client}
}

// GetObject returns the object body as a stream. The caller owns closing it.
func (s *S3Store) GetObject(ctx context.Context, bucket, key string) (io.ReadCloser, error) {
	out, err := s.client.GetObjectWithContext(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get object %s from bucket %s: %w", key, bucket, err)
	}

	return out.Body, nil
}
