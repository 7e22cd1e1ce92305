package storage

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"github.com/stretchr/testify/assert"
)

type fakeS3Client struct {
	s3iface.S3API
	body      string
	err       error
	gotBucket string
	gotKey    string
}

func (f *fakeS3Client) GetObjectWithContext(ctx aws.Context, input *s3.GetObjectInput, opts ...request.Option) (*s3.GetObjectOutput, error) {
	f.gotBucket = aws.StringValue(input.Bucket)
	f.gotKey = aws.StringValue(input.Key)
	if f.err != nil {
		return nil, f.err
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(strings.NewReader(f.body))}, nil
}

func TestS3Store_GetObject(t *testing.T) {
	client := &fakeS3Client{body: "a,b,c\n"}
	store := NewS3StoreWithClient(client)

	body, err := store.GetObject(context.Background(), "prices-bucket", "database/data/NADAC2022.csv")
	assert.NoError(t, err)
	defer body.Close()

	content, err := io.ReadAll(body)
	assert.NoError(t, err)
	assert.Equal(t, "a,b,c\n", string(content))
	assert.Equal(t, "prices-bucket", client.gotBucket)
	assert.Equal(t, "database/data/NADAC2022.csv", client.gotKey)
}

func TestS3Store_GetObjectError(t *testing.T) {
	client := &fakeS3Client{err: errors.New("access denied")}
	store := NewS3StoreWithClient(client)

	body, err := store.GetObject(context.Background(), "prices-bucket", "missing.csv")
	assert.Error(t, err)
	assert.Nil(t, body)
	assert.Contains(t, err.Error(), "missing.csv")
}
