package loader

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog/log"
)

// S3Client defines the interface for S3 operations we need
type S3Client interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3Mirror serves the station dataset from a mirror bucket, keyed by the
// dataset path with the leading slash stripped.
type S3Mirror struct {
	client S3Client
	bucket string
}

// NewS3Mirror builds a mirror using the default AWS configuration.
func NewS3Mirror(ctx context.Context, bucket string) (*S3Mirror, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading AWS config: %w", err)
	}
	return &S3Mirror{
		client: s3.NewFromConfig(cfg),
		bucket: bucket,
	}, nil
}

// NewS3MirrorWithClient builds a mirror around an existing client,
// used by tests.
func NewS3MirrorWithClient(client S3Client, bucket string) *S3Mirror {
	return &S3Mirror{
		client: client,
		bucket: bucket,
	}
}

// Get fetches the dataset object for the given path.
func (m *S3Mirror) Get(ctx context.Context, path string) ([]byte, error) {
	if m.bucket == "" {
		return nil, fmt.Errorf("empty bucket name")
	}

	key := strings.TrimPrefix(path, "/")
	result, err := m.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(m.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("getting dataset from S3: %w", err)
	}
	defer func(Body io.ReadCloser) {
		err := Body.Close()
		if err != nil {
			log.Error().Err(err).Msg("Error closing S3 object body")
		}
	}(result.Body)

	data, err := io.ReadAll(result.Body)
	if err != nil {
		return nil, fmt.Errorf("reading S3 object: %w", err)
	}

	log.Debug().Str("bucket", m.bucket).Str("key", key).Int("bytes", len(data)).Msg("Fetched dataset from S3 mirror")
	return data, nil
}
