package objectstore

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/de-tools/sales-atlas/pkg/models/domain"
	"github.com/de-tools/sales-atlas/pkg/store/file"
	"github.com/rs/zerolog"
)

// GetObjectAPI is the part of the S3 client the source needs.
type GetObjectAPI interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// NewS3Client builds a client from the default credential chain.
func NewS3Client(ctx context.Context, region string) (*s3.Client, error) {
	var opts []func(*awsconfig.LoadOptions) error
	if region != "" {
		opts = append(opts, awsconfig.WithRegion(region))
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return s3.NewFromConfig(cfg), nil
}

// S3Source downloads a CSV or XLSX export from a bucket on every fetch.
type S3Source struct {
	client     GetObjectAPI
	bucket     string
	key        string
	sheet      string
	sourceType string
	extractor  file.Extractor
}

func NewS3Source(client GetObjectAPI, bucket, key, sheet, sourceType string, extractor file.Extractor) *S3Source {
	return &S3Source{
		client:     client,
		bucket:     bucket,
		key:        key,
		sheet:      sheet,
		sourceType: sourceType,
		extractor:  extractor,
	}
}

func (s *S3Source) Fetch(ctx context.Context) ([]domain.RawRecord, error) {
	logger := zerolog.Ctx(ctx)

	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key),
	})
	if err != nil {
		return nil, fmt.Errorf("get s3://%s/%s: %w", s.bucket, s.key, err)
	}
	defer func(body io.ReadCloser) {
		if err := body.Close(); err != nil {
			logger.Warn().Err(err).Msg("failed to close object body")
		}
	}(out.Body)

	// excelize needs the whole archive, so buffer it.
	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("read s3://%s/%s: %w", s.bucket, s.key, err)
	}

	grid, err := file.ReadGrid(s.key, bytes.NewReader(data), s.sheet)
	if err != nil {
		return nil, fmt.Errorf("s3://%s/%s: %w", s.bucket, s.key, err)
	}

	logger.Debug().
		Str("bucket", s.bucket).
		Str("key", s.key).
		Int("bytes", len(data)).
		Msg("downloaded source export")

	return s.extractor.ExtractRecords(ctx, s.sourceType, grid)
}
