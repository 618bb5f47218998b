// Package s3 provides an S3-backed result writer.
package s3

import (
	"bytes"
	"context"
	"fmt"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"dociq/internal/config"
	"dociq/internal/domain"
	"dociq/internal/output"
	"dociq/internal/schema"
)

// Writer persists extraction records as JSON objects in an S3 bucket.
// PutObject overwrites by key, which keeps retries idempotent.
type Writer struct {
	uploader *manager.Uploader
	bucket   string
	prefix   string
	registry *schema.Registry
}

// NewWriter creates an S3-backed result writer.
func NewWriter(cfg *config.S3Config, registry *schema.Registry) (*Writer, error) {
	var opts []func(*awsconfig.LoadOptions) error
	opts = append(opts, awsconfig.WithRegion(cfg.Region))

	if cfg.AccessKey != "" && cfg.SecretKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(), opts...)
	if err != nil {
		return nil, fmt.Errorf("loading aws config: %w", err)
	}

	var s3Opts []func(*s3.Options)
	if cfg.Endpoint != "" {
		s3Opts = append(s3Opts, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		})
	}

	client := s3.NewFromConfig(awsCfg, s3Opts...)
	return &Writer{
		uploader: manager.NewUploader(client),
		bucket:   cfg.Bucket,
		prefix:   cfg.KeyPrefix,
		registry: registry,
	}, nil
}

func (w *Writer) Write(ctx context.Context, name string, docType domain.DocumentType, record domain.FieldMap) error {
	data, err := output.EncodeRecord(record, output.OrderFor(w.registry, docType))
	if err != nil {
		return err
	}

	key := path.Join(w.prefix, name)
	_, err = w.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(w.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("s3 upload %s: %w", key, err)
	}
	return nil
}
