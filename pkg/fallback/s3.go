package fallback

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
)

// S3Config configures where journal exports are uploaded.
type S3Config struct {
	Bucket         string `env:"EXPORT_S3_BUCKET"`
	Region         string `env:"EXPORT_S3_REGION" envDefault:"us-east-1"`
	Prefix         string `env:"EXPORT_S3_PREFIX" envDefault:"fallback-exports"`
	AccessKeyID    string `env:"EXPORT_S3_ACCESS_KEY_ID"`
	SecretKey      string `env:"EXPORT_S3_SECRET_ACCESS_KEY"`
	Endpoint       string `env:"EXPORT_S3_ENDPOINT"`
	ForcePathStyle bool   `env:"EXPORT_S3_FORCE_PATH_STYLE" envDefault:"false"`
}

// S3Client is the subset of the S3 API the exporter uses.
type S3Client interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Exporter uploads journal snapshots to a bucket.
type S3Exporter struct {
	client S3Client
	bucket string
	prefix string
	now    func() time.Time
}

// S3Option configures an S3Exporter.
type S3Option func(*S3Exporter)

// WithS3Client injects a pre-built client, skipping AWS config loading.
func WithS3Client(c S3Client) S3Option {
	return func(e *S3Exporter) { e.client = c }
}

// WithClock overrides the time source used in object keys.
func WithClock(now func() time.Time) S3Option {
	return func(e *S3Exporter) {
		if now != nil {
			e.now = now
		}
	}
}

// NewS3Exporter builds an exporter. Static credentials are used when both
// keys are set, otherwise the default AWS credential chain applies.
func NewS3Exporter(ctx context.Context, cfg S3Config, opts ...S3Option) (*S3Exporter, error) {
	if cfg.Bucket == "" || cfg.Region == "" {
		return nil, fmt.Errorf("%w: S3 bucket and region are required", ErrInvalidConfig)
	}

	e := &S3Exporter{
		bucket: cfg.Bucket,
		prefix: strings.Trim(cfg.Prefix, "/"),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.client != nil {
		return e, nil
	}

	awsOptions := []func(*config.LoadOptions) error{config.WithRegion(cfg.Region)}
	if cfg.AccessKeyID != "" && cfg.SecretKey != "" {
		awsOptions = append(awsOptions, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretKey, ""),
		))
	}
	awsConfig, err := config.LoadDefaultConfig(ctx, awsOptions...)
	if err != nil {
		return nil, errors.Join(ErrInvalidConfig, err)
	}
	e.client = s3.NewFromConfig(awsConfig, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = cfg.ForcePathStyle
	})
	return e, nil
}

// Upload exports j in format and stores it under
// <prefix>/YYYY/MM/DD/email_reports_<unix>.<ext>. It returns the object key.
func (e *S3Exporter) Upload(ctx context.Context, j Journal, format Format) (string, error) {
	var buf bytes.Buffer
	if err := Export(ctx, j, &buf, format); err != nil {
		return "", err
	}

	now := e.now().UTC()
	key := path.Join(e.prefix, now.Format("2006/01/02"),
		fmt.Sprintf("email_reports_%d.%s", now.Unix(), format.Extension()))

	_, err := e.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(e.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(buf.Bytes()),
		ContentType: aws.String(format.ContentType()),
	})
	if err != nil {
		return "", errors.Join(ErrExportFailed, classifyS3Error(err))
	}
	return key, nil
}

func classifyS3Error(err error) error {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return fmt.Errorf("s3 %s: %w", apiErr.ErrorCode(), err)
	}
	return err
}
