// Package storage archives CSV exports to S3-compatible object storage.
package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/shopsight/backend/internal/domain/report"
	"github.com/shopsight/backend/internal/infrastructure/config"
)

var _ report.ExportArchiver = (*S3ExportArchiver)(nil)

// archiveTimeLayout keeps keys lexically sortable.
const archiveTimeLayout = "20060102T150405Z"

// S3ExportArchiver writes exports to {prefix}/{tenant}/{name}-{timestamp}.csv.
// It works with AWS S3, MinIO, RustFS and other S3-compatible stores.
type S3ExportArchiver struct {
	client *s3.Client
	bucket string
	prefix string
	now    func() time.Time
	logger *zap.Logger
}

// S3ExportArchiverOption is a functional option for configuring S3ExportArchiver
type S3ExportArchiverOption func(*S3ExportArchiver)

// WithLogger sets a custom logger
func WithLogger(logger *zap.Logger) S3ExportArchiverOption {
	return func(s *S3ExportArchiver) {
		s.logger = logger
	}
}

// WithClock overrides the timestamp source used in object keys
func WithClock(now func() time.Time) S3ExportArchiverOption {
	return func(s *S3ExportArchiver) {
		s.now = now
	}
}

// NewS3ExportArchiver creates an archiver from configuration.
func NewS3ExportArchiver(ctx context.Context, cfg config.StorageConfig, opts ...S3ExportArchiverOption) (*S3ExportArchiver, error) {
	if cfg.Bucket == "" {
		return nil, errors.New("storage bucket is required")
	}
	if cfg.AccessKey == "" {
		return nil, errors.New("storage access key is required")
	}
	if cfg.SecretKey == "" {
		return nil, errors.New("storage secret key is required")
	}

	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = "http://localhost:9000"
	}
	if !strings.HasPrefix(endpoint, "http://") && !strings.HasPrefix(endpoint, "https://") {
		if cfg.UseSSL {
			endpoint = "https://" + endpoint
		} else {
			endpoint = "http://" + endpoint
		}
	}
	if _, err := url.Parse(endpoint); err != nil {
		return nil, fmt.Errorf("invalid storage endpoint: %w", err)
	}

	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.UsePathStyle
		o.BaseEndpoint = aws.String(endpoint)
		o.RequestChecksumCalculation = aws.RequestChecksumCalculationWhenRequired
		o.ResponseChecksumValidation = aws.ResponseChecksumValidationWhenRequired
	})

	prefix := strings.Trim(cfg.Prefix, "/")
	if prefix == "" {
		prefix = "exports"
	}

	a := &S3ExportArchiver{
		client: client,
		bucket: cfg.Bucket,
		prefix: prefix,
		now:    time.Now,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

// EnsureBucket creates the bucket if it doesn't exist.
func (a *S3ExportArchiver) EnsureBucket(ctx context.Context) error {
	_, err := a.client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(a.bucket)})
	if err == nil {
		return nil
	}

	var notFound *types.NotFound
	var noSuchBucket *types.NoSuchBucket
	if !errors.As(err, &notFound) && !errors.As(err, &noSuchBucket) {
		return fmt.Errorf("failed to check bucket existence: %w", err)
	}

	a.logger.Info("Creating export bucket", zap.String("bucket", a.bucket))
	_, err = a.client.CreateBucket(ctx, &s3.CreateBucketInput{Bucket: aws.String(a.bucket)})
	if err != nil {
		var alreadyOwned *types.BucketAlreadyOwnedByYou
		if errors.As(err, &alreadyOwned) {
			return nil
		}
		return fmt.Errorf("failed to create bucket: %w", err)
	}
	return nil
}

// ObjectKey returns the key an export named name would be stored under at t.
func (a *S3ExportArchiver) ObjectKey(tenantID uuid.UUID, name string, t time.Time) string {
	name = strings.TrimSuffix(path.Base(name), ".csv")
	return fmt.Sprintf("%s/%s/%s-%s.csv", a.prefix, tenantID, name, t.UTC().Format(archiveTimeLayout))
}

// Archive implements report.ExportArchiver.
func (a *S3ExportArchiver) Archive(ctx context.Context, tenantID uuid.UUID, name string, data []byte) (string, error) {
	if name == "" {
		return "", errors.New("export name is required")
	}

	key := a.ObjectKey(tenantID, name, a.now())
	_, err := a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(a.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
		ContentType:   aws.String("text/csv"),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload export %s: %w", key, err)
	}

	a.logger.Info("Export archived",
		zap.String("bucket", a.bucket),
		zap.String("key", key),
		zap.Int("bytes", len(data)),
	)
	return key, nil
}

// Bucket returns the bucket name
func (a *S3ExportArchiver) Bucket() string {
	return a.bucket
}

// NoopArchiver discards exports. Used when storage is disabled.
type NoopArchiver struct{}

// Archive implements report.ExportArchiver.
func (NoopArchiver) Archive(context.Context, uuid.UUID, string, []byte) (string, error) {
	return "", nil
}
