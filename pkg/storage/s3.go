package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/getmentor/registration-api/config"
	"github.com/getmentor/registration-api/pkg/httpclient"
	"github.com/getmentor/registration-api/pkg/logger"
	"github.com/getmentor/registration-api/pkg/metrics"
	"go.uber.org/zap"
)

// S3Store writes uploads as objects in an S3-compatible bucket
type S3Store struct {
	client     *s3.Client
	bucketName string
}

// NewS3Store creates an S3 client with static credentials
func NewS3Store(cfg config.S3Config) *S3Store {
	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}

	opts := s3.Options{
		Region: region,
		Credentials: credentials.NewStaticCredentialsProvider(
			cfg.AccessKeyID,
			cfg.SecretAccessKey,
			"",
		),
		RequestChecksumCalculation: aws.RequestChecksumCalculationWhenRequired,
		HTTPClient:                 httpclient.NewTracingClient(60 * time.Second),
	}
	if cfg.Endpoint != "" {
		opts.BaseEndpoint = aws.String(cfg.Endpoint)
		opts.UsePathStyle = true
	}

	logger.Info("S3 storage client initialized",
		zap.String("bucket", cfg.BucketName),
		zap.String("endpoint", cfg.Endpoint),
		zap.String("region", region),
	)

	return &S3Store{
		client:     s3.New(opts),
		bucketName: cfg.BucketName,
	}
}

// Backend names the store for metrics and logs
func (s *S3Store) Backend() string {
	return "s3"
}

// Save uploads r under key name. The body is buffered so the request can be signed.
func (s *S3Store) Save(ctx context.Context, name string, r io.Reader) (int64, error) {
	start := time.Now()

	body, err := io.ReadAll(r)
	if err != nil {
		observe(s.Backend(), "error", metrics.MeasureDuration(start), 0)
		return 0, fmt.Errorf("failed to read upload: %w", err)
	}

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucketName),
		Key:           aws.String(name),
		Body:          bytes.NewReader(body),
		ContentLength: aws.Int64(int64(len(body))),
	})

	duration := metrics.MeasureDuration(start)
	if err != nil {
		observe(s.Backend(), "error", duration, 0)
		logger.LogAPICall(ctx, "s3_storage", "putObject", "error", duration,
			zap.Error(err),
			zap.String("key", name),
		)
		return 0, fmt.Errorf("failed to upload %s to bucket %s: %w", name, s.bucketName, err)
	}

	observe(s.Backend(), "success", duration, int64(len(body)))
	logger.LogAPICall(ctx, "s3_storage", "putObject", "success", duration,
		zap.String("key", name),
		zap.Int("size_bytes", len(body)),
	)
	return int64(len(body)), nil
}
