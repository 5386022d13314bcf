package storage

import (
	"bytes"
	"context"
	"fmt"
	"mime"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/brightcrm/customer-service/internal/config"
	domainStorage "github.com/brightcrm/customer-service/internal/domain/storage"
)

// NewClient builds an S3 client from static credentials.
func NewClient(ctx context.Context, cfg *config.S3Config) (*s3.Client, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return s3.NewFromConfig(awsCfg), nil
}

// S3Storage implements MediaStorage on an S3 bucket. Objects are uploaded
// public-read and addressed by their bucket URL.
type S3Storage struct {
	client *s3.Client
	bucket string
	region string
	logger *zap.Logger
}

func NewS3Storage(client *s3.Client, bucket, region string, logger *zap.Logger) *S3Storage {
	return &S3Storage{
		client: client,
		bucket: bucket,
		region: region,
		logger: logger,
	}
}

var _ domainStorage.MediaStorage = (*S3Storage)(nil)

// Upload stores the buffer under a fresh key in the given folder and returns
// the public URL. Upstream failures are fatal to the calling request.
func (s *S3Storage) Upload(ctx context.Context, data []byte, filename string, folder string) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	key := fmt.Sprintf("%s/%s%s", folder, uuid.New().String(), ext)

	contentType := mime.TypeByExtension(ext)
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
		ACL:         s3types.ObjectCannedACLPublicRead,
	})
	if err != nil {
		return "", fmt.Errorf("media upload failed: %w", err)
	}

	url := fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucket, s.region, key)
	s.logger.Debug("uploaded media file",
		zap.String("key", key),
		zap.String("original_filename", filename),
		zap.Int("size", len(data)),
	)
	return url, nil
}
