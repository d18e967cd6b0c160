package storage

import (
	"context"
	"fmt"
	"io"

	"noleggio/internal/config"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Uploader stores documents and backups in an S3 bucket. Without a
// configured bucket it is disabled and callers skip the upload leg.
type Uploader struct {
	client *s3.Client
	bucket string
	region string
}

func NewUploader(ctx context.Context, cfg config.Config) (*Uploader, error) {
	if cfg.S3Bucket == "" {
		return &Uploader{}, nil
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.S3Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.S3AccessKeyID, cfg.S3SecretAccessKey, "")),
	)
	if err != nil {
		return nil, fmt.Errorf("error loading AWS config: %w", err)
	}

	return &Uploader{
		client: s3.NewFromConfig(awsCfg),
		bucket: cfg.S3Bucket,
		region: cfg.S3Region,
	}, nil
}

func (u *Uploader) Enabled() bool {
	return u != nil && u.client != nil
}

// Upload puts an object under key and returns its public URL.
func (u *Uploader) Upload(ctx context.Context, body io.Reader, key, contentType string) (string, error) {
	if !u.Enabled() {
		return "", fmt.Errorf("S3 storage is not configured")
	}
	_, err := u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(u.bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("error uploading %s: %w", key, err)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", u.bucket, u.region, key), nil
}

// Delete removes an object. Missing keys are not an error on S3.
func (u *Uploader) Delete(ctx context.Context, key string) error {
	if !u.Enabled() {
		return fmt.Errorf("S3 storage is not configured")
	}
	_, err := u.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(u.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("error deleting %s: %w", key, err)
	}
	return nil
}
