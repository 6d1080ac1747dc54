package services

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/kendall-kelly/car-rent-api/config"
)

// S3PhotoSigner issues presigned GET URLs for car photos kept in a private bucket
type S3PhotoSigner struct {
	presign *s3.PresignClient
	bucket  string
	ttl     time.Duration
}

// NewS3PhotoSigner builds a signer from the AWS settings in cfg
func NewS3PhotoSigner(ctx context.Context, cfg *config.Config) (*S3PhotoSigner, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.AWSRegion),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AWSAccessKeyID,
			cfg.AWSSecretAccessKey,
			"",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg)
	return &S3PhotoSigner{
		presign: s3.NewPresignClient(client),
		bucket:  cfg.AWSS3Bucket,
		ttl:     cfg.PhotoURLTTL,
	}, nil
}

// GetPresignedURL returns a temporary URL for the object at key.
// An empty key yields an empty URL.
func (s *S3PhotoSigner) GetPresignedURL(ctx context.Context, key string) (string, error) {
	if key == "" {
		return "", nil
	}

	request, err := s.presign.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}, func(opts *s3.PresignOptions) {
		opts.Expires = s.ttl
	})
	if err != nil {
		return "", fmt.Errorf("failed to generate presigned URL: %w", err)
	}

	return request.URL, nil
}
