package config

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Config holds S3 client and bucket info
type S3Config struct {
	Client     *s3.Client
	BucketName string
	Prefix     string
}

// NewS3Config initializes the S3 client from the storage settings. A custom endpoint and
// path-style addressing allow S3-compatible stores such as MinIO.
func NewS3Config(ctx context.Context, cfg StorageConfig) (*S3Config, error) {
	awsCfg, err := config.LoadDefaultConfig(ctx,
		config.WithRegion(cfg.Region),
	)
	if err != nil {
		return nil, err
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = cfg.UsePathStyle
	})

	return &S3Config{
		Client:     client,
		BucketName: cfg.Bucket,
		Prefix:     cfg.Prefix,
	}, nil
}
