package service

import (
	"bytes"
	"context"
	"fmt"
	"mime"
	"path"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/pageza/recipe-chatbot/backend/config"
	"go.uber.org/zap"
)

// ObjectPutter is the part of the S3 client the archive uses
type ObjectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3ImageArchive stores uploaded recipe images in an S3 bucket
type S3ImageArchive struct {
	client ObjectPutter
	bucket string
	prefix string
	logger *zap.Logger
}

// NewS3ImageArchive creates a new S3ImageArchive from an initialized S3 config
func NewS3ImageArchive(s3Config *config.S3Config, logger *zap.Logger) *S3ImageArchive {
	return newS3ImageArchive(s3Config.Client, s3Config.BucketName, s3Config.Prefix, logger)
}

func newS3ImageArchive(client ObjectPutter, bucket, prefix string, logger *zap.Logger) *S3ImageArchive {
	return &S3ImageArchive{
		client: client,
		bucket: bucket,
		prefix: strings.Trim(prefix, "/"),
		logger: logger,
	}
}

// Store uploads data under a fresh key and returns that key
func (a *S3ImageArchive) Store(ctx context.Context, name, contentType string, data []byte) (string, error) {
	key := path.Join(a.prefix, uuid.New().String()+imageExt(name, contentType))
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	_, err := a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to S3: %w", err)
	}

	a.logger.Info("archived recipe image",
		zap.String("bucket", a.bucket),
		zap.String("key", key),
		zap.Int("bytes", len(data)),
	)
	return key, nil
}

func imageExt(name, contentType string) string {
	if ext := strings.ToLower(filepath.Ext(name)); ext != "" {
		return ext
	}
	if exts, err := mime.ExtensionsByType(contentType); err == nil && len(exts) > 0 {
		return exts[0]
	}
	return ""
}

// NopImageArchive discards images. Used when storage is disabled.
type NopImageArchive struct{}

func (NopImageArchive) Store(context.Context, string, string, []byte) (string, error) {
	return "", nil
}
