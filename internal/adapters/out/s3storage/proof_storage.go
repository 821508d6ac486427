// Package s3storage keeps delivery proof photos in an S3 bucket.
package s3storage

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"

	"fulfillment/internal/pkg/errs"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// PutObjectAPI is the part of *s3.Client the storage needs.
type PutObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

type Config struct {
	Region string
	Bucket string
	// Endpoint overrides the AWS endpoint, e.g. for MinIO or LocalStack.
	Endpoint string
	// PublicBaseURL is prepended to object keys in returned URLs. Defaults to
	// the virtual-hosted bucket URL.
	PublicBaseURL string
	KeyPrefix     string
}

type ProofStorage struct {
	client  PutObjectAPI
	bucket  string
	baseURL string
	prefix  string
}

// NewProofStorage loads the default AWS credential chain.
func NewProofStorage(ctx context.Context, cfg Config) (*ProofStorage, error) {
	awsCfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(cfg.Region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})
	return NewProofStorageWithClient(client, cfg), nil
}

func NewProofStorageWithClient(client PutObjectAPI, cfg Config) *ProofStorage {
	base := cfg.PublicBaseURL
	if base == "" {
		switch {
		case cfg.Endpoint != "":
			base = strings.TrimRight(cfg.Endpoint, "/") + "/" + cfg.Bucket
		default:
			base = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.Bucket, cfg.Region)
		}
	}
	return &ProofStorage{
		client:  client,
		bucket:  cfg.Bucket,
		baseURL: strings.TrimRight(base, "/"),
		prefix:  strings.Trim(cfg.KeyPrefix, "/"),
	}
}

// Upload implements ports.ProofStorage.
func (s *ProofStorage) Upload(ctx context.Context, key, contentType string, body io.Reader, size int64) (string, error) {
	key = strings.TrimLeft(key, "/")
	if key == "" {
		return "", errs.NewValueIsRequiredError("key")
	}
	if s.prefix != "" {
		key = s.prefix + "/" + key
	}

	input := &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	}
	if size > 0 {
		input.ContentLength = aws.Int64(size)
	}

	if _, err := s.client.PutObject(ctx, input); err != nil {
		return "", fmt.Errorf("upload %s to s3: %w", key, err)
	}

	return s.baseURL + "/" + escapePath(key), nil
}

func escapePath(key string) string {
	parts := strings.Split(key, "/")
	for i, p := range parts {
		parts[i] = url.PathEscape(p)
	}
	return strings.Join(parts, "/")
}
