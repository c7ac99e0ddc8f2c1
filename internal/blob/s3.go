package blob

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"speshway-platform/internal/config"
)

// s3Store talks to any S3-compatible host (AWS, Cloudflare R2, MinIO).
type s3Store struct {
	client    *s3.Client
	bucket    string
	publicURL string
}

func NewS3(ctx context.Context, cfg config.BlobConfig) (Store, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKeyID != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, "")))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	return newS3Store(client, cfg.Bucket, cfg.PublicURL), nil
}

func newS3Store(client *s3.Client, bucket, publicURL string) *s3Store {
	return &s3Store{client: client, bucket: bucket, publicURL: publicURL}
}

func (s *s3Store) Driver() string { return "s3" }

func (s *s3Store) Put(ctx context.Context, key, contentType string, data []byte) (Ref, error) {
	if !validKey(key) {
		return Ref{}, ErrInvalidKey
	}

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(data))),
	})
	if err != nil {
		return Ref{}, fmt.Errorf("put object %s: %w", key, err)
	}

	return Ref{URL: publicURL(s.publicURL, key), PublicID: key}, nil
}

func (s *s3Store) Delete(ctx context.Context, publicID string) error {
	if !validKey(publicID) {
		return ErrInvalidKey
	}

	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(publicID),
	})
	if err != nil {
		return fmt.Errorf("delete object %s: %w", publicID, err)
	}
	return nil
}

// publicURL renders the configured template and escapes stray spaces so the
// result is safe to hand to browsers.
func publicURL(template, key string) string {
	raw := template + key
	if strings.Contains(template, "%s") {
		raw = fmt.Sprintf(template, key)
	}
	raw = strings.ReplaceAll(raw, " ", "%20")
	parsed, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	return parsed.String()
}
