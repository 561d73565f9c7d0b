// Package covers stores book cover images in an S3-compatible bucket (AWS S3
// or MinIO) and hands back a URL the storefront can use as coverImage.
package covers

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

// PresignTTL is the lifetime of presigned cover URLs, the SigV4 maximum.
const PresignTTL = 7 * 24 * time.Hour

var ErrNotConfigured = errors.New("cover storage is not configured")

type Config struct {
	Endpoint      string
	Region        string
	Bucket        string
	AccessKey     string
	SecretKey     string
	PublicBaseURL string
}

// Enabled reports whether enough settings are present to reach a bucket.
func (c Config) Enabled() bool {
	return c.Bucket != "" && c.Region != ""
}

// Store saves cover images and returns their URL.
type Store interface {
	Put(ctx context.Context, key, contentType string, data []byte) (string, error)
}

type PutObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

type PresignGetAPI interface {
	PresignGetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error)
}

// S3Store writes objects with PutObject. Objects are addressed through
// PublicBaseURL when it is set and through a presigned GET otherwise.
type S3Store struct {
	api           PutObjectAPI
	presign       PresignGetAPI
	bucket        string
	publicBaseURL string
}

func NewS3Store(api PutObjectAPI, presign PresignGetAPI, bucket, publicBaseURL string) *S3Store {
	return &S3Store{api: api, presign: presign, bucket: bucket, publicBaseURL: strings.TrimRight(publicBaseURL, "/")}
}

var loadDefaultAWSConfig = config.LoadDefaultConfig

// NewFromConfig builds an S3Store with static credentials and, when
// cfg.Endpoint is set, a custom path-style endpoint for MinIO.
func NewFromConfig(ctx context.Context, cfg Config) (*S3Store, error) {
	if !cfg.Enabled() {
		return nil, ErrNotConfigured
	}

	opts := []func(*config.LoadOptions) error{config.WithRegion(cfg.Region)}
	if cfg.AccessKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")))
	}
	awsCfg, err := loadDefaultAWSConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})
	return NewS3Store(client, s3.NewPresignClient(client), cfg.Bucket, cfg.PublicBaseURL), nil
}

func (s *S3Store) Put(ctx context.Context, key, contentType string, data []byte) (string, error) {
	_, err := s.api.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(data))),
	})
	if err != nil {
		return "", fmt.Errorf("put object %s: %w", key, err)
	}
	return s.url(ctx, key)
}

func (s *S3Store) url(ctx context.Context, key string) (string, error) {
	if s.publicBaseURL != "" {
		return s.publicBaseURL + "/" + escapeKey(key), nil
	}
	if s.presign == nil {
		return "", fmt.Errorf("no public URL for %s: %w", key, ErrNotConfigured)
	}
	req, err := s.presign.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(PresignTTL))
	if err != nil {
		return "", fmt.Errorf("presign get %s: %w", key, err)
	}
	return req.URL, nil
}

func escapeKey(key string) string {
	parts := strings.Split(key, "/")
	for i, p := range parts {
		parts[i] = url.PathEscape(p)
	}
	return strings.Join(parts, "/")
}

// Key builds the object key of a new cover for bookID.
func Key(bookID, ext string) string {
	return fmt.Sprintf("covers/%s/%s%s", url.PathEscape(bookID), uuid.NewString(), ext)
}
