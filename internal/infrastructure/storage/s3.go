package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"
	"sync"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/rs/zerolog/log"
)

// ObjectStore stores and removes objects by key.
type ObjectStore interface {
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	Remove(ctx context.Context, key string) error
}

// ErrNotConfigured is returned by NoopStore.
var ErrNotConfigured = errors.New("object storage is not configured")

// S3Store is an ObjectStore backed by an S3-compatible bucket.
type S3Store struct {
	bucket         string
	client         *minio.Client
	bucketInitOnce sync.Once
	bucketInitErr  error
}

// NewS3Store configures a store from endpoint and static credentials.
func NewS3Store(endpoint string, useSSL bool, accessKey, secretKey, bucket string) (*S3Store, error) {
	endpoint = strings.TrimSpace(endpoint)
	if endpoint == "" {
		return nil, errors.New("s3: endpoint is required")
	}
	if bucket = strings.TrimSpace(bucket); bucket == "" {
		return nil, errors.New("s3: bucket is required")
	}
	client, err := minio.New(hostOf(endpoint), &minio.Options{
		Creds:  credentials.NewStaticV4(strings.TrimSpace(accessKey), strings.TrimSpace(secretKey), ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("s3: create client: %w", err)
	}
	return &S3Store{bucket: bucket, client: client}, nil
}

// Put uploads r under key. size may be -1 when unknown.
func (s *S3Store) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error {
	if r == nil {
		return errors.New("s3: reader is required")
	}
	key = cleanKey(key)
	if key == "" {
		return errors.New("s3: object key is required")
	}
	if err := s.ensureBucket(ctx); err != nil {
		return err
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	if _, err := s.client.PutObject(ctx, s.bucket, key, r, size, minio.PutObjectOptions{ContentType: contentType}); err != nil {
		return fmt.Errorf("s3: put object: %w", err)
	}
	log.Debug().Str("bucket", s.bucket).Str("key", key).Msg("s3 upload completed")
	return nil
}

// Remove deletes key. Removing a missing key is not an error.
func (s *S3Store) Remove(ctx context.Context, key string) error {
	key = cleanKey(key)
	if key == "" {
		return errors.New("s3: object key is required")
	}
	if err := s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("s3: remove object: %w", err)
	}
	return nil
}

func (s *S3Store) ensureBucket(ctx context.Context) error {
	s.bucketInitOnce.Do(func() {
		exists, err := s.client.BucketExists(ctx, s.bucket)
		if err != nil {
			s.bucketInitErr = fmt.Errorf("s3: check bucket: %w", err)
			return
		}
		if exists {
			return
		}
		if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
			s.bucketInitErr = fmt.Errorf("s3: create bucket: %w", err)
			return
		}
		policy := fmt.Sprintf(`{"Version":"2012-10-17","Statement":[{"Effect":"Allow","Principal":{"AWS":["*"]},"Action":["s3:GetObject"],"Resource":["arn:aws:s3:::%s/*"]}]}`, s.bucket)
		if err := s.client.SetBucketPolicy(ctx, s.bucket, policy); err != nil {
			s.bucketInitErr = fmt.Errorf("s3: set bucket policy: %w", err)
		}
	})
	return s.bucketInitErr
}

// NoopStore fails fast when no bucket is configured.
type NoopStore struct{}

func (NoopStore) Put(context.Context, string, io.Reader, int64, string) error { return ErrNotConfigured }
func (NoopStore) Remove(context.Context, string) error                        { return ErrNotConfigured }

// PublicURL joins the asset base URL and key.
func PublicURL(base, key string) string {
	if key == "" {
		return ""
	}
	if strings.HasPrefix(key, "http://") || strings.HasPrefix(key, "https://") {
		return key
	}
	if base == "" {
		return "/" + cleanKey(key)
	}
	return strings.TrimRight(base, "/") + "/" + cleanKey(key)
}

func cleanKey(key string) string {
	return strings.Trim(strings.TrimSpace(key), "/")
}

func hostOf(endpoint string) string {
	if parsed, err := url.Parse(endpoint); err == nil && parsed.Host != "" {
		return parsed.Host
	}
	return endpoint
}

var _ ObjectStore = (*S3Store)(nil)
var _ ObjectStore = NoopStore{}
