package store

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MinioStore signs URLs for one bucket with one credential.
type MinioStore struct {
	client *minio.Client
	bucket string
}

// MinioOptions describes a bucket and the credential used to sign for it.
type MinioOptions struct {
	Endpoint  string
	Region    string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// NewMinioStore builds a client without contacting the server. With Region
// set, presigning is purely local.
func NewMinioStore(opts MinioOptions) (*MinioStore, error) {
	client, err := minio.New(opts.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(opts.AccessKey, opts.SecretKey, ""),
		Secure: opts.UseSSL,
		Region: opts.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("minio client: %w", err)
	}
	return &MinioStore{client: client, bucket: opts.Bucket}, nil
}

// EnsureBucket creates the bucket if it does not exist yet.
func (s *MinioStore) EnsureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("minio bucket check: %w", err)
	}
	if !exists {
		if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
			return fmt.Errorf("minio make bucket: %w", err)
		}
	}
	return nil
}

// PresignUpload signs a PUT that only succeeds if the object does not exist
// yet. A non-empty contentType is bound into the signature.
func (s *MinioStore) PresignUpload(ctx context.Context, key, contentType string, ttl time.Duration) (*url.URL, error) {
	headers := http.Header{}
	headers.Set("If-None-Match", "*")
	if contentType != "" {
		headers.Set("Content-Type", contentType)
	}
	u, err := s.client.PresignHeader(ctx, http.MethodPut, s.bucket, key, ttl, nil, headers)
	if err != nil {
		return nil, fmt.Errorf("presign upload %s: %w", key, err)
	}
	return u, nil
}

// PresignDownload signs a GET for key.
func (s *MinioStore) PresignDownload(ctx context.Context, key string, ttl time.Duration) (*url.URL, error) {
	u, err := s.client.PresignedGetObject(ctx, s.bucket, key, ttl, nil)
	if err != nil {
		return nil, fmt.Errorf("presign download %s: %w", key, err)
	}
	return u, nil
}
