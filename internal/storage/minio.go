package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// BucketConfig describes an S3-compatible bucket.
type BucketConfig struct {
	Endpoint  string // "minio:9000" or "https://s3.example.com"
	AccessKey string
	SecretKey string
	Bucket    string
	Region    string
}

// BucketStore writes uploads as objects in a single bucket. The object key
// is the filename as supplied.
type BucketStore struct {
	client      *minio.Client
	bucket      string
	contentType string
}

func normaliseEndpoint(raw string) (endpoint string, secure bool, err error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", false, errors.New("empty endpoint")
	}

	// Accept either "minio:9000" or "http://minio:9000" / "https://minio:9000".
	if strings.Contains(raw, "://") {
		u, err := url.Parse(raw)
		if err != nil {
			return "", false, err
		}
		if u.Host == "" {
			return "", false, errors.New("invalid endpoint")
		}
		if u.Path != "" && u.Path != "/" {
			return "", false, errors.New("endpoint must not contain a path")
		}
		return u.Host, u.Scheme == "https", nil
	}

	// Bare host:port is plain HTTP, which is what a local MinIO serves.
	return raw, false, nil
}

// NewBucketStore connects to the endpoint and creates the bucket if it does
// not exist yet.
func NewBucketStore(ctx context.Context, cfg BucketConfig) (*BucketStore, error) {
	if cfg.Endpoint == "" || cfg.AccessKey == "" || cfg.SecretKey == "" || cfg.Bucket == "" {
		return nil, errors.New("storage: bucket configuration incomplete")
	}

	endpoint, secure, err := normaliseEndpoint(cfg.Endpoint)
	if err != nil {
		return nil, fmt.Errorf("s3 endpoint: %w", err)
	}

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: secure,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("minio client: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("bucket exists: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{Region: cfg.Region}); err != nil {
			return nil, fmt.Errorf("make bucket %s: %w", cfg.Bucket, err)
		}
	}

	return &BucketStore{client: client, bucket: cfg.Bucket, contentType: "text/csv"}, nil
}

func (s *BucketStore) Kind() string { return "minio" }

// Bucket returns the bucket name.
func (s *BucketStore) Bucket() string { return s.bucket }

// Put streams r as an object of unknown length.
func (s *BucketStore) Put(ctx context.Context, name string, r io.Reader) (int64, error) {
	if name == "" {
		return 0, errors.New("storage: empty name")
	}
	info, err := s.client.PutObject(ctx, s.bucket, name, r, -1, minio.PutObjectOptions{
		ContentType: s.contentType,
	})
	if err != nil {
		return 0, fmt.Errorf("put object %s: %w", name, err)
	}
	return info.Size, nil
}

// Check confirms the bucket is still there.
func (s *BucketStore) Check(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("bucket does not exist: %s", s.bucket)
	}
	return nil
}
