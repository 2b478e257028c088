package storage

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"path"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"assetapi/internal/config"
)

// minioStore implements BlobStore using an S3-compatible backend (MinIO, AWS
// S3, etc.). Public assets go to the public bucket and get a direct URL;
// private assets go to the private bucket and get a presigned URL.
// It is safe for concurrent use by multiple goroutines.
type minioStore struct {
	client        *minio.Client
	cfg           config.MinIOConfig
	presignExpiry time.Duration
}

// NewMinIO creates a new S3-compatible blob store backed by MinIO.
// It validates connectivity and ensures both buckets exist (creates them if missing).
func NewMinIO(cfg config.MinIOConfig) (BlobStore, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("minio endpoint is required")
	}
	if cfg.AccessKey == "" || cfg.SecretKey == "" {
		return nil, fmt.Errorf("minio credentials are required")
	}
	if cfg.PublicBucket == "" || cfg.PrivateBucket == "" {
		return nil, fmt.Errorf("minio public and private buckets are required")
	}

	cli, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}

	expiry := time.Duration(cfg.PresignExpiry) * time.Second
	if expiry <= 0 {
		expiry = time.Hour
	}
	ms := &minioStore{client: cli, cfg: cfg, presignExpiry: expiry}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	for _, bucket := range []string{cfg.PublicBucket, cfg.PrivateBucket} {
		exists, err := cli.BucketExists(ctx, bucket)
		if err != nil {
			return nil, fmt.Errorf("check bucket %s existence: %w", bucket, err)
		}
		if !exists {
			if err := cli.MakeBucket(ctx, bucket, minio.MakeBucketOptions{Region: cfg.Region}); err != nil {
				return nil, fmt.Errorf("create bucket %s: %w", bucket, err)
			}
		}
	}

	return ms, nil
}

func (m *minioStore) bucket(private bool) string {
	if private {
		return m.cfg.PrivateBucket
	}
	return m.cfg.PublicBucket
}

// Upload stores the object under assets/<uuid><ext> using streaming I/O only.
func (m *minioStore) Upload(ctx context.Context, r io.Reader, size int64, contentType, filename string, private bool) (UploadResult, error) {
	key := path.Join("assets", uuid.New().String()+filepath.Ext(filename))
	bucket := m.bucket(private)

	_, err := m.client.PutObject(ctx, bucket, key, r, size, minio.PutObjectOptions{
		ContentType:  contentType,
		UserMetadata: map[string]string{"original-filename": filename},
	})
	if err != nil {
		return UploadResult{}, err
	}

	objURL, err := m.objectURL(ctx, bucket, key, private)
	if err != nil {
		return UploadResult{}, err
	}

	return UploadResult{
		URL:    objURL,
		Key:    key,
		Bucket: bucket,
		Region: m.cfg.Region,
	}, nil
}

// Delete removes an object by key from the bucket the private flag selects.
func (m *minioStore) Delete(ctx context.Context, key string, private bool) error {
	return m.client.RemoveObject(ctx, m.bucket(private), key, minio.RemoveObjectOptions{})
}

// objectURL resolves the externally usable URL: a direct endpoint URL for
// public objects, a presigned GET for private ones.
func (m *minioStore) objectURL(ctx context.Context, bucket, key string, private bool) (string, error) {
	if private {
		u, err := m.client.PresignedGetObject(ctx, bucket, key, m.presignExpiry, url.Values{})
		if err != nil {
			return "", err
		}
		return u.String(), nil
	}

	scheme := "http"
	if m.cfg.UseSSL {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s/%s/%s", scheme, m.cfg.Endpoint, bucket, key), nil
}
