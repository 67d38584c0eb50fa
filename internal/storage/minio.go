// Package storage wraps the MinIO client for the two buckets this service
// touches: .tex workbook templates (read) and generated PDF archives
// (write, presigned downloads).
package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/url"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/mathplanner/mathplanner/internal/config"
)

// Store exposes the blob operations the pipeline needs. The in-memory
// implementation backs tests and deployments without object storage.
type Store interface {
	TemplateText(ctx context.Context, key string) (string, error)
	ArchivePDF(ctx context.Context, key string, pdf []byte) error
	PresignedPDFURL(ctx context.Context, key string, expires time.Duration) (string, error)
}

// MinIOStore is the production Store.
type MinIOStore struct {
	client         *minio.Client
	templateBucket string
	archiveBucket  string
}

// NewMinIOStore connects and ensures both buckets exist.
func NewMinIOStore(cfg config.MinIOConfig) (*MinIOStore, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("minio endpoint missing")
	}
	mc, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("minio new: %w", err)
	}
	s := &MinIOStore{
		client:         mc,
		templateBucket: cfg.TemplateBucket,
		archiveBucket:  cfg.ArchiveBucket,
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	for _, bucket := range []string{s.templateBucket, s.archiveBucket} {
		if err := ensureBucket(ctx, mc, bucket); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func ensureBucket(ctx context.Context, mc *minio.Client, bucket string) error {
	if err := mc.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
		exist, xerr := mc.BucketExists(ctx, bucket)
		if xerr != nil || !exist {
			return fmt.Errorf("minio bucket ensure %s: %w", bucket, err)
		}
	}
	return nil
}

// TemplateText downloads a stored .tex template as text.
func (s *MinIOStore) TemplateText(ctx context.Context, key string) (string, error) {
	obj, err := s.client.GetObject(ctx, s.templateBucket, key, minio.GetObjectOptions{})
	if err != nil {
		return "", err
	}
	defer obj.Close()
	if _, err := obj.Stat(); err != nil {
		return "", fmt.Errorf("template %s: %w", key, err)
	}
	b, err := io.ReadAll(obj)
	if err != nil {
		return "", fmt.Errorf("read template %s: %w", key, err)
	}
	return string(b), nil
}

// ArchivePDF stores a generated document in the archive bucket.
func (s *MinIOStore) ArchivePDF(ctx context.Context, key string, pdf []byte) error {
	_, err := s.client.PutObject(ctx, s.archiveBucket, key,
		bytes.NewReader(pdf), int64(len(pdf)),
		minio.PutObjectOptions{ContentType: "application/pdf"})
	return err
}

// PresignedPDFURL returns a presigned GET URL for an archived document.
func (s *MinIOStore) PresignedPDFURL(ctx context.Context, key string, expires time.Duration) (string, error) {
	presigned, err := s.client.PresignedGetObject(ctx, s.archiveBucket, key, expires, url.Values{})
	if err != nil {
		return "", err
	}
	return presigned.String(), nil
}
