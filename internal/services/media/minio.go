package media

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/princekumarofficial/expressions-service/internal/config"
)

type MinIOStore struct {
	client     *minio.Client
	bucketName string
	useSSL     bool
}

// NewMinIOStore creates a MinIO-backed store and makes sure its bucket exists
func NewMinIOStore(ctx context.Context, cfg config.MinIO) (*MinIOStore, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MinIO client: %w", err)
	}

	store := &MinIOStore{
		client:     client,
		bucketName: cfg.BucketName,
		useSSL:     cfg.UseSSL,
	}

	if err := store.ensureBucket(ctx); err != nil {
		return nil, fmt.Errorf("failed to ensure bucket exists: %w", err)
	}

	return store, nil
}

// ensureBucket creates the bucket if it doesn't exist
func (s *MinIOStore) ensureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucketName)
	if err != nil {
		return fmt.Errorf("failed to check if bucket exists: %w", err)
	}

	if !exists {
		err = s.client.MakeBucket(ctx, s.bucketName, minio.MakeBucketOptions{})
		if err != nil {
			return fmt.Errorf("failed to create bucket: %w", err)
		}
	}

	return nil
}

func (s *MinIOStore) Upload(ctx context.Context, folder string, r io.Reader, size int64, contentType string) (Object, error) {
	objectKey := GenerateObjectKey(folder, contentType)

	info, err := s.client.PutObject(ctx, s.bucketName, objectKey, r, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return Object{}, &StorageError{Backend: "minio", Reference: objectKey, Op: "put", Err: err}
	}

	return Object{
		Reference: objectKey,
		URL:       s.objectURL(objectKey),
		Size:      info.Size,
	}, nil
}

func (s *MinIOStore) Exists(ctx context.Context, reference string) (bool, error) {
	_, err := s.client.StatObject(ctx, s.bucketName, reference, minio.StatObjectOptions{})
	if err == nil {
		return true, nil
	}

	if isMinIONotFound(err) {
		return false, nil
	}
	return false, &StorageError{Backend: "minio", Reference: reference, Op: "stat", Err: err}
}

func (s *MinIOStore) Delete(ctx context.Context, reference string) error {
	err := s.client.RemoveObject(ctx, s.bucketName, reference, minio.RemoveObjectOptions{})
	if err != nil && !isMinIONotFound(err) {
		return &StorageError{Backend: "minio", Reference: reference, Op: "remove", Err: err}
	}
	return nil
}

// objectURL returns the public URL for the object (if bucket is public)
func (s *MinIOStore) objectURL(objectKey string) string {
	scheme := "http"
	if s.useSSL {
		scheme = "https"
	}

	endpoint := strings.TrimPrefix(s.client.EndpointURL().String(), scheme+"://")
	return fmt.Sprintf("%s://%s/%s/%s", scheme, endpoint, s.bucketName, objectKey)
}

func isMinIONotFound(err error) bool {
	resp := minio.ToErrorResponse(err)
	switch resp.Code {
	case "NoSuchKey", "NotFound":
		return true
	}
	return resp.StatusCode == http.StatusNotFound && resp.Code != "NoSuchBucket"
}
