//go:build integration

package media

import (
	"bytes"
	"context"
	"os"
	"testing"

	"github.com/princekumarofficial/expressions-service/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func getenv(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func testStoreContract(t *testing.T, store Store) {
	ctx := context.Background()
	payload := []byte("integration-video")

	obj, err := store.Upload(ctx, "it/happy", bytes.NewReader(payload), int64(len(payload)), "video/mp4")
	require.NoError(t, err)
	assert.NotEmpty(t, obj.Reference)
	assert.NotEmpty(t, obj.URL)

	exists, err := store.Exists(ctx, obj.Reference)
	require.NoError(t, err)
	assert.True(t, exists)

	require.NoError(t, store.Delete(ctx, obj.Reference))

	exists, err = store.Exists(ctx, obj.Reference)
	require.NoError(t, err)
	assert.False(t, exists)

	// deleting a missing object is not an error
	assert.NoError(t, store.Delete(ctx, obj.Reference))
}

func TestIntegration_MinIO(t *testing.T) {
	store, err := NewMinIOStore(context.Background(), config.MinIO{
		Endpoint:        getenv("MINIO_ENDPOINT", "localhost:9000"),
		AccessKeyID:     getenv("MINIO_ACCESS_KEY_ID", "minioadmin"),
		SecretAccessKey: getenv("MINIO_SECRET_ACCESS_KEY", "minioadmin"),
		BucketName:      getenv("MINIO_BUCKET_NAME", "expressions-test"),
	})
	if err != nil {
		t.Skipf("minio not available: %v", err)
	}
	testStoreContract(t, store)
}

func TestIntegration_S3(t *testing.T) {
	store, err := NewS3Store(context.Background(), config.S3{
		Region:          getenv("S3_REGION", "us-east-1"),
		Bucket:          getenv("S3_BUCKET", "expressions-test"),
		Endpoint:        getenv("S3_ENDPOINT", "http://localhost:9000"),
		AccessKeyID:     getenv("S3_ACCESS_KEY_ID", "minioadmin"),
		SecretAccessKey: getenv("S3_SECRET_ACCESS_KEY", "minioadmin"),
		UsePathStyle:    true,
	})
	if err != nil {
		t.Skipf("s3 not available: %v", err)
	}
	testStoreContract(t, store)
}
