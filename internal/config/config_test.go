package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	path := writeConfig(t, "env: test\n")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "test", cfg.Env)
	assert.Equal(t, "postgres", cfg.Metadata.Driver)
	assert.Equal(t, "minio", cfg.Blob.Driver)
	assert.Equal(t, "videos/uploads", cfg.Blob.FolderPrefix)
	assert.Equal(t, "localhost:8080", cfg.HTTPServer.Address)
	assert.Equal(t, 5*time.Second, cfg.HTTPServer.ShutdownTimeout)
	assert.Equal(t, int64(104857600), cfg.Upload.MaxFileSize)
	assert.Equal(t, 8, cfg.Upload.ReconcileConcurrency)
	assert.False(t, cfg.Redis.Enabled)
}

func TestLoad_YAMLValues(t *testing.T) {
	path := writeConfig(t, `
metadata:
  driver: memory
blob:
  driver: memory
  folder_prefix: clips
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "memory", cfg.Metadata.Driver)
	assert.Equal(t, "memory", cfg.Blob.Driver)
	assert.Equal(t, "clips", cfg.Blob.FolderPrefix)
}

func TestLoad_Rejects(t *testing.T) {
	tests := map[string]string{
		"unknown metadata driver": "metadata:\n  driver: sqlite\n",
		"unknown blob driver":     "blob:\n  driver: cloudinary\n",
		"s3 without bucket":       "blob:\n  driver: s3\n",
	}

	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeConfig(t, body))
			assert.Error(t, err)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
