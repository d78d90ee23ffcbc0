package media

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategoryFolder(t *testing.T) {
	assert.Equal(t, "videos/uploads/happy", CategoryFolder("videos/uploads", "happy"))
	assert.Equal(t, "videos/uploads/sad", CategoryFolder("/videos/uploads/", "sad"))
	assert.Equal(t, "cry", CategoryFolder("", "cry"))
}

func TestGenerateObjectKey(t *testing.T) {
	key := GenerateObjectKey("videos/uploads/happy", "video/mp4")
	assert.True(t, strings.HasPrefix(key, "videos/uploads/happy/"), key)
	assert.True(t, strings.HasSuffix(key, ".mp4"), key)

	other := GenerateObjectKey("videos/uploads/happy", "video/mp4")
	assert.NotEqual(t, key, other)

	assert.Equal(t, "", extensionFor("application/x-unknown-thing"))
}

func TestMemoryStore_Lifecycle(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	obj, err := store.Upload(ctx, "videos/uploads/laugh", strings.NewReader("clip-bytes"), 10, "video/mp4")
	require.NoError(t, err)
	assert.NotEmpty(t, obj.Reference)
	assert.Equal(t, "memory://"+obj.Reference, obj.URL)
	assert.Equal(t, int64(10), obj.Size)

	exists, err := store.Exists(ctx, obj.Reference)
	require.NoError(t, err)
	assert.True(t, exists)

	data, err := store.Read(obj.Reference)
	require.NoError(t, err)
	assert.Equal(t, "clip-bytes", string(data))

	require.NoError(t, store.Delete(ctx, obj.Reference))
	exists, err = store.Exists(ctx, obj.Reference)
	require.NoError(t, err)
	assert.False(t, exists)

	// deleting a missing object is not an error
	require.NoError(t, store.Delete(ctx, obj.Reference))

	_, err = store.Read(obj.Reference)
	assert.ErrorIs(t, err, ErrObjectNotFound)
}

func TestMemoryStore_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewMemoryStore().Upload(ctx, "x", strings.NewReader("a"), 1, "video/mp4")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestStorageErrorUnwrap(t *testing.T) {
	cause := errors.New("connection reset")
	err := &StorageError{Backend: "minio", Reference: "k", Op: "stat", Err: cause}

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "minio stat k")
}
