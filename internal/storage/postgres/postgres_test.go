//go:build integration

package postgres

import (
	"context"
	"os"
	"testing"

	"github.com/princekumarofficial/expressions-service/internal/config"
	"github.com/princekumarofficial/expressions-service/internal/storage"
	"github.com/princekumarofficial/expressions-service/internal/types/videos"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func getenv(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func newTestPostgres(t *testing.T) *Postgres {
	t.Helper()
	ctx := context.Background()

	pg, err := NewPostgres(ctx, config.PQSQL{
		Host:     getenv("PGSQL_HOST", "localhost"),
		Port:     getenv("PGSQL_PORT", "5432"),
		User:     getenv("PGSQL_USER", "postgres"),
		Password: getenv("PGSQL_PASSWORD", "password"),
		DBName:   getenv("PGSQL_DBNAME", "expressions_test"),
		SSLMode:  "disable",
	})
	if err != nil {
		t.Skipf("postgres not available: %v", err)
	}
	t.Cleanup(func() { pg.Close(ctx) })

	_, err = pg.Db.ExecContext(ctx, `TRUNCATE videos, users RESTART IDENTITY`)
	require.NoError(t, err)
	return pg
}

func TestPostgres_Videos(t *testing.T) {
	ctx := context.Background()
	pg := newTestPostgres(t)

	userID, err := pg.CreateUser(ctx, "ana", "ana@example.com", "hash")
	require.NoError(t, err)

	a, err := pg.CreateVideo(ctx, videos.VideoAsset{Category: "happy", StorageReference: "a", StorageURL: "u/a", UploadedBy: userID})
	require.NoError(t, err)
	b, err := pg.CreateVideo(ctx, videos.VideoAsset{Category: "sad", StorageReference: "b", StorageURL: "u/b"})
	require.NoError(t, err)

	all, err := pg.ListVideos(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, a.ID, all[0].ID)
	assert.Equal(t, b.ID, all[1].ID)
	assert.Empty(t, all[1].UploadedBy)

	happy, err := pg.ListVideosByCategory(ctx, "happy")
	require.NoError(t, err)
	require.Len(t, happy, 1)
	assert.Equal(t, userID, happy[0].UploadedBy)

	mine, err := pg.ListVideosByUploader(ctx, userID)
	require.NoError(t, err)
	assert.Len(t, mine, 1)

	_, err = pg.CreateVideo(ctx, videos.VideoAsset{Category: "dance", StorageReference: "c", StorageURL: "u/c"})
	assert.Error(t, err, "category check constraint")

	require.NoError(t, pg.DeleteVideo(ctx, a.ID))
	assert.ErrorIs(t, pg.DeleteVideo(ctx, a.ID), storage.ErrNotFound)
	_, err = pg.GetVideoByID(ctx, "not-a-number")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestPostgres_Users(t *testing.T) {
	ctx := context.Background()
	pg := newTestPostgres(t)

	id, err := pg.CreateUser(ctx, "ana", "ana@example.com", "hash")
	require.NoError(t, err)

	_, err = pg.CreateUser(ctx, "ana", "other@example.com", "hash")
	assert.ErrorIs(t, err, storage.ErrDuplicate)

	gotID, hash, err := pg.GetUserByEmail(ctx, "ana@example.com")
	require.NoError(t, err)
	assert.Equal(t, id, gotID)
	assert.Equal(t, "hash", hash)

	user, err := pg.GetUserByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "ana", user.Username)

	_, err = pg.GetUserByID(ctx, "999999")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}
