package storage

import (
	"context"
	"errors"

	"github.com/princekumarofficial/expressions-service/internal/types/users"
	"github.com/princekumarofficial/expressions-service/internal/types/videos"
)

var (
	// ErrNotFound is returned when a record does not exist. Malformed ids are
	// reported as not found.
	ErrNotFound = errors.New("record not found")

	// ErrDuplicate is returned when a unique field is already taken.
	ErrDuplicate = errors.New("record already exists")
)

// VideoStore persists video metadata records. List methods return records in
// the store's natural order.
type VideoStore interface {
	CreateVideo(ctx context.Context, video videos.VideoAsset) (videos.VideoAsset, error)
	GetVideoByID(ctx context.Context, id string) (videos.VideoAsset, error)
	ListVideos(ctx context.Context) ([]videos.VideoAsset, error)
	ListVideosByCategory(ctx context.Context, category string) ([]videos.VideoAsset, error)
	ListVideosByUploader(ctx context.Context, userID string) ([]videos.VideoAsset, error)
	DeleteVideo(ctx context.Context, id string) error
}

type UserStore interface {
	CreateUser(ctx context.Context, username, email, passwordHash string) (string, error)
	GetUserByEmail(ctx context.Context, email string) (string, string, error)
	GetUserByID(ctx context.Context, id string) (users.User, error)
}

type Storage interface {
	VideoStore
	UserStore
	Close(ctx context.Context) error
}
