package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/princekumarofficial/expressions-service/internal/storage"
	"github.com/princekumarofficial/expressions-service/internal/types/users"
	"github.com/princekumarofficial/expressions-service/internal/types/videos"
)

type userRecord struct {
	user         users.User
	passwordHash string
}

// Memory is an in-process Storage. Records keep insertion order.
type Memory struct {
	mu     sync.RWMutex
	videos []videos.VideoAsset
	users  []userRecord
}

func New() *Memory {
	return &Memory{}
}

func (m *Memory) Close(ctx context.Context) error {
	return nil
}

func (m *Memory) CreateVideo(ctx context.Context, video videos.VideoAsset) (videos.VideoAsset, error) {
	if err := ctx.Err(); err != nil {
		return videos.VideoAsset{}, err
	}

	video.ID = uuid.New().String()
	video.CreatedAt = time.Now().UTC()

	m.mu.Lock()
	m.videos = append(m.videos, video)
	m.mu.Unlock()

	return video, nil
}

func (m *Memory) GetVideoByID(ctx context.Context, id string) (videos.VideoAsset, error) {
	if err := ctx.Err(); err != nil {
		return videos.VideoAsset{}, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, v := range m.videos {
		if v.ID == id {
			return v, nil
		}
	}
	return videos.VideoAsset{}, storage.ErrNotFound
}

func (m *Memory) ListVideos(ctx context.Context) ([]videos.VideoAsset, error) {
	return m.filter(ctx, func(videos.VideoAsset) bool { return true })
}

func (m *Memory) ListVideosByCategory(ctx context.Context, category string) ([]videos.VideoAsset, error) {
	return m.filter(ctx, func(v videos.VideoAsset) bool { return v.Category == category })
}

func (m *Memory) ListVideosByUploader(ctx context.Context, userID string) ([]videos.VideoAsset, error) {
	return m.filter(ctx, func(v videos.VideoAsset) bool { return userID != "" && v.UploadedBy == userID })
}

func (m *Memory) filter(ctx context.Context, keep func(videos.VideoAsset) bool) ([]videos.VideoAsset, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	result := []videos.VideoAsset{}
	for _, v := range m.videos {
		if keep(v) {
			result = append(result, v)
		}
	}
	return result, nil
}

func (m *Memory) DeleteVideo(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for i, v := range m.videos {
		if v.ID == id {
			m.videos = append(m.videos[:i], m.videos[i+1:]...)
			return nil
		}
	}
	return storage.ErrNotFound
}

func (m *Memory) CreateUser(ctx context.Context, username, email, passwordHash string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for _, r := range m.users {
		if r.user.Username == username || r.user.Email == email {
			return "", storage.ErrDuplicate
		}
	}

	user := users.User{
		ID:       uuid.New().String(),
		Username: username,
		Email:    email,
		JoinedAt: time.Now().UTC(),
	}
	m.users = append(m.users, userRecord{user: user, passwordHash: passwordHash})
	return user.ID, nil
}

func (m *Memory) GetUserByEmail(ctx context.Context, email string) (string, string, error) {
	if err := ctx.Err(); err != nil {
		return "", "", err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, r := range m.users {
		if r.user.Email == email {
			return r.user.ID, r.passwordHash, nil
		}
	}
	return "", "", storage.ErrNotFound
}

func (m *Memory) GetUserByID(ctx context.Context, id string) (users.User, error) {
	if err := ctx.Err(); err != nil {
		return users.User{}, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, r := range m.users {
		if r.user.ID == id {
			return r.user, nil
		}
	}
	return users.User{}, storage.ErrNotFound
}
