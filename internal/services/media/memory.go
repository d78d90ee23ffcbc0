package media

import (
	"bytes"
	"context"
	"io"
	"sync"
)

// MemoryStore is an in-process Store used by tests and the memory driver.
type MemoryStore struct {
	mu      sync.RWMutex
	objects map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		objects: make(map[string][]byte),
	}
}

func (m *MemoryStore) Upload(ctx context.Context, folder string, r io.Reader, size int64, contentType string) (Object, error) {
	if err := ctx.Err(); err != nil {
		return Object{}, err
	}

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, r); err != nil {
		return Object{}, &StorageError{Backend: "memory", Reference: folder, Op: "put", Err: err}
	}

	key := GenerateObjectKey(folder, contentType)

	m.mu.Lock()
	m.objects[key] = buf.Bytes()
	m.mu.Unlock()

	return Object{
		Reference: key,
		URL:       "memory://" + key,
		Size:      int64(buf.Len()),
	}, nil
}

func (m *MemoryStore) Exists(ctx context.Context, reference string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	_, ok := m.objects[reference]
	return ok, nil
}

func (m *MemoryStore) Delete(ctx context.Context, reference string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.objects, reference)
	return nil
}

// Read returns a copy of the stored bytes.
func (m *MemoryStore) Read(reference string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	data, ok := m.objects[reference]
	if !ok {
		return nil, ErrObjectNotFound
	}
	return bytes.Clone(data), nil
}

// Len returns the number of stored objects.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return len(m.objects)
}
