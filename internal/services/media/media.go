package media

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"path"
	"strings"

	"github.com/google/uuid"
)

// ErrObjectNotFound is returned when a referenced object is not in the store.
var ErrObjectNotFound = errors.New("object not found")

// Object identifies bytes held by a blob store.
type Object struct {
	Reference string `json:"reference"`
	URL       string `json:"url"`
	Size      int64  `json:"size"`
}

// Store is a remote blob store holding video bytes. Implementations must be
// safe for concurrent use.
type Store interface {
	// Upload writes size bytes from r under folder and returns the issued
	// reference and locator.
	Upload(ctx context.Context, folder string, r io.Reader, size int64, contentType string) (Object, error)

	// Exists reports whether reference is present. A missing object is
	// (false, nil); any other failure is returned as an error.
	Exists(ctx context.Context, reference string) (bool, error)

	// Delete removes reference. Deleting a missing object is not an error.
	Delete(ctx context.Context, reference string) error
}

// StorageError wraps a failed call to a blob backend.
type StorageError struct {
	Backend   string
	Reference string
	Op        string
	Err       error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("%s %s %s: %v", e.Backend, e.Op, e.Reference, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// CategoryFolder returns the logical folder objects of a category live under.
func CategoryFolder(prefix, category string) string {
	return path.Join(strings.Trim(prefix, "/"), category)
}

// GenerateObjectKey creates a unique object key inside folder
func GenerateObjectKey(folder string, contentType string) string {
	return path.Join(folder, uuid.New().String()+extensionFor(contentType))
}

func extensionFor(contentType string) string {
	switch contentType {
	case "video/mp4":
		return ".mp4"
	case "video/mpeg":
		return ".mpeg"
	case "video/webm":
		return ".webm"
	case "video/quicktime":
		return ".mov"
	}

	extensions, err := mime.ExtensionsByType(contentType)
	if err == nil && len(extensions) > 0 {
		return extensions[0]
	}
	return ""
}
