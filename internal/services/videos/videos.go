package videos

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/princekumarofficial/expressions-service/internal/category"
	"github.com/princekumarofficial/expressions-service/internal/services/media"
	"github.com/princekumarofficial/expressions-service/internal/storage"
	videotypes "github.com/princekumarofficial/expressions-service/internal/types/videos"
	"golang.org/x/sync/errgroup"
)

const (
	defaultFolderPrefix         = "videos/uploads"
	defaultReconcileConcurrency = 8
	defaultContentType          = "application/octet-stream"
)

// Publisher is notified after an upload or delete has fully completed.
type Publisher interface {
	PublishVideoUploaded(video videotypes.VideoAsset) error
	PublishVideoDeleted(video videotypes.VideoAsset) error
}

// Service sequences calls to the metadata store and the blob store. It holds
// no per-request state and is safe for concurrent use.
type Service struct {
	store        storage.VideoStore
	blobs        media.Store
	publisher    Publisher
	logger       *slog.Logger
	folderPrefix string
	concurrency  int
}

type Option func(*Service)

func WithFolderPrefix(prefix string) Option {
	return func(s *Service) {
		if prefix != "" {
			s.folderPrefix = prefix
		}
	}
}

// WithReconcileConcurrency bounds parallel existence checks while listing.
func WithReconcileConcurrency(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.concurrency = n
		}
	}
}

func WithPublisher(p Publisher) Option {
	return func(s *Service) {
		s.publisher = p
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func NewService(store storage.VideoStore, blobs media.Store, opts ...Option) *Service {
	s := &Service{
		store:        store,
		blobs:        blobs,
		logger:       slog.Default(),
		folderPrefix: defaultFolderPrefix,
		concurrency:  defaultReconcileConcurrency,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// UploadInput carries an already parsed upload. File is read exactly once.
type UploadInput struct {
	File        io.Reader
	Size        int64
	ContentType string
	Title       string
	Description string
	Category    string
	UploadedBy  string
}

// Upload writes the bytes to the blob store and then persists the record.
// A metadata failure leaves the uploaded blob in place.
func (s *Service) Upload(ctx context.Context, in UploadInput) (videotypes.VideoAsset, error) {
	const op = "upload"

	if in.File == nil || in.Size <= 0 {
		return videotypes.VideoAsset{}, newError(op, ErrInvalidInput, ErrNoFile)
	}
	if in.Category == "" {
		return videotypes.VideoAsset{}, newError(op, ErrInvalidInput, ErrCategoryRequired)
	}
	if !category.IsValid(in.Category) {
		return videotypes.VideoAsset{}, newError(op, ErrInvalidInput, ErrInvalidCategory)
	}

	contentType := in.ContentType
	if contentType == "" {
		contentType = defaultContentType
	}

	folder := media.CategoryFolder(s.folderPrefix, in.Category)
	obj, err := s.blobs.Upload(ctx, folder, in.File, in.Size, contentType)
	if err != nil {
		return videotypes.VideoAsset{}, newError(op, ErrUploadFailed, err)
	}
	if obj.Reference == "" || obj.URL == "" {
		return videotypes.VideoAsset{}, newError(op, ErrUploadFailed, errEmptyReference)
	}

	video, err := s.store.CreateVideo(ctx, videotypes.VideoAsset{
		Title:            in.Title,
		Description:      in.Description,
		Category:         in.Category,
		StorageReference: obj.Reference,
		StorageURL:       obj.URL,
		UploadedBy:       in.UploadedBy,
	})
	if err != nil {
		s.logger.Error("Video record not written, blob left orphaned",
			slog.String("storage_reference", obj.Reference),
			slog.String("category", in.Category),
			slog.String("error", err.Error()))
		return videotypes.VideoAsset{}, newError(op, ErrMetadataWriteFailed, err)
	}

	s.logger.Info("Video uploaded",
		slog.String("video_id", video.ID),
		slog.String("category", video.Category),
		slog.String("storage_reference", video.StorageReference))

	s.publish(func(p Publisher) error { return p.PublishVideoUploaded(video) })

	return video, nil
}

// ListAvailable returns every record whose blob is confirmed to exist, in
// store order. Records whose blob is missing or cannot be checked are left
// out; those per-record failures never fail the listing.
func (s *Service) ListAvailable(ctx context.Context) ([]videotypes.VideoAsset, error) {
	const op = "list"

	records, err := s.store.ListVideos(ctx)
	if err != nil {
		return nil, newError(op, ErrRemoteUnavailable, err)
	}

	keep := make([]bool, len(records))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for i, video := range records {
		g.Go(func() error {
			exists, err := s.blobs.Exists(gctx, video.StorageReference)
			if err != nil {
				s.logger.Warn("Error checking video",
					slog.String("video_id", video.ID),
					slog.String("storage_reference", video.StorageReference),
					slog.String("kind", ErrRemoteUnavailable.Error()),
					slog.String("error", err.Error()))
				return nil
			}
			if !exists {
				s.logger.Debug("Skipping video with missing blob",
					slog.String("video_id", video.ID),
					slog.String("storage_reference", video.StorageReference))
			}
			keep[i] = exists
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, newError(op, ErrRemoteUnavailable, err)
	}

	available := make([]videotypes.VideoAsset, 0, len(records))
	for i, video := range records {
		if keep[i] {
			available = append(available, video)
		}
	}
	return available, nil
}

// ListByCategory returns records with the given category straight from the
// metadata store. Blob existence is not checked here.
func (s *Service) ListByCategory(ctx context.Context, value string) ([]videotypes.VideoAsset, error) {
	const op = "list by category"

	if !category.IsValid(value) {
		return nil, newError(op, ErrInvalidInput, ErrInvalidCategory)
	}

	records, err := s.store.ListVideosByCategory(ctx, value)
	if err != nil {
		return nil, newError(op, ErrRemoteUnavailable, err)
	}
	if len(records) == 0 {
		return nil, newError(op, ErrNotFound, fmt.Errorf("no videos found for %s", value))
	}
	return records, nil
}

// ListByUploader returns records uploaded by userID, without blob checks.
func (s *Service) ListByUploader(ctx context.Context, userID string) ([]videotypes.VideoAsset, error) {
	const op = "list by uploader"

	if userID == "" {
		return nil, newError(op, ErrInvalidInput, errUserRequired)
	}

	records, err := s.store.ListVideosByUploader(ctx, userID)
	if err != nil {
		return nil, newError(op, ErrRemoteUnavailable, err)
	}
	if len(records) == 0 {
		return nil, newError(op, ErrNotFound, errors.New("no videos found for this user"))
	}
	return records, nil
}

// Delete removes the blob first and the record second. When the blob delete
// fails the record is kept. When the record delete fails the blob is already
// gone and the record stays behind.
func (s *Service) Delete(ctx context.Context, id string) error {
	const op = "delete"

	if id == "" {
		return newError(op, ErrInvalidInput, errIDRequired)
	}

	video, err := s.store.GetVideoByID(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return newError(op, ErrNotFound, errVideoNotFound)
	}
	if err != nil {
		return newError(op, ErrRemoteUnavailable, err)
	}

	if err := s.blobs.Delete(ctx, video.StorageReference); err != nil {
		return newError(op, ErrDeleteFailed, err)
	}

	if err := s.store.DeleteVideo(ctx, id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return newError(op, ErrNotFound, errVideoNotFound)
		}
		s.logger.Error("Blob deleted but video record remains",
			slog.String("video_id", id),
			slog.String("storage_reference", video.StorageReference),
			slog.String("error", err.Error()))
		return newError(op, ErrDeleteFailed, err)
	}

	s.logger.Info("Video deleted",
		slog.String("video_id", id),
		slog.String("category", video.Category))

	s.publish(func(p Publisher) error { return p.PublishVideoDeleted(video) })

	return nil
}

func (s *Service) publish(fn func(Publisher) error) {
	if s.publisher == nil {
		return
	}
	if err := fn(s.publisher); err != nil {
		s.logger.Warn("Failed to publish catalog event", slog.String("error", err.Error()))
	}
}
