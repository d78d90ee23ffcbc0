package videos

import (
	"errors"
	"log/slog"
	"net/http"
	"unicode"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"github.com/princekumarofficial/expressions-service/internal/category"
	"github.com/princekumarofficial/expressions-service/internal/config"
	"github.com/princekumarofficial/expressions-service/internal/http/middleware"
	videoService "github.com/princekumarofficial/expressions-service/internal/services/videos"
	"github.com/princekumarofficial/expressions-service/internal/types/videos"
	"github.com/princekumarofficial/expressions-service/internal/utils/response"
)

// multipartOverhead is allowed on top of the file size for headers and text
// fields.
const multipartOverhead = 1 << 20

var errFileTooLarge = errors.New("File too large")

type VideoHandlers struct {
	service     *videoService.Service
	validate    *validator.Validate
	maxFileSize int64
	maxMemory   int64
}

// NewVideoHandlers creates the handlers for the video catalog endpoints
func NewVideoHandlers(service *videoService.Service, cfg config.Upload) *VideoHandlers {
	return &VideoHandlers{
		service:     service,
		validate:    NewValidator(),
		maxFileSize: cfg.MaxFileSize,
		maxMemory:   cfg.MaxMemory,
	}
}

// NewValidator returns a validator that understands the category tag.
func NewValidator() *validator.Validate {
	validate := validator.New()
	validate.RegisterValidation("category", func(fl validator.FieldLevel) bool {
		return category.IsValid(fl.Field().String())
	})
	return validate
}

// Upload stores a video and its metadata
// @Summary Upload a video
// @Description Upload a video clip tagged with an expression type. A bearer token, when present, records the uploader.
// @Tags videos
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Video file"
// @Param category formData string true "Expression type" Enums(happy, sad, laugh, cry, questioning)
// @Param title formData string false "Title"
// @Param description formData string false "Description"
// @Success 201 {object} response.Response{data=videos.UploadResponse} "Video uploaded successfully"
// @Failure 400 {object} response.Response "Bad request"
// @Failure 413 {object} response.Response "File too large"
// @Failure 429 {object} response.Response "Rate limit exceeded"
// @Failure 500 {object} response.Response "Internal server error"
// @Router /upload [post]
func (h *VideoHandlers) Upload() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxFileSize+multipartOverhead)

		if err := r.ParseMultipartForm(h.maxMemory); err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				response.WriteJSON(w, http.StatusRequestEntityTooLarge, response.Failure(videoService.ErrInvalidInput, errFileTooLarge.Error()))
				return
			}
			response.WriteJSON(w, http.StatusBadRequest, response.Failure(videoService.ErrInvalidInput, sentence(videoService.ErrNoFile.Error())))
			return
		}
		// spilled parts live on disk until removed
		defer r.MultipartForm.RemoveAll()

		file, header, err := r.FormFile("file")
		if err != nil {
			response.WriteJSON(w, http.StatusBadRequest, response.Failure(videoService.ErrInvalidInput, sentence(videoService.ErrNoFile.Error())))
			return
		}
		defer file.Close()

		if header.Size > h.maxFileSize {
			response.WriteJSON(w, http.StatusRequestEntityTooLarge, response.Failure(videoService.ErrInvalidInput, errFileTooLarge.Error()))
			return
		}

		req := videos.UploadRequest{
			Title:       r.FormValue("title"),
			Description: r.FormValue("description"),
			Category:    r.FormValue("category"),
		}
		if err := h.validate.Struct(req); err != nil {
			writeValidationError(w, err)
			return
		}

		uploadedBy, _ := middleware.GetUserIDFromContext(r.Context())

		video, err := h.service.Upload(r.Context(), videoService.UploadInput{
			File:        file,
			Size:        header.Size,
			ContentType: header.Header.Get("Content-Type"),
			Title:       req.Title,
			Description: req.Description,
			Category:    req.Category,
			UploadedBy:  uploadedBy,
		})
		if err != nil {
			writeServiceError(w, err, "Failed to upload video")
			return
		}

		response.WriteJSON(w, http.StatusCreated, response.RequestOK("Video uploaded successfully", videos.UploadResponse{Video: video}))
	}
}

// ListAll returns every video whose bytes are still present in the blob store
// @Summary List available videos
// @Description Lists every video record whose blob still exists. Records whose blob is missing or cannot be checked are left out.
// @Tags videos
// @Produce json
// @Success 200 {object} response.Response{data=videos.ListResponse}
// @Failure 500 {object} response.Response "Internal server error"
// @Router / [get]
func (h *VideoHandlers) ListAll() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		records, err := h.service.ListAvailable(r.Context())
		if err != nil {
			writeServiceError(w, err, "Failed to fetch videos")
			return
		}

		message := "Videos fetched successfully"
		if len(records) == 0 {
			message = "No videos found"
		}

		response.WriteJSON(w, http.StatusOK, response.RequestOK(message, videos.NewListResponse(records)))
	}
}

// ListByCategory returns the videos tagged with one expression type
// @Summary List videos by expression type
// @Tags videos
// @Produce json
// @Param category path string true "Expression type" Enums(happy, sad, laugh, cry, questioning)
// @Success 200 {object} response.Response{data=videos.ListResponse}
// @Failure 400 {object} response.Response "Invalid expression type"
// @Failure 404 {object} response.Response "No videos found"
// @Failure 500 {object} response.Response "Internal server error"
// @Router /expressions/{category} [get]
func (h *VideoHandlers) ListByCategory() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		records, err := h.service.ListByCategory(r.Context(), r.PathValue("category"))
		if err != nil {
			writeServiceError(w, err, "Failed to fetch videos")
			return
		}

		response.WriteJSON(w, http.StatusOK, response.RequestOK("Videos fetched successfully", videos.NewListResponse(records)))
	}
}

// ListByUploader returns the videos uploaded by one user
// @Summary List videos by uploader
// @Tags users
// @Produce json
// @Param user_id path string true "User ID"
// @Success 200 {object} response.Response{data=videos.ListResponse}
// @Failure 404 {object} response.Response "No videos found for this user."
// @Failure 500 {object} response.Response "Internal server error"
// @Router /users/{user_id}/videos [get]
func (h *VideoHandlers) ListByUploader() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		records, err := h.service.ListByUploader(r.Context(), r.PathValue("user_id"))
		if errors.Is(err, videoService.ErrNotFound) {
			response.WriteJSON(w, http.StatusNotFound, response.Failure(videoService.ErrNotFound, "No videos found for this user."))
			return
		}
		if err != nil {
			writeServiceError(w, err, "Failed to fetch videos")
			return
		}

		response.WriteJSON(w, http.StatusOK, response.RequestOK("Videos fetched successfully", videos.NewListResponse(records)))
	}
}

// ListCategories returns the expression types accepted on upload
// @Summary List expression types
// @Tags videos
// @Produce json
// @Success 200 {object} response.Response{data=[]string}
// @Router /expressions [get]
func (h *VideoHandlers) ListCategories() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		response.WriteJSON(w, http.StatusOK, response.RequestOK("Expression types fetched successfully", category.All()))
	}
}

// Delete removes a video's bytes and then its record
// @Summary Delete a video
// @Tags videos
// @Produce json
// @Param id path string true "Video ID"
// @Success 200 {object} response.Response "Video deleted successfully"
// @Failure 404 {object} response.Response "Video not found"
// @Failure 429 {object} response.Response "Rate limit exceeded"
// @Failure 500 {object} response.Response "Internal server error"
// @Router /{id} [delete]
func (h *VideoHandlers) Delete() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := h.service.Delete(r.Context(), r.PathValue("id")); err != nil {
			writeServiceError(w, err, "Failed to delete video")
			return
		}

		response.WriteJSON(w, http.StatusOK, response.RequestOK("Video deleted successfully", nil))
	}
}

// statusFor maps a Coordinator error kind to an HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, videoService.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, videoService.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func writeServiceError(w http.ResponseWriter, err error, failure string) {
	status := statusFor(err)

	kind := videoService.ErrRemoteUnavailable
	cause := err.Error()
	var serr *videoService.Error
	if errors.As(err, &serr) {
		kind = serr.Kind
		cause = serr.Cause()
	}

	message := sentence(cause)
	if status == http.StatusInternalServerError {
		slog.Error(failure, slog.String("error", err.Error()))
		message = failure + ": " + cause
	}

	response.WriteJSON(w, status, response.Failure(kind, message))
}

func writeValidationError(w http.ResponseWriter, err error) {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err))
		return
	}

	for _, fe := range ve {
		if fe.Field() != "Category" {
			continue
		}
		if fe.Tag() == "required" {
			response.WriteJSON(w, http.StatusBadRequest, response.Failure(videoService.ErrInvalidInput, sentence(videoService.ErrCategoryRequired.Error())))
			return
		}
		response.WriteJSON(w, http.StatusBadRequest, response.Failure(videoService.ErrInvalidInput, sentence(videoService.ErrInvalidCategory.Error())))
		return
	}

	response.WriteJSON(w, http.StatusBadRequest, response.ValidationError(ve))
}

// sentence upper-cases the first letter of msg.
func sentence(msg string) string {
	r, size := utf8.DecodeRuneInString(msg)
	if r == utf8.RuneError {
		return msg
	}
	return string(unicode.ToUpper(r)) + msg[size:]
}
