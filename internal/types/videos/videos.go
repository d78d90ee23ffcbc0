package videos

import "time"

// VideoAsset is the metadata record for one uploaded clip. StorageReference
// and StorageURL are issued by the blob store and are always set on a
// persisted record.
type VideoAsset struct {
	ID               string    `json:"id" bson:"-" db:"id"`
	Title            string    `json:"title,omitempty" bson:"title" db:"title"`
	Description      string    `json:"description,omitempty" bson:"description" db:"description"`
	Category         string    `json:"category" bson:"category" db:"category"`
	StorageReference string    `json:"storage_reference" bson:"storage_reference" db:"storage_reference"`
	StorageURL       string    `json:"storage_url" bson:"storage_url" db:"storage_url"`
	UploadedBy       string    `json:"uploaded_by,omitempty" bson:"uploaded_by,omitempty" db:"uploaded_by"`
	CreatedAt        time.Time `json:"created_at" bson:"created_at" db:"created_at"`
}

// UploadRequest holds the text fields of a multipart upload.
type UploadRequest struct {
	Title       string `json:"title" validate:"max=200"`
	Description string `json:"description" validate:"max=5000"`
	Category    string `json:"category" validate:"required,category"`
}

// UploadResponse is returned with 201 after a successful upload.
type UploadResponse struct {
	Video VideoAsset `json:"video"`
}

// ListResponse wraps listings so an empty result still serializes as [].
type ListResponse struct {
	Videos []VideoAsset `json:"videos"`
	Count  int          `json:"count"`
}

func NewListResponse(records []VideoAsset) ListResponse {
	if records == nil {
		records = []VideoAsset{}
	}
	return ListResponse{Videos: records, Count: len(records)}
}
