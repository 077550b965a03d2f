package models

import "time"

// Attachment is embedded in its parent task and is not independently
// addressable. The payload itself lives in the blob store under BlobID.
type Attachment struct {
	ID          string    `json:"id"`
	FileName    string    `json:"file_name"`
	FileSize    int64     `json:"file_size"`
	ContentType string    `json:"content_type"`
	BlobID      string    `json:"blob_id"`
	UploadedAt  time.Time `json:"uploaded_at"`
}
