package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// FileBlob holds an attachment payload. Rows are referenced by
// Attachment.BlobID and deleted best-effort when tasks or attachments go
// away, so a blob may outlive its reference.
type FileBlob struct {
	ID          string `gorm:"type:varchar(36);primarykey"`
	FileName    string `gorm:"type:varchar(512);not null"`
	ContentType string `gorm:"type:varchar(255)"`
	Data        []byte
	CreatedAt   time.Time
}

func (b *FileBlob) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	return nil
}
