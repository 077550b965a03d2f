package repository

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/mkurosawa/task-manager-api/internal/models"
	"gorm.io/gorm"
)

// GormBlobRepository stores attachment payloads in a file_blobs table.
type GormBlobRepository struct {
	db *gorm.DB
}

// NewBlobRepository creates a new BlobRepository
func NewBlobRepository(db *gorm.DB) BlobRepository {
	return &GormBlobRepository{db: db}
}

func (r *GormBlobRepository) Upload(ctx context.Context, reader io.Reader, fileName, contentType string) (string, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return "", fmt.Errorf("failed to read upload stream: %w", err)
	}

	blob := models.FileBlob{
		FileName:    fileName,
		ContentType: contentType,
		Data:        data,
	}
	if err := r.db.WithContext(ctx).Create(&blob).Error; err != nil {
		return "", err
	}
	return blob.ID, nil
}

func (r *GormBlobRepository) Download(ctx context.Context, id string) (io.ReadCloser, string, string, error) {
	var blob models.FileBlob
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&blob).Error; err != nil {
		return nil, "", "", err
	}

	contentType := blob.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	return io.NopCloser(bytes.NewReader(blob.Data)), blob.FileName, contentType, nil
}

func (r *GormBlobRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.FileBlob{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
