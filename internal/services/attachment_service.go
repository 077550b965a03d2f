package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/mkurosawa/task-manager-api/internal/cache"
	"github.com/mkurosawa/task-manager-api/internal/dto"
	apperrors "github.com/mkurosawa/task-manager-api/internal/errors"
	"github.com/mkurosawa/task-manager-api/internal/models"
	"github.com/mkurosawa/task-manager-api/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// MaxAttachmentSize caps uploads at 100MB.
const MaxAttachmentSize = 100 * 1024 * 1024

// AttachmentService manages the attachment lifecycle: uploading a blob
// and recording its metadata on the task, streaming it back, and
// removing both pieces.
type AttachmentService struct {
	tasks  repository.TaskRepository
	blobs  repository.BlobRepository
	cache  *cache.TaskCache
	logger *zap.Logger
}

func NewAttachmentService(
	tasks repository.TaskRepository,
	blobs repository.BlobRepository,
	taskCache *cache.TaskCache,
	logger *zap.Logger,
) *AttachmentService {
	return &AttachmentService{
		tasks:  tasks,
		blobs:  blobs,
		cache:  taskCache,
		logger: logger,
	}
}

type UploadAttachmentInput struct {
	FileName    string
	ContentType string
	FileSize    int64
	Content     io.Reader
}

// Upload stores the file content as a blob and appends an attachment
// record to the task. The size limit is enforced before any blob is
// written.
func (s *AttachmentService) Upload(ctx context.Context, p Principal, taskID string, input UploadAttachmentInput) (*dto.AttachmentResponse, error) {
	if !p.Authenticated() {
		return nil, apperrors.Unauthenticated("User not authenticated")
	}

	task, err := s.findTask(ctx, taskID)
	if err != nil {
		return nil, err
	}

	if input.FileSize > MaxAttachmentSize {
		return nil, apperrors.InvalidOperation("File size exceeds 100MB limit")
	}

	blobID, err := s.blobs.Upload(ctx, input.Content, input.FileName, input.ContentType)
	if err != nil {
		return nil, fmt.Errorf("failed to store file: %w", err)
	}

	attachment := models.Attachment{
		ID:          uuid.NewString(),
		FileName:    input.FileName,
		FileSize:    input.FileSize,
		ContentType: input.ContentType,
		BlobID:      blobID,
		UploadedAt:  time.Now().UTC(),
	}
	attachments := append(task.Attachments, attachment)

	updated, err := s.tasks.UpdateAttachments(ctx, taskID, attachments)
	if err != nil {
		return nil, fmt.Errorf("failed to attach file: %w", err)
	}
	if !updated {
		return nil, apperrors.NotFound("Task not found")
	}
	s.cache.Invalidate(ctx, taskID)

	s.logger.Info("attachment uploaded",
		zap.String("task_id", taskID),
		zap.String("attachment_id", attachment.ID),
		zap.String("file_name", attachment.FileName),
		zap.Int64("file_size", attachment.FileSize))

	return &dto.AttachmentResponse{
		ID:          attachment.ID,
		FileName:    attachment.FileName,
		FileSize:    attachment.FileSize,
		ContentType: attachment.ContentType,
		BlobID:      attachment.BlobID,
		UploadedAt:  attachment.UploadedAt,
	}, nil
}

// AttachmentContent is the downloadable payload of an attachment.
type AttachmentContent struct {
	FileName    string
	ContentType string
	FileSize    int64
	Content     io.ReadCloser
}

// Download streams an attachment's blob. The owner, an admin, or any
// assigned user may download.
func (s *AttachmentService) Download(ctx context.Context, p Principal, taskID, attachmentID string) (*AttachmentContent, error) {
	if !p.Authenticated() {
		return nil, apperrors.Unauthenticated("User not authenticated")
	}

	task, err := s.findTask(ctx, taskID)
	if err != nil {
		return nil, err
	}

	if !CanDownloadAttachment(p, task) {
		s.logger.Warn("attachment download denied",
			zap.String("task_id", taskID),
			zap.String("user_id", p.UserID))
		return nil, apperrors.AccessDenied("Access denied")
	}

	attachment := task.AttachmentByID(attachmentID)
	if attachment == nil {
		return nil, apperrors.NotFound("Attachment not found")
	}

	content, fileName, contentType, err := s.blobs.Download(ctx, attachment.BlobID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("File not found")
		}
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	if fileName == "" {
		fileName = attachment.FileName
	}
	if contentType == "" {
		contentType = attachment.ContentType
	}

	return &AttachmentContent{
		FileName:    fileName,
		ContentType: contentType,
		FileSize:    attachment.FileSize,
		Content:     content,
	}, nil
}

// Delete removes an attachment record and best-effort deletes its
// blob. Only the owner or an admin may delete attachments.
func (s *AttachmentService) Delete(ctx context.Context, p Principal, taskID, attachmentID string) error {
	if !p.Authenticated() {
		return apperrors.Unauthenticated("User not authenticated")
	}

	task, err := s.findTask(ctx, taskID)
	if err != nil {
		return err
	}

	if !CanMutateAttachments(p, task) {
		s.logger.Warn("attachment delete denied",
			zap.String("task_id", taskID),
			zap.String("user_id", p.UserID))
		return apperrors.AccessDenied("Access denied")
	}

	attachment := task.AttachmentByID(attachmentID)
	if attachment == nil {
		return apperrors.NotFound("Attachment not found")
	}

	if err := s.blobs.Delete(ctx, attachment.BlobID); err != nil {
		s.logger.Warn("failed to delete attachment blob",
			zap.String("task_id", taskID),
			zap.String("attachment_id", attachmentID),
			zap.String("blob_id", attachment.BlobID),
			zap.Error(err))
	}

	remaining := make([]models.Attachment, 0, len(task.Attachments))
	for _, a := range task.Attachments {
		if a.ID != attachmentID {
			remaining = append(remaining, a)
		}
	}

	updated, err := s.tasks.UpdateAttachments(ctx, taskID, remaining)
	if err != nil {
		return fmt.Errorf("failed to update attachments: %w", err)
	}
	if !updated {
		return apperrors.NotFound("Task not found")
	}
	s.cache.Invalidate(ctx, taskID)

	s.logger.Info("attachment deleted",
		zap.String("task_id", taskID),
		zap.String("attachment_id", attachmentID))
	return nil
}

func (s *AttachmentService) findTask(ctx context.Context, taskID string) (*models.Task, error) {
	var cached models.Task
	if s.cache.Get(ctx, taskID, &cached) {
		return &cached, nil
	}

	task, err := s.tasks.FindByID(ctx, taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("Task not found")
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}
	s.cache.Set(ctx, taskID, task)
	return task, nil
}
