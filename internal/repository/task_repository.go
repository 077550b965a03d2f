package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/mkurosawa/task-manager-api/internal/models"
	"gorm.io/gorm"
)

// GormTaskRepository is a GORM implementation of TaskRepository
type GormTaskRepository struct {
	db *gorm.DB
}

// NewTaskRepository creates a new TaskRepository
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &GormTaskRepository{db: db}
}

func (r *GormTaskRepository) Create(ctx context.Context, task *models.Task) error {
	return r.db.WithContext(ctx).Create(task).Error
}

func (r *GormTaskRepository) FindByID(ctx context.Context, id string) (*models.Task, error) {
	var task models.Task
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&task).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

// escapeLike neutralizes LIKE wildcards so filter input matches
// literally. '!' is the escape character in every query below; it is
// accepted unquoted by sqlite, postgres and mysql alike, unlike a
// backslash.
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, "!", "!!")
	s = strings.ReplaceAll(s, "%", "!%")
	s = strings.ReplaceAll(s, "_", "!_")
	return s
}

// jsonMember matches a string element in a JSON-serialized array column.
// Elements are stored quoted, so matching `"value"` as a substring is an
// exact membership test.
func jsonMember(value string) string {
	return fmt.Sprintf(`%%"%s"%%`, escapeLike(value))
}

func (r *GormTaskRepository) List(ctx context.Context, filter TaskFilter) ([]models.Task, error) {
	query := r.db.WithContext(ctx).Model(&models.Task{})

	if filter.UserID != "" {
		query = query.Where("(user_id = ? OR assigned_user_ids LIKE ? ESCAPE '!')",
			filter.UserID, jsonMember(filter.UserID))
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Priority != "" {
		query = query.Where("priority = ?", filter.Priority)
	}
	if filter.Tag != "" {
		query = query.Where("tags LIKE ? ESCAPE '!'", jsonMember(filter.Tag))
	}
	if filter.Search != "" {
		needle := "%" + escapeLike(strings.ToLower(filter.Search)) + "%"
		query = query.Where("(LOWER(title) LIKE ? ESCAPE '!' OR LOWER(description) LIKE ? ESCAPE '!')", needle, needle)
	}

	var tasks []models.Task
	if err := query.Order("created_at DESC").Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

func (r *GormTaskRepository) Update(ctx context.Context, task *models.Task) error {
	return r.db.WithContext(ctx).Save(task).Error
}

func (r *GormTaskRepository) Delete(ctx context.Context, id string) (bool, error) {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Task{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *GormTaskRepository) DeleteByOwner(ctx context.Context, userID string) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).Model(&models.Task{}).
		Where("user_id = ?", userID).
		Pluck("id", &ids).Error
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, nil
	}
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&models.Task{}).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *GormTaskRepository) UpdateAttachments(ctx context.Context, id string, attachments []models.Attachment) (bool, error) {
	if attachments == nil {
		attachments = []models.Attachment{}
	}
	res := r.db.WithContext(ctx).Model(&models.Task{}).
		Where("id = ?", id).
		Update("attachments", attachments)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
