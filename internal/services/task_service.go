package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mkurosawa/task-manager-api/internal/cache"
	"github.com/mkurosawa/task-manager-api/internal/dto"
	apperrors "github.com/mkurosawa/task-manager-api/internal/errors"
	"github.com/mkurosawa/task-manager-api/internal/models"
	"github.com/mkurosawa/task-manager-api/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// TaskService handles task commands and queries: create, read, list,
// update and delete, including the blob cleanup that task deletion
// implies.
type TaskService struct {
	tasks  repository.TaskRepository
	users  repository.UserRepository
	blobs  repository.BlobRepository
	cache  *cache.TaskCache
	logger *zap.Logger
}

func NewTaskService(
	tasks repository.TaskRepository,
	users repository.UserRepository,
	blobs repository.BlobRepository,
	taskCache *cache.TaskCache,
	logger *zap.Logger,
) *TaskService {
	return &TaskService{
		tasks:  tasks,
		users:  users,
		blobs:  blobs,
		cache:  taskCache,
		logger: logger,
	}
}

type CreateTaskInput struct {
	Title           string
	Description     string
	Status          string
	Priority        string
	DueDate         *time.Time
	Tags            []string
	AssignedUserIDs []string
}

// Create persists a new task owned by the principal. The creator is
// appended to the assigned users exactly once; other duplicates in the
// request are kept as provided.
func (s *TaskService) Create(ctx context.Context, p Principal, input CreateTaskInput) (*dto.TaskWithUsersResponse, error) {
	if !p.Authenticated() {
		return nil, apperrors.Unauthenticated("User not authenticated")
	}

	assigned := make([]string, 0, len(input.AssignedUserIDs)+1)
	assigned = append(assigned, input.AssignedUserIDs...)
	creatorAssigned := false
	for _, id := range assigned {
		if id == p.UserID {
			creatorAssigned = true
			break
		}
	}
	if !creatorAssigned {
		assigned = append(assigned, p.UserID)
	}

	status := input.Status
	if status == "" {
		status = "todo"
	}
	priority := input.Priority
	if priority == "" {
		priority = "medium"
	}
	tags := input.Tags
	if tags == nil {
		tags = []string{}
	}

	task := &models.Task{
		Title:           input.Title,
		Description:     input.Description,
		Status:          status,
		Priority:        priority,
		DueDate:         input.DueDate,
		Tags:            tags,
		UserID:          p.UserID,
		AssignedUserIDs: assigned,
		Attachments:     []models.Attachment{},
	}
	if err := s.tasks.Create(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	s.logger.Info("task created",
		zap.String("task_id", task.ID),
		zap.String("user_id", p.UserID),
		zap.String("status", task.Status),
		zap.String("priority", task.Priority))

	return s.buildTaskWithUsers(ctx, task)
}

// GetByID returns a single task. Only the owner and admins may read a
// task directly.
func (s *TaskService) GetByID(ctx context.Context, p Principal, taskID string) (*dto.TaskResponse, error) {
	if !p.Authenticated() {
		return nil, apperrors.Unauthenticated("User not authenticated")
	}

	task, err := s.findTask(ctx, taskID)
	if err != nil {
		return nil, err
	}

	if !CanReadTask(p, task) {
		s.logger.Warn("task read denied",
			zap.String("task_id", taskID),
			zap.String("user_id", p.UserID))
		return nil, apperrors.AccessDenied("Access denied")
	}

	return s.buildTaskResponse(task), nil
}

type ListTasksQuery struct {
	Status   string
	Priority string
	Tag      string
	Search   string
}

// List returns the tasks visible to the principal: every task for
// admins, owned-or-assigned tasks for everyone else. Optional filters
// compose conjunctively.
func (s *TaskService) List(ctx context.Context, p Principal, query ListTasksQuery) ([]dto.TaskWithUsersResponse, error) {
	if !p.Authenticated() {
		return nil, apperrors.Unauthenticated("User not authenticated")
	}

	filter := repository.TaskFilter{
		Status:   query.Status,
		Priority: query.Priority,
		Tag:      query.Tag,
		Search:   query.Search,
	}
	if !p.IsAdmin() {
		filter.UserID = p.UserID
	}

	tasks, err := s.tasks.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	result := make([]dto.TaskWithUsersResponse, 0, len(tasks))
	for i := range tasks {
		resp, err := s.buildTaskWithUsers(ctx, &tasks[i])
		if err != nil {
			return nil, err
		}
		result = append(result, *resp)
	}
	return result, nil
}

type UpdateTaskInput struct {
	Title           *string
	Description     *string
	Status          *string
	Priority        *string
	DueDate         *time.Time
	Tags            []string
	AssignedUserIDs []string
}

// Update applies a partial update. Owners and admins may change any
// provided field; assignees may change only the status, and any other
// fields they supply are silently ignored. Empty strings for title,
// status and priority count as "not provided"; an empty description is
// a valid value.
func (s *TaskService) Update(ctx context.Context, p Principal, taskID string, input UpdateTaskInput) (*dto.TaskWithUsersResponse, error) {
	if !p.Authenticated() {
		return nil, apperrors.Unauthenticated("User not authenticated")
	}

	task, err := s.findTask(ctx, taskID)
	if err != nil {
		return nil, err
	}

	if !CanManageTask(p, task) && !task.IsAssigned(p.UserID) {
		s.logger.Warn("task update denied",
			zap.String("task_id", taskID),
			zap.String("user_id", p.UserID))
		return nil, apperrors.AccessDenied("Access denied")
	}

	if CanManageTask(p, task) {
		if input.Title != nil && *input.Title != "" {
			task.Title = *input.Title
		}
		if input.Description != nil {
			task.Description = *input.Description
		}
		if input.Status != nil && *input.Status != "" {
			task.Status = *input.Status
		}
		if input.Priority != nil && *input.Priority != "" {
			task.Priority = *input.Priority
		}
		if input.DueDate != nil {
			task.DueDate = input.DueDate
		}
		if input.Tags != nil {
			task.Tags = input.Tags
		}
		if input.AssignedUserIDs != nil {
			task.AssignedUserIDs = input.AssignedUserIDs
		}
	} else if CanUpdateStatusOnly(p, task) && input.Status != nil && *input.Status != "" {
		task.Status = *input.Status
		s.logger.Info("task status updated by assignee",
			zap.String("task_id", taskID),
			zap.String("user_id", p.UserID),
			zap.String("status", task.Status))
	}

	if err := s.tasks.Update(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}
	s.cache.Invalidate(ctx, taskID)

	s.logger.Info("task updated",
		zap.String("task_id", taskID),
		zap.String("user_id", p.UserID))

	return s.buildTaskWithUsers(ctx, task)
}

// Delete removes a task after best-effort deletion of its attachment
// blobs. Blob failures are collected and logged but never abort the
// task delete. The returned bool reports whether the store actually
// removed a row.
func (s *TaskService) Delete(ctx context.Context, p Principal, taskID string) (bool, error) {
	if !p.Authenticated() {
		return false, apperrors.Unauthenticated("User not authenticated")
	}

	task, err := s.findTask(ctx, taskID)
	if err != nil {
		return false, err
	}

	if !CanManageTask(p, task) {
		s.logger.Warn("task delete denied",
			zap.String("task_id", taskID),
			zap.String("user_id", p.UserID))
		return false, apperrors.AccessDenied("Access denied")
	}

	var failed []string
	for _, attachment := range task.Attachments {
		if err := s.blobs.Delete(ctx, attachment.BlobID); err != nil {
			failed = append(failed, attachment.ID)
			s.logger.Warn("failed to delete attachment blob",
				zap.String("task_id", taskID),
				zap.String("attachment_id", attachment.ID),
				zap.String("blob_id", attachment.BlobID),
				zap.Error(err))
		}
	}
	if len(failed) > 0 {
		s.logger.Warn("task deleted with orphaned blobs",
			zap.String("task_id", taskID),
			zap.Strings("attachment_ids", failed))
	}

	deleted, err := s.tasks.Delete(ctx, taskID)
	if err != nil {
		return false, fmt.Errorf("failed to delete task: %w", err)
	}
	s.cache.Invalidate(ctx, taskID)

	if deleted {
		s.logger.Info("task deleted",
			zap.String("task_id", taskID),
			zap.String("user_id", p.UserID))
	}
	return deleted, nil
}

// findTask loads a task, consulting the cache first.
func (s *TaskService) findTask(ctx context.Context, taskID string) (*models.Task, error) {
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

// buildTaskWithUsers resolves assigned user ids to display names.
// Ids with no matching user are skipped, not an error.
func (s *TaskService) buildTaskWithUsers(ctx context.Context, task *models.Task) (*dto.TaskWithUsersResponse, error) {
	assigned := make([]dto.UserRef, 0, len(task.AssignedUserIDs))
	for _, userID := range task.AssignedUserIDs {
		user, err := s.users.FindByID(ctx, userID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				continue
			}
			return nil, fmt.Errorf("failed to resolve assigned user: %w", err)
		}
		assigned = append(assigned, dto.UserRef{ID: user.ID, Name: user.Name})
	}

	return &dto.TaskWithUsersResponse{
		ID:            task.ID,
		Title:         task.Title,
		Description:   task.Description,
		Status:        task.Status,
		Priority:      task.Priority,
		DueDate:       task.DueDate,
		Tags:          task.Tags,
		UserID:        task.UserID,
		AssignedUsers: assigned,
		Attachments:   attachmentResponses(task),
		CreatedAt:     task.CreatedAt,
	}, nil
}

func (s *TaskService) buildTaskResponse(task *models.Task) *dto.TaskResponse {
	assignedIDs := task.AssignedUserIDs
	if assignedIDs == nil {
		assignedIDs = []string{}
	}
	return &dto.TaskResponse{
		ID:              task.ID,
		Title:           task.Title,
		Description:     task.Description,
		Status:          task.Status,
		Priority:        task.Priority,
		DueDate:         task.DueDate,
		Tags:            task.Tags,
		UserID:          task.UserID,
		AssignedUserIDs: assignedIDs,
		Attachments:     attachmentResponses(task),
		CreatedAt:       task.CreatedAt,
	}
}

func attachmentResponses(task *models.Task) []dto.AttachmentResponse {
	attachments := make([]dto.AttachmentResponse, 0, len(task.Attachments))
	for _, a := range task.Attachments {
		attachments = append(attachments, dto.AttachmentResponse{
			ID:          a.ID,
			FileName:    a.FileName,
			FileSize:    a.FileSize,
			ContentType: a.ContentType,
			BlobID:      a.BlobID,
			UploadedAt:  a.UploadedAt,
		})
	}
	return attachments
}
