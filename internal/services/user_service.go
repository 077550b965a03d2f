package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/mkurosawa/task-manager-api/internal/cache"
	"github.com/mkurosawa/task-manager-api/internal/dto"
	apperrors "github.com/mkurosawa/task-manager-api/internal/errors"
	"github.com/mkurosawa/task-manager-api/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// UserService implements the admin-only user management operations.
type UserService struct {
	users  repository.UserRepository
	tasks  repository.TaskRepository
	cache  *cache.TaskCache
	logger *zap.Logger
}

func NewUserService(users repository.UserRepository, tasks repository.TaskRepository, taskCache *cache.TaskCache, logger *zap.Logger) *UserService {
	return &UserService{users: users, tasks: tasks, cache: taskCache, logger: logger}
}

func (s *UserService) requireAdmin(p Principal) error {
	if !p.Authenticated() {
		return apperrors.Unauthenticated("User not authenticated")
	}
	if !p.IsAdmin() {
		return apperrors.AccessDenied("Admin access required")
	}
	return nil
}

// ListAll returns every registered user.
func (s *UserService) ListAll(ctx context.Context, p Principal) ([]dto.UserResponse, error) {
	if err := s.requireAdmin(p); err != nil {
		return nil, err
	}

	users, err := s.users.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	result := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		result = append(result, toUserResponse(&users[i]))
	}
	return result, nil
}

// Update modifies a user's name, email or role. Empty fields are left
// unchanged. Changing an email to one already registered by another
// user is rejected.
func (s *UserService) Update(ctx context.Context, p Principal, userID string, input dto.UpdateUserRequest) (*dto.UserResponse, error) {
	if err := s.requireAdmin(p); err != nil {
		return nil, err
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("User not found")
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if input.Email != "" && input.Email != user.Email {
		existing, err := s.users.FindByEmail(ctx, input.Email)
		if err == nil && existing.ID != userID {
			return nil, apperrors.InvalidOperation("Email already registered")
		}
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("failed to check email: %w", err)
		}
		user.Email = input.Email
	}
	if input.Name != "" {
		user.Name = input.Name
	}
	if input.Role != "" {
		user.Role = input.Role
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	s.logger.Info("user updated",
		zap.String("user_id", userID),
		zap.String("admin_id", p.UserID))

	resp := toUserResponse(user)
	return &resp, nil
}

// Delete removes a user and all tasks the user owns. Admins cannot
// delete their own account.
func (s *UserService) Delete(ctx context.Context, p Principal, userID string) (bool, error) {
	if err := s.requireAdmin(p); err != nil {
		return false, err
	}
	if userID == p.UserID {
		return false, apperrors.InvalidOperation("Cannot delete yourself")
	}

	exists, err := s.users.Exists(ctx, userID)
	if err != nil {
		return false, fmt.Errorf("failed to find user: %w", err)
	}
	if !exists {
		return false, apperrors.NotFound("User not found")
	}

	removedTasks, err := s.tasks.DeleteByOwner(ctx, userID)
	if err != nil {
		return false, fmt.Errorf("failed to delete user tasks: %w", err)
	}
	for _, taskID := range removedTasks {
		s.cache.Invalidate(ctx, taskID)
	}

	deleted, err := s.users.Delete(ctx, userID)
	if err != nil {
		return false, fmt.Errorf("failed to delete user: %w", err)
	}

	if deleted {
		s.logger.Info("user deleted",
			zap.String("user_id", userID),
			zap.String("admin_id", p.UserID),
			zap.Int("tasks_removed", len(removedTasks)))
	}
	return deleted, nil
}
