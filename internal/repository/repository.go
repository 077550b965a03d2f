package repository

import (
	"context"
	"io"

	"github.com/mkurosawa/task-manager-api/internal/models"
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create persists a new user
	Create(ctx context.Context, user *models.User) error

	// FindByID finds a user by ID
	FindByID(ctx context.Context, id string) (*models.User, error)

	// FindByEmail finds a user by email (exact, case-sensitive)
	FindByEmail(ctx context.Context, email string) (*models.User, error)

	// FindAll returns every user
	FindAll(ctx context.Context) ([]models.User, error)

	// Update replaces the stored user record
	Update(ctx context.Context, user *models.User) error

	// Delete removes a user; reports whether a row was deleted
	Delete(ctx context.Context, id string) (bool, error)

	// Exists reports whether a user with the id is stored
	Exists(ctx context.Context, id string) (bool, error)
}

// TaskFilter holds the optional predicates for listing tasks. Empty
// fields are omitted from the query entirely.
type TaskFilter struct {
	// UserID restricts results to tasks the user owns or is assigned
	// to. Empty means no ownership restriction (admin listing).
	UserID   string
	Status   string
	Priority string
	Tag      string
	Search   string
}

// TaskRepository defines the interface for task data access
type TaskRepository interface {
	// Create persists a new task
	Create(ctx context.Context, task *models.Task) error

	// FindByID finds a task by ID
	FindByID(ctx context.Context, id string) (*models.Task, error)

	// List retrieves tasks matching the filter
	List(ctx context.Context, filter TaskFilter) ([]models.Task, error)

	// Update replaces the whole stored task record
	Update(ctx context.Context, task *models.Task) error

	// Delete removes a task; reports whether a row was deleted
	Delete(ctx context.Context, id string) (bool, error)

	// DeleteByOwner removes every task owned by the user and returns
	// the ids of the deleted tasks so callers can evict cache entries
	DeleteByOwner(ctx context.Context, userID string) ([]string, error)

	// UpdateAttachments replaces only the attachment list of a task,
	// leaving all other columns untouched
	UpdateAttachments(ctx context.Context, id string, attachments []models.Attachment) (bool, error)
}

// BlobRepository stores attachment payloads keyed by opaque ids.
type BlobRepository interface {
	// Upload stores the stream and returns the assigned blob id
	Upload(ctx context.Context, r io.Reader, fileName, contentType string) (string, error)

	// Download returns the payload stream with its original name and
	// content type; gorm.ErrRecordNotFound if the id is stale
	Download(ctx context.Context, id string) (io.ReadCloser, string, string, error)

	// Delete removes the payload; gorm.ErrRecordNotFound if absent
	Delete(ctx context.Context, id string) error
}
