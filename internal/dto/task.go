package dto

import "time"

type CreateTaskRequest struct {
	Title           string     `json:"title" binding:"required"`
	Description     string     `json:"description"`
	Status          string     `json:"status"`
	Priority        string     `json:"priority"`
	DueDate         *time.Time `json:"due_date"`
	Tags            []string   `json:"tags"`
	AssignedUserIDs []string   `json:"assigned_user_ids"`
}

// UpdateTaskRequest carries a partial update: nil pointers and nil
// slices mean "not provided" and leave the stored field untouched.
type UpdateTaskRequest struct {
	Title           *string    `json:"title"`
	Description     *string    `json:"description"`
	Status          *string    `json:"status"`
	Priority        *string    `json:"priority"`
	DueDate         *time.Time `json:"due_date"`
	Tags            []string   `json:"tags"`
	AssignedUserIDs []string   `json:"assigned_user_ids"`
}

type AttachmentResponse struct {
	ID          string    `json:"id"`
	FileName    string    `json:"file_name"`
	FileSize    int64     `json:"file_size"`
	ContentType string    `json:"content_type"`
	BlobID      string    `json:"blob_id"`
	UploadedAt  time.Time `json:"uploaded_at"`
}

// UserRef is the projection of an assigned user embedded in task
// responses.
type UserRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type TaskResponse struct {
	ID              string               `json:"id"`
	Title           string               `json:"title"`
	Description     string               `json:"description"`
	Status          string               `json:"status"`
	Priority        string               `json:"priority"`
	DueDate         *time.Time           `json:"due_date"`
	Tags            []string             `json:"tags"`
	UserID          string               `json:"user_id"`
	AssignedUserIDs []string             `json:"assigned_user_ids"`
	Attachments     []AttachmentResponse `json:"attachments"`
	CreatedAt       time.Time            `json:"created_at"`
}

type TaskWithUsersResponse struct {
	ID            string               `json:"id"`
	Title         string               `json:"title"`
	Description   string               `json:"description"`
	Status        string               `json:"status"`
	Priority      string               `json:"priority"`
	DueDate       *time.Time           `json:"due_date"`
	Tags          []string             `json:"tags"`
	UserID        string               `json:"user_id"`
	AssignedUsers []UserRef            `json:"assigned_users"`
	Attachments   []AttachmentResponse `json:"attachments"`
	CreatedAt     time.Time            `json:"created_at"`
}
