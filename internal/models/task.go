package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Task is stored as a single document-like row: tags, assigned user ids
// and attachment metadata live in JSON-serialized columns so the record
// can be replaced or partially updated as one unit.
type Task struct {
	ID              string       `gorm:"type:varchar(36);primarykey" json:"id"`
	Title           string       `gorm:"not null" json:"title"`
	Description     string       `gorm:"type:text" json:"description"`
	Status          string       `gorm:"type:varchar(50);not null;default:'todo'" json:"status"`
	Priority        string       `gorm:"type:varchar(50);not null;default:'medium'" json:"priority"`
	DueDate         *time.Time   `json:"due_date"`
	Tags            []string     `gorm:"serializer:json;type:text" json:"tags"`
	UserID          string       `gorm:"type:varchar(36);index;not null" json:"user_id"`
	AssignedUserIDs []string     `gorm:"serializer:json;type:text" json:"assigned_user_ids"`
	Attachments     []Attachment `gorm:"serializer:json;type:text" json:"attachments"`
	CreatedAt       time.Time    `json:"created_at"`
}

func (t *Task) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	return nil
}

// AttachmentByID returns the embedded attachment with the given id, or nil.
func (t *Task) AttachmentByID(id string) *Attachment {
	for i := range t.Attachments {
		if t.Attachments[i].ID == id {
			return &t.Attachments[i]
		}
	}
	return nil
}

// IsAssigned reports whether the user id appears in the assigned list.
func (t *Task) IsAssigned(userID string) bool {
	for _, id := range t.AssignedUserIDs {
		if id == userID {
			return true
		}
	}
	return false
}
