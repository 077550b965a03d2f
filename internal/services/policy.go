package services

import (
	"github.com/mkurosawa/task-manager-api/internal/models"
)

// Authorization policy: stateless decisions over a principal and a
// task. Every task and attachment operation consults these before
// touching the store.

// CanReadTask grants single-task reads to the owner and admins.
// Assignees see tasks through list queries but cannot fetch one
// directly.
func CanReadTask(p Principal, t *models.Task) bool {
	return p.IsAdmin() || t.UserID == p.UserID
}

// CanManageTask grants full field updates and deletion.
func CanManageTask(p Principal, t *models.Task) bool {
	return p.IsAdmin() || t.UserID == p.UserID
}

// CanUpdateStatusOnly holds for assignees that are neither owner nor
// admin: they may change the status field and nothing else.
func CanUpdateStatusOnly(p Principal, t *models.Task) bool {
	return t.IsAssigned(p.UserID) && !CanManageTask(p, t)
}

// CanDownloadAttachment grants attachment reads to admins, the owner
// and assignees.
func CanDownloadAttachment(p Principal, t *models.Task) bool {
	return p.IsAdmin() || t.UserID == p.UserID || t.IsAssigned(p.UserID)
}

// CanMutateAttachments equals CanManageTask: deleting attachments is an
// owner/admin operation.
func CanMutateAttachments(p Principal, t *models.Task) bool {
	return CanManageTask(p, t)
}
