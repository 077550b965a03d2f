package services

import (
	"testing"

	"github.com/mkurosawa/task-manager-api/internal/models"
	"github.com/stretchr/testify/assert"
)

func policyTask() *models.Task {
	return &models.Task{
		ID:              "t1",
		UserID:          "owner",
		AssignedUserIDs: []string{"owner", "assignee"},
	}
}

func TestCanReadTask(t *testing.T) {
	task := policyTask()

	assert.True(t, CanReadTask(Principal{UserID: "owner"}, task))
	assert.True(t, CanReadTask(Principal{UserID: "admin", Role: models.RoleAdmin}, task))
	assert.False(t, CanReadTask(Principal{UserID: "assignee"}, task))
	assert.False(t, CanReadTask(Principal{UserID: "stranger"}, task))
}

func TestCanManageTask(t *testing.T) {
	task := policyTask()

	assert.True(t, CanManageTask(Principal{UserID: "owner"}, task))
	assert.True(t, CanManageTask(Principal{UserID: "admin", Role: models.RoleAdmin}, task))
	assert.False(t, CanManageTask(Principal{UserID: "assignee"}, task))
	assert.False(t, CanManageTask(Principal{UserID: "stranger"}, task))
}

func TestCanUpdateStatusOnly(t *testing.T) {
	task := policyTask()

	assert.True(t, CanUpdateStatusOnly(Principal{UserID: "assignee"}, task))
	// Owner and admin get full management instead
	assert.False(t, CanUpdateStatusOnly(Principal{UserID: "owner"}, task))
	assert.False(t, CanUpdateStatusOnly(Principal{UserID: "admin", Role: models.RoleAdmin}, task))
	assert.False(t, CanUpdateStatusOnly(Principal{UserID: "stranger"}, task))
}

func TestCanDownloadAttachment(t *testing.T) {
	task := policyTask()

	assert.True(t, CanDownloadAttachment(Principal{UserID: "owner"}, task))
	assert.True(t, CanDownloadAttachment(Principal{UserID: "assignee"}, task))
	assert.True(t, CanDownloadAttachment(Principal{UserID: "admin", Role: models.RoleAdmin}, task))
	assert.False(t, CanDownloadAttachment(Principal{UserID: "stranger"}, task))
}

func TestCanMutateAttachments(t *testing.T) {
	task := policyTask()

	assert.True(t, CanMutateAttachments(Principal{UserID: "owner"}, task))
	assert.False(t, CanMutateAttachments(Principal{UserID: "assignee"}, task))
}

func TestIsAdminCaseInsensitive(t *testing.T) {
	assert.True(t, Principal{UserID: "u", Role: "Admin"}.IsAdmin())
	assert.True(t, Principal{UserID: "u", Role: "ADMIN"}.IsAdmin())
	assert.False(t, Principal{UserID: "u", Role: "user"}.IsAdmin())
}
