package repository

import (
	"context"
	"testing"
	"time"

	"github.com/mkurosawa/task-manager-api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newSQLiteDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Task{}))
	t.Cleanup(func() {
		sqlDB, err := db.DB()
		require.NoError(t, err)
		sqlDB.Close()
	})
	return db
}

func seedTask(t *testing.T, db *gorm.DB, task *models.Task) *models.Task {
	t.Helper()
	if task.Tags == nil {
		task.Tags = []string{}
	}
	if task.Attachments == nil {
		task.Attachments = []models.Attachment{}
	}
	require.NoError(t, db.Create(task).Error)
	return task
}

func TestTaskRepository_List_AssignmentMembership(t *testing.T) {
	db := newSQLiteDB(t)
	repo := NewTaskRepository(db)

	owned := seedTask(t, db, &models.Task{Title: "owned", UserID: "alice", AssignedUserIDs: []string{"alice"}})
	assigned := seedTask(t, db, &models.Task{Title: "assigned", UserID: "bob", AssignedUserIDs: []string{"bob", "alice"}})
	seedTask(t, db, &models.Task{Title: "foreign", UserID: "bob", AssignedUserIDs: []string{"bob"}})

	tasks, err := repo.List(context.Background(), TaskFilter{UserID: "alice"})
	require.NoError(t, err)
	require.Len(t, tasks, 2)

	ids := []string{tasks[0].ID, tasks[1].ID}
	assert.Contains(t, ids, owned.ID)
	assert.Contains(t, ids, assigned.ID)
}

// Quoted membership matching must not treat one id as a substring of
// another.
func TestTaskRepository_List_NoSubstringFalsePositive(t *testing.T) {
	db := newSQLiteDB(t)
	repo := NewTaskRepository(db)

	seedTask(t, db, &models.Task{Title: "other", UserID: "bob", AssignedUserIDs: []string{"alice-2"}})

	tasks, err := repo.List(context.Background(), TaskFilter{UserID: "alice"})
	require.NoError(t, err)
	assert.Empty(t, tasks)
}

func TestTaskRepository_List_TagAndSearch(t *testing.T) {
	db := newSQLiteDB(t)
	repo := NewTaskRepository(db)

	tagged := seedTask(t, db, &models.Task{
		Title: "Write Release Notes", UserID: "alice",
		AssignedUserIDs: []string{"alice"}, Tags: []string{"docs", "release"},
	})
	seedTask(t, db, &models.Task{
		Title: "Fix bug", UserID: "alice",
		AssignedUserIDs: []string{"alice"}, Tags: []string{"bug"},
	})

	tasks, err := repo.List(context.Background(), TaskFilter{Tag: "docs"})
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, tagged.ID, tasks[0].ID)

	tasks, err = repo.List(context.Background(), TaskFilter{Search: "release NOTES"})
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, tagged.ID, tasks[0].ID)
}

func TestTaskRepository_UpdateAttachments(t *testing.T) {
	db := newSQLiteDB(t)
	repo := NewTaskRepository(db)

	task := seedTask(t, db, &models.Task{Title: "with files", UserID: "alice", AssignedUserIDs: []string{"alice"}})

	attachments := []models.Attachment{
		{ID: "a1", FileName: "one.txt", BlobID: "b1", UploadedAt: time.Now()},
	}
	updated, err := repo.UpdateAttachments(context.Background(), task.ID, attachments)
	require.NoError(t, err)
	assert.True(t, updated)

	var stored models.Task
	require.NoError(t, db.First(&stored, "id = ?", task.ID).Error)
	require.Len(t, stored.Attachments, 1)
	assert.Equal(t, "a1", stored.Attachments[0].ID)
	// Only the attachment column was touched
	assert.Equal(t, "with files", stored.Title)

	// nil clears the list instead of storing a JSON null
	updated, err = repo.UpdateAttachments(context.Background(), task.ID, nil)
	require.NoError(t, err)
	assert.True(t, updated)

	require.NoError(t, db.First(&stored, "id = ?", task.ID).Error)
	assert.Empty(t, stored.Attachments)

	updated, err = repo.UpdateAttachments(context.Background(), "missing", attachments)
	require.NoError(t, err)
	assert.False(t, updated)
}

func TestTaskRepository_DeleteByOwner(t *testing.T) {
	db := newSQLiteDB(t)
	repo := NewTaskRepository(db)

	one := seedTask(t, db, &models.Task{Title: "one", UserID: "alice", AssignedUserIDs: []string{"alice"}})
	two := seedTask(t, db, &models.Task{Title: "two", UserID: "alice", AssignedUserIDs: []string{"alice"}})
	kept := seedTask(t, db, &models.Task{Title: "keep", UserID: "bob", AssignedUserIDs: []string{"bob"}})

	removed, err := repo.DeleteByOwner(context.Background(), "alice")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{one.ID, two.ID}, removed)

	var remaining []models.Task
	require.NoError(t, db.Find(&remaining).Error)
	require.Len(t, remaining, 1)
	assert.Equal(t, kept.ID, remaining[0].ID)

	removed, err = repo.DeleteByOwner(context.Background(), "nobody")
	require.NoError(t, err)
	assert.Empty(t, removed)
}

// LIKE wildcards in filter input must match literally, not as patterns.
func TestTaskRepository_List_EscapesWildcards(t *testing.T) {
	db := newSQLiteDB(t)
	repo := NewTaskRepository(db)

	seedTask(t, db, &models.Task{Title: "plain", UserID: "alice", AssignedUserIDs: []string{"alice"}})
	discount := seedTask(t, db, &models.Task{Title: "100% done", UserID: "alice", AssignedUserIDs: []string{"alice"}})

	tasks, err := repo.List(context.Background(), TaskFilter{Search: "%"})
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, discount.ID, tasks[0].ID)

	tasks, err = repo.List(context.Background(), TaskFilter{Search: "_"})
	require.NoError(t, err)
	assert.Empty(t, tasks)

	tasks, err = repo.List(context.Background(), TaskFilter{Tag: "%"})
	require.NoError(t, err)
	assert.Empty(t, tasks)
}
