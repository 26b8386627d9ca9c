package postgres

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/todoapp/todo-api/internal/core/domain"
)

// openTestDB migrates and truncates the database named by TEST_DATABASE_URL.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	require.NoError(t, RunMigrations(url))

	db, err := Connect(context.Background(), Config{URL: url, Log: zerolog.Nop()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = Close(db) })

	require.NoError(t, db.Exec("TRUNCATE attachments, sub_tasks, tasks, categories, users RESTART IDENTITY CASCADE").Error)
	return db
}

func seedUser(t *testing.T, repo interface {
	Create(context.Context, *domain.User) (*domain.User, error)
}, name string, role domain.Role) *domain.User {
	t.Helper()
	u, err := repo.Create(context.Background(), &domain.User{Username: name, PasswordHash: "$2a$04$hash", Role: role})
	require.NoError(t, err)
	return u
}

func TestUserRepository(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	repo := NewUserRepository(db)

	alice := seedUser(t, repo, "alice", "")
	assert.Equal(t, domain.RoleUser, alice.Role)
	assert.NotZero(t, alice.ID)

	_, err := repo.Create(ctx, &domain.User{Username: "alice", PasswordHash: "x"})
	assert.ErrorIs(t, err, domain.ErrUserExists)

	got, err := repo.FindByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, alice.ID, got.ID)
	assert.Equal(t, "$2a$04$hash", got.PasswordHash)

	_, err = repo.FindByID(ctx, 9999)
	assert.ErrorIs(t, err, domain.ErrUserNotFound)

	updated, err := repo.UpdateRole(ctx, alice.ID, domain.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, updated.Role)

	_, err = repo.UpdateRole(ctx, 9999, domain.RoleAdmin)
	assert.ErrorIs(t, err, domain.ErrUserNotFound)

	users, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 1)
}

func TestTaskRepositories(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	users := NewUserRepository(db)
	categories := NewCategoryRepository(db)
	tasks := NewTaskRepository(db)
	subs := NewSubTaskRepository(db)
	attachments := NewAttachmentRepository(db)

	bob := seedUser(t, users, "bob", domain.RoleUser)
	eve := seedUser(t, users, "eve", domain.RoleUser)
	seedUser(t, users, "root", domain.RoleAdmin)

	work, err := categories.Create(ctx, &domain.Category{Name: "work"})
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultCategoryIcon, work.Icon)
	assert.Equal(t, domain.DefaultCategoryColor, work.Color)

	_, err = categories.Create(ctx, &domain.Category{Name: "work"})
	assert.ErrorIs(t, err, domain.ErrCategoryExists)

	due := time.Now().Add(24 * time.Hour).UTC().Truncate(time.Second)
	first, err := tasks.Create(ctx, &domain.Task{Name: "write", CategoryID: work.ID, UserID: bob.ID, DueDate: due})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusTodo, first.Status)
	assert.Equal(t, domain.DefaultPriority, first.Priority)

	_, err = tasks.Create(ctx, &domain.Task{Name: "orphan", CategoryID: 9999, UserID: bob.ID, DueDate: due})
	assert.ErrorIs(t, err, domain.ErrCategoryNotFound)

	second, err := tasks.Create(ctx, &domain.Task{
		Name: "ship", CategoryID: work.ID, UserID: bob.ID, DueDate: due.Add(48 * time.Hour),
		Status: domain.StatusDone, Priority: 1,
	})
	require.NoError(t, err)

	exists, err := tasks.ExistsByName(ctx, bob.ID, "write")
	require.NoError(t, err)
	assert.True(t, exists)
	exists, err = tasks.ExistsByName(ctx, eve.ID, "write")
	require.NoError(t, err)
	assert.False(t, exists)

	_, err = tasks.FindByID(ctx, first.ID, eve.ID)
	assert.ErrorIs(t, err, domain.ErrTaskNotFound)

	done := domain.StatusDone
	filtered, err := tasks.List(ctx, domain.TaskFilter{UserID: bob.ID, Status: &done})
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, second.ID, filtered[0].ID)

	before := due.Add(time.Hour)
	filtered, err = tasks.List(ctx, domain.TaskFilter{UserID: bob.ID, DueBefore: &before})
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, first.ID, filtered[0].ID)

	first.Status = domain.StatusDoing
	first.Name = "write more"
	updated, err := tasks.Update(ctx, first)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusDoing, updated.Status)
	assert.Equal(t, "write more", updated.Name)

	sub, err := subs.Create(ctx, &domain.SubTask{Name: "outline", TaskID: first.ID})
	require.NoError(t, err)
	assert.Equal(t, bob.ID, sub.UserID)

	sub.Name = "outline v2"
	sub, err = subs.Update(ctx, sub)
	require.NoError(t, err)
	assert.Equal(t, "outline v2", sub.Name)

	att, err := attachments.Create(ctx, &domain.Attachment{FilePath: "attachments/x.pdf", TaskID: first.ID})
	require.NoError(t, err)

	stats, err := users.TaskStats(ctx, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.TaskStats{Total: 2, Todo: 0, Doing: 1, Done: 1}, stats)

	report, err := users.TaskStatsByUser(ctx)
	require.NoError(t, err)
	require.Len(t, report, 2, "admins are excluded")
	assert.Equal(t, domain.UserTaskStats{Username: "bob", Total: 2, Done: 1, Doing: 1}, report[0])
	assert.Equal(t, domain.UserTaskStats{Username: "eve"}, report[1])

	require.NoError(t, tasks.Delete(ctx, first.ID))
	_, err = subs.FindByID(ctx, sub.ID)
	assert.ErrorIs(t, err, domain.ErrSubTaskNotFound, "sub tasks cascade")
	_, err = attachments.FindByID(ctx, att.ID)
	assert.ErrorIs(t, err, domain.ErrAttachmentNotFound, "attachments cascade")
	assert.ErrorIs(t, tasks.Delete(ctx, first.ID), domain.ErrTaskNotFound)

	require.NoError(t, categories.Delete(ctx, work.ID))
	_, err = tasks.FindAnyByID(ctx, second.ID)
	assert.ErrorIs(t, err, domain.ErrTaskNotFound, "tasks cascade with their category")
}
