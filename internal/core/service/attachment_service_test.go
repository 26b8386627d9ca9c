package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/todoapp/todo-api/internal/core/domain"
	"github.com/todoapp/todo-api/internal/core/ports"
)

type attachmentFixture struct {
	svc   *AttachmentService
	repo  *stubAttachmentRepo
	store *stubStorage
	task  *domain.Task
}

func newAttachmentFixture(t *testing.T) *attachmentFixture {
	t.Helper()
	tasks := newStubTaskRepo()
	task, err := tasks.Create(context.Background(), &domain.Task{Name: "t", UserID: 1})
	require.NoError(t, err)
	repo := newStubAttachmentRepo()
	store := newStubStorage()
	return &attachmentFixture{
		svc:   NewAttachmentService(repo, tasks, store, 0, zerolog.Nop()),
		repo:  repo,
		store: store,
		task:  task,
	}
}

func upload(name string) ports.Upload {
	return ports.Upload{Filename: name, ContentType: "application/pdf", Size: 4, Body: strings.NewReader("%PDF")}
}

func TestAttachmentService_Create(t *testing.T) {
	f := newAttachmentFixture(t)

	a, err := f.svc.Create(context.Background(), 1, f.task.ID, upload("Report.PDF"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(a.FilePath, "attachments/"))
	assert.True(t, strings.HasSuffix(a.FilePath, ".pdf"))
	assert.Equal(t, []byte("%PDF"), f.store.objects[a.FilePath])
}

func TestAttachmentService_CreateChecksTask(t *testing.T) {
	f := newAttachmentFixture(t)
	ctx := context.Background()

	_, err := f.svc.Create(ctx, 1, 999, upload("a.txt"))
	assert.ErrorIs(t, err, domain.ErrTaskNotFound)

	_, err = f.svc.Create(ctx, 2, f.task.ID, upload("a.txt"))
	assert.ErrorIs(t, err, domain.ErrForbidden)
	assert.Empty(t, f.store.objects)
}

func TestAttachmentService_RejectsLongNames(t *testing.T) {
	f := newAttachmentFixture(t)

	_, err := f.svc.Create(context.Background(), 1, f.task.ID, upload("x."+strings.Repeat("a", 250)))
	assert.ErrorIs(t, err, domain.ErrFileNameTooLong)
	assert.Empty(t, f.store.objects)
}

func TestAttachmentService_RemovesObjectWhenInsertFails(t *testing.T) {
	f := newAttachmentFixture(t)
	f.repo.createErr = errors.New("db down")

	_, err := f.svc.Create(context.Background(), 1, f.task.ID, upload("a.txt"))
	assert.Error(t, err)
	assert.Empty(t, f.store.objects)
}

func TestAttachmentService_GetPresigns(t *testing.T) {
	f := newAttachmentFixture(t)
	ctx := context.Background()
	a, err := f.svc.Create(ctx, 1, f.task.ID, upload("a.txt"))
	require.NoError(t, err)

	got, err := f.svc.Get(ctx, a.ID, 1)
	require.NoError(t, err)
	assert.Contains(t, got.FilePath, "https://storage.example/"+a.FilePath)
	assert.Equal(t, 31*24*time.Hour, f.store.lastTTL)

	_, err = f.svc.Get(ctx, a.ID, 2)
	assert.ErrorIs(t, err, domain.ErrForbidden)
	_, err = f.svc.Get(ctx, 999, 1)
	assert.ErrorIs(t, err, domain.ErrAttachmentNotFound)
}

func TestAttachmentService_Delete(t *testing.T) {
	f := newAttachmentFixture(t)
	ctx := context.Background()
	a, err := f.svc.Create(ctx, 1, f.task.ID, upload("a.txt"))
	require.NoError(t, err)

	assert.ErrorIs(t, f.svc.Delete(ctx, a.ID, 2), domain.ErrForbidden)
	require.NoError(t, f.svc.Delete(ctx, a.ID, 1))
	assert.Empty(t, f.store.objects)
	_, err = f.repo.FindByID(ctx, a.ID)
	assert.ErrorIs(t, err, domain.ErrAttachmentNotFound)
}
