package service

import (
	"context"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/todoapp/todo-api/internal/core/domain"
	"github.com/todoapp/todo-api/internal/core/ports"
)

const (
	attachmentPrefix = "attachments/"
	// maxObjectKeyLen matches the width of attachments.file_path.
	maxObjectKeyLen = 255

	DefaultAttachmentURLTTL = 31 * 24 * time.Hour
)

type AttachmentService struct {
	attachments ports.AttachmentRepository
	tasks       ports.TaskRepository
	storage     ports.ObjectStorage
	urlTTL      time.Duration
	logger      zerolog.Logger
}

var _ ports.AttachmentService = (*AttachmentService)(nil)

func NewAttachmentService(
	attachments ports.AttachmentRepository,
	tasks ports.TaskRepository,
	storage ports.ObjectStorage,
	urlTTL time.Duration,
	logger zerolog.Logger,
) *AttachmentService {
	if urlTTL <= 0 {
		urlTTL = DefaultAttachmentURLTTL
	}
	return &AttachmentService{
		attachments: attachments,
		tasks:       tasks,
		storage:     storage,
		urlTTL:      urlTTL,
		logger:      logger,
	}
}

// Create uploads file under a random name that keeps the original extension
// and links it to one of the caller's tasks.
func (s *AttachmentService) Create(ctx context.Context, userID, taskID int64, file ports.Upload) (*domain.Attachment, error) {
	if err := s.authorize(ctx, userID, taskID); err != nil {
		return nil, err
	}

	key := attachmentPrefix + uuid.NewString() + strings.ToLower(filepath.Ext(file.Filename))
	if len(key) >= maxObjectKeyLen {
		return nil, domain.ErrFileNameTooLong
	}
	contentType := file.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	if err := s.storage.Put(ctx, key, contentType, file.Body, file.Size); err != nil {
		return nil, err
	}

	created, err := s.attachments.Create(ctx, &domain.Attachment{FilePath: key, TaskID: taskID})
	if err != nil {
		if delErr := s.storage.Delete(ctx, key); delErr != nil {
			s.logger.Warn().Err(delErr).Str("key", key).Msg("orphaned attachment object")
		}
		return nil, err
	}
	return created, nil
}

// Get returns the attachment with FilePath replaced by a presigned download URL.
func (s *AttachmentService) Get(ctx context.Context, id, userID int64) (*domain.Attachment, error) {
	a, err := s.find(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	url, err := s.storage.PresignGet(ctx, a.FilePath, s.urlTTL)
	if err != nil {
		return nil, err
	}
	a.FilePath = url
	return a, nil
}

// Delete removes the stored object first so a failure leaves the row to retry with.
func (s *AttachmentService) Delete(ctx context.Context, id, userID int64) error {
	a, err := s.find(ctx, id, userID)
	if err != nil {
		return err
	}
	if err := s.storage.Delete(ctx, a.FilePath); err != nil {
		return err
	}
	return s.attachments.Delete(ctx, id)
}

func (s *AttachmentService) find(ctx context.Context, id, userID int64) (*domain.Attachment, error) {
	a, err := s.attachments.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(ctx, userID, a.TaskID); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *AttachmentService) authorize(ctx context.Context, userID, taskID int64) error {
	task, err := s.tasks.FindAnyByID(ctx, taskID)
	if err != nil {
		return err
	}
	if task.UserID != userID {
		return domain.ErrForbidden
	}
	return nil
}
