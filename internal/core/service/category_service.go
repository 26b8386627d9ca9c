package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/todoapp/todo-api/internal/core/domain"
	"github.com/todoapp/todo-api/internal/core/ports"
)

const iconPrefix = "icons/"

type CategoryService struct {
	repo    ports.CategoryRepository
	storage ports.ObjectStorage
	logger  zerolog.Logger
}

var _ ports.CategoryService = (*CategoryService)(nil)

func NewCategoryService(repo ports.CategoryRepository, storage ports.ObjectStorage, logger zerolog.Logger) *CategoryService {
	return &CategoryService{repo: repo, storage: storage, logger: logger}
}

// Create stores a category. When an icon is supplied it must be an image of
// a supported type; it is uploaded before the row is written and removed
// again if the insert fails.
func (s *CategoryService) Create(ctx context.Context, name, color string, icon ports.Upload) (*domain.Category, error) {
	exists, err := s.repo.ExistsByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.ErrCategoryExists
	}

	iconPath := domain.DefaultCategoryIcon
	if icon.Body != nil {
		ext, ok := domain.IconExtensions[icon.ContentType]
		if !ok {
			return nil, domain.ErrUnsupportedFileType
		}
		iconPath = fmt.Sprintf("%s%s.%s", iconPrefix, uuid.NewString(), ext)
		if err := s.storage.Put(ctx, iconPath, icon.ContentType, icon.Body, icon.Size); err != nil {
			return nil, err
		}
	}

	created, err := s.repo.Create(ctx, &domain.Category{Name: name, Color: color, Icon: iconPath})
	if err != nil {
		s.removeIcon(ctx, iconPath)
		return nil, err
	}
	return created, nil
}

func (s *CategoryService) List(ctx context.Context) ([]*domain.Category, error) {
	return s.repo.List(ctx)
}

func (s *CategoryService) Get(ctx context.Context, id int64) (*domain.Category, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *CategoryService) Update(ctx context.Context, id int64, name, color *string) (*domain.Category, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if name != nil && *name != c.Name {
		exists, err := s.repo.ExistsByName(ctx, *name)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, domain.ErrCategoryExists
		}
		c.Name = *name
	}
	if color != nil {
		c.Color = *color
	}
	return s.repo.Update(ctx, c)
}

// Delete removes the category (its tasks cascade) and then its icon.
func (s *CategoryService) Delete(ctx context.Context, id int64) error {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.removeIcon(ctx, c.Icon)
	return nil
}

func (s *CategoryService) removeIcon(ctx context.Context, path string) {
	if path == "" || path == domain.DefaultCategoryIcon {
		return
	}
	if err := s.storage.Delete(ctx, path); err != nil {
		s.logger.Warn().Err(err).Str("key", path).Msg("icon cleanup failed")
	}
}
