package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/todoapp/todo-api/internal/core/domain"
	"github.com/todoapp/todo-api/internal/core/ports"
)

// CategoryRepository implements ports.CategoryRepository using PostgreSQL.
type CategoryRepository struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) ports.CategoryRepository {
	return &CategoryRepository{db: db}
}

func (r *CategoryRepository) Create(ctx context.Context, c *domain.Category) (*domain.Category, error) {
	m := categoryFromDomain(c)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, domain.ErrCategoryExists
		}
		return nil, fmt.Errorf("insert category: %w", err)
	}
	return m.toDomain(), nil
}

func (r *CategoryRepository) FindByID(ctx context.Context, id int64) (*domain.Category, error) {
	var m categoryModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).Take(&m).Error; err != nil {
		if isNotFound(err) {
			return nil, domain.ErrCategoryNotFound
		}
		return nil, fmt.Errorf("find category %d: %w", id, err)
	}
	return m.toDomain(), nil
}

func (r *CategoryRepository) ExistsByName(ctx context.Context, name string) (bool, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&categoryModel{}).Where("name = ?", name).Count(&n).Error; err != nil {
		return false, fmt.Errorf("count categories named %q: %w", name, err)
	}
	return n > 0, nil
}

func (r *CategoryRepository) List(ctx context.Context) ([]*domain.Category, error) {
	var rows []categoryModel
	if err := r.db.WithContext(ctx).Order("id").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	out := make([]*domain.Category, 0, len(rows))
	for i := range rows {
		out = append(out, rows[i].toDomain())
	}
	return out, nil
}

func (r *CategoryRepository) Update(ctx context.Context, c *domain.Category) (*domain.Category, error) {
	m := categoryFromDomain(c)
	res := r.db.WithContext(ctx).Model(m).Select("name", "color", "icon", "updated_at").Updates(m)
	if res.Error != nil {
		if isUniqueViolation(res.Error) {
			return nil, domain.ErrCategoryExists
		}
		return nil, fmt.Errorf("update category %d: %w", c.ID, res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, domain.ErrCategoryNotFound
	}
	return r.FindByID(ctx, c.ID)
}

func (r *CategoryRepository) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&categoryModel{}, id)
	if res.Error != nil {
		return fmt.Errorf("delete category %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrCategoryNotFound
	}
	return nil
}
