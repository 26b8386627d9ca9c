package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/todoapp/todo-api/internal/core/domain"
	"github.com/todoapp/todo-api/internal/core/ports"
)

type TaskService struct {
	tasks      ports.TaskRepository
	categories ports.CategoryRepository
	logger     zerolog.Logger
}

var _ ports.TaskService = (*TaskService)(nil)

func NewTaskService(tasks ports.TaskRepository, categories ports.CategoryRepository, logger zerolog.Logger) *TaskService {
	return &TaskService{tasks: tasks, categories: categories, logger: logger}
}

// Create stores a new task in the todo state. Names are unique per user.
func (s *TaskService) Create(ctx context.Context, in ports.CreateTaskInput) (*domain.Task, error) {
	priority := in.Priority
	if priority == 0 {
		priority = domain.DefaultPriority
	}
	if !priority.Valid() {
		return nil, domain.ErrInvalidPriority
	}
	if err := s.ensureNameFree(ctx, in.UserID, in.Name); err != nil {
		return nil, err
	}
	if _, err := s.categories.FindByID(ctx, in.CategoryID); err != nil {
		return nil, err
	}

	task, err := s.tasks.Create(ctx, &domain.Task{
		Name:        in.Name,
		Description: in.Description,
		CategoryID:  in.CategoryID,
		UserID:      in.UserID,
		DueDate:     in.DueDate,
		Status:      domain.StatusTodo,
		Priority:    priority,
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info().Int64("task_id", task.ID).Int64("user_id", task.UserID).Msg("task created")
	return task, nil
}

func (s *TaskService) List(ctx context.Context, userID int64) ([]*domain.Task, error) {
	return s.tasks.List(ctx, domain.TaskFilter{UserID: userID})
}

func (s *TaskService) Filter(ctx context.Context, filter domain.TaskFilter) ([]*domain.Task, error) {
	if filter.Status != nil && !filter.Status.Valid() {
		return nil, domain.ErrInvalidStatus
	}
	if filter.Priority != nil && !filter.Priority.Valid() {
		return nil, domain.ErrInvalidPriority
	}
	return s.tasks.List(ctx, filter)
}

func (s *TaskService) Get(ctx context.Context, id, userID int64) (*domain.Task, error) {
	return s.tasks.FindByID(ctx, id, userID)
}

// Update applies a partial update to one of the user's tasks.
func (s *TaskService) Update(ctx context.Context, id, userID int64, upd domain.TaskUpdate) (*domain.Task, error) {
	task, err := s.tasks.FindByID(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	if upd.Name != nil && *upd.Name != task.Name {
		if err := s.ensureNameFree(ctx, userID, *upd.Name); err != nil {
			return nil, err
		}
		task.Name = *upd.Name
	}
	if upd.CategoryID != nil && *upd.CategoryID != task.CategoryID {
		if _, err := s.categories.FindByID(ctx, *upd.CategoryID); err != nil {
			return nil, err
		}
		task.CategoryID = *upd.CategoryID
	}
	if upd.Status != nil {
		if !upd.Status.Valid() {
			return nil, domain.ErrInvalidStatus
		}
		task.Status = *upd.Status
	}
	if upd.Priority != nil {
		if !upd.Priority.Valid() {
			return nil, domain.ErrInvalidPriority
		}
		task.Priority = *upd.Priority
	}
	if upd.Description != nil {
		task.Description = upd.Description
	}
	if upd.DueDate != nil {
		task.DueDate = *upd.DueDate
	}

	return s.tasks.Update(ctx, task)
}

func (s *TaskService) Delete(ctx context.Context, id, userID int64) error {
	if _, err := s.tasks.FindByID(ctx, id, userID); err != nil {
		return err
	}
	return s.tasks.Delete(ctx, id)
}

func (s *TaskService) ensureNameFree(ctx context.Context, userID int64, name string) error {
	taken, err := s.tasks.ExistsByName(ctx, userID, name)
	if err != nil {
		return err
	}
	if taken {
		return domain.ErrTaskNameTaken
	}
	return nil
}
