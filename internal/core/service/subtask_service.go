package service

import (
	"context"

	"github.com/todoapp/todo-api/internal/core/domain"
	"github.com/todoapp/todo-api/internal/core/ports"
)

// SubTaskService manages sub-tasks. Every operation requires the caller to
// own the parent task.
type SubTaskService struct {
	tasks ports.TaskRepository
	subs  ports.SubTaskRepository
}

var _ ports.SubTaskService = (*SubTaskService)(nil)

func NewSubTaskService(tasks ports.TaskRepository, subs ports.SubTaskRepository) *SubTaskService {
	return &SubTaskService{tasks: tasks, subs: subs}
}

func (s *SubTaskService) Create(ctx context.Context, userID, taskID int64, name string, description *string) (*domain.SubTask, error) {
	task, err := s.tasks.FindAnyByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if task.UserID != userID {
		return nil, domain.ErrForbidden
	}
	return s.subs.Create(ctx, &domain.SubTask{Name: name, Description: description, TaskID: taskID})
}

func (s *SubTaskService) Get(ctx context.Context, id, userID int64) (*domain.SubTask, error) {
	sub, err := s.subs.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if sub.UserID != userID {
		return nil, domain.ErrForbidden
	}
	return sub, nil
}

func (s *SubTaskService) Update(ctx context.Context, id, userID int64, name, description *string) (*domain.SubTask, error) {
	sub, err := s.Get(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	if name != nil {
		sub.Name = *name
	}
	if description != nil {
		sub.Description = description
	}
	return s.subs.Update(ctx, sub)
}

func (s *SubTaskService) Delete(ctx context.Context, id, userID int64) error {
	if _, err := s.Get(ctx, id, userID); err != nil {
		return err
	}
	return s.subs.Delete(ctx, id)
}
