package handler

import (
	"time"

	"github.com/todoapp/todo-api/internal/core/domain"
	"github.com/todoapp/todo-api/internal/core/ports"
)

const dateLayout = "2006-01-02"

// --- Request → Service input ---

func toCreateTaskInput(req createTaskRequest, userID int64) ports.CreateTaskInput {
	return ports.CreateTaskInput{
		UserID:      userID,
		Name:        req.Name,
		Description: req.Description,
		CategoryID:  req.CategoryID,
		DueDate:     req.DueDate,
		Priority:    domain.Priority(req.Priority),
	}
}

func toTaskUpdate(req updateTaskRequest) domain.TaskUpdate {
	upd := domain.TaskUpdate{
		Name:        req.Name,
		Description: req.Description,
		DueDate:     req.DueDate,
		CategoryID:  req.CategoryID,
	}
	if req.Status != nil {
		s := domain.TaskStatus(*req.Status)
		upd.Status = &s
	}
	if req.Priority != nil {
		p := domain.Priority(*req.Priority)
		upd.Priority = &p
	}
	return upd
}

// toTaskFilter builds the filter for a user. A bare date in due_date means
// "due by the end of that day".
func toTaskFilter(q filterTasksQuery, userID int64) (domain.TaskFilter, bool) {
	f := domain.TaskFilter{UserID: userID}
	if q.Status != "" {
		s := domain.TaskStatus(q.Status)
		f.Status = &s
	}
	if q.Priority != 0 {
		p := domain.Priority(q.Priority)
		f.Priority = &p
	}
	if q.DueDate != "" {
		due, err := time.Parse(time.RFC3339, q.DueDate)
		if err != nil {
			day, dayErr := time.Parse(dateLayout, q.DueDate)
			if dayErr != nil {
				return f, false
			}
			due = day.Add(24*time.Hour - time.Nanosecond)
		}
		f.DueBefore = &due
	}
	return f, true
}

// --- Domain → Response ---

func toUserResponse(u *domain.User) userResponse {
	return userResponse{ID: u.ID, Username: u.Username, Role: u.Role}
}

func toUserResponses(users []*domain.User) []userResponse {
	out := make([]userResponse, 0, len(users))
	for _, u := range users {
		out = append(out, toUserResponse(u))
	}
	return out
}

func toUserDetails(users []*domain.User) []userDetailsResponse {
	out := make([]userDetailsResponse, 0, len(users))
	for _, u := range users {
		out = append(out, userDetailsResponse{
			userResponse: toUserResponse(u),
			CreatedAt:    u.CreatedAt,
			UpdatedAt:    u.UpdatedAt,
		})
	}
	return out
}
