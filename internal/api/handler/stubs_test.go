package handler

import (
	"context"
	"io"
	"net/http/httptest"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/todoapp/todo-api/internal/api/middleware"
	"github.com/todoapp/todo-api/internal/core/domain"
	"github.com/todoapp/todo-api/internal/core/ports"
)

func newContext(method, target string, body io.Reader, contentType string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()
	req := httptest.NewRequest(method, target, body)
	if contentType != "" {
		req.Header.Set(echo.HeaderContentType, contentType)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func jsonContext(method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	return newContext(method, target, strings.NewReader(body), echo.MIMEApplicationJSON)
}

func asUser(c echo.Context, id int64, role domain.Role) {
	middleware.SetUser(c, &domain.User{ID: id, Username: "u", Role: role})
}

// --- auth ---

type stubAuthService struct {
	registerFn func(username, password string) (*domain.User, error)
	loginFn    func(username, password, remoteAddr string) (string, error)
	logoutFn   func(user *domain.User, token string) error
}

func (s *stubAuthService) Register(_ context.Context, username, password string) (*domain.User, error) {
	return s.registerFn(username, password)
}

func (s *stubAuthService) Login(_ context.Context, username, password, remoteAddr string) (string, error) {
	return s.loginFn(username, password, remoteAddr)
}

func (s *stubAuthService) Logout(_ context.Context, user *domain.User, token string) error {
	return s.logoutFn(user, token)
}

// --- tasks ---

type stubTaskService struct {
	created ports.CreateTaskInput
	filter  domain.TaskFilter
	update  domain.TaskUpdate
	deleted int64
	err     error
	tasks   []*domain.Task
}

func (s *stubTaskService) Create(_ context.Context, in ports.CreateTaskInput) (*domain.Task, error) {
	s.created = in
	if s.err != nil {
		return nil, s.err
	}
	return &domain.Task{ID: 1, Name: in.Name, UserID: in.UserID, Priority: in.Priority}, nil
}

func (s *stubTaskService) List(_ context.Context, _ int64) ([]*domain.Task, error) {
	return s.tasks, s.err
}

func (s *stubTaskService) Filter(_ context.Context, f domain.TaskFilter) ([]*domain.Task, error) {
	s.filter = f
	return s.tasks, s.err
}

func (s *stubTaskService) Get(_ context.Context, id, userID int64) (*domain.Task, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &domain.Task{ID: id, UserID: userID}, nil
}

func (s *stubTaskService) Update(_ context.Context, id, userID int64, upd domain.TaskUpdate) (*domain.Task, error) {
	s.update = upd
	if s.err != nil {
		return nil, s.err
	}
	return &domain.Task{ID: id, UserID: userID}, nil
}

func (s *stubTaskService) Delete(_ context.Context, id, _ int64) error {
	s.deleted = id
	return s.err
}

// --- categories & attachments ---

type stubCategoryService struct {
	name, color string
	icon        ports.Upload
	iconBody    string
	err         error
}

func (s *stubCategoryService) Create(_ context.Context, name, color string, icon ports.Upload) (*domain.Category, error) {
	s.name, s.color, s.icon = name, color, icon
	if icon.Body != nil {
		b, _ := io.ReadAll(icon.Body)
		s.iconBody = string(b)
	}
	if s.err != nil {
		return nil, s.err
	}
	return &domain.Category{ID: 1, Name: name, Color: color}, nil
}

func (s *stubCategoryService) List(context.Context) ([]*domain.Category, error) { return nil, s.err }

func (s *stubCategoryService) Get(_ context.Context, id int64) (*domain.Category, error) {
	return &domain.Category{ID: id}, s.err
}

func (s *stubCategoryService) Update(_ context.Context, id int64, _, _ *string) (*domain.Category, error) {
	return &domain.Category{ID: id}, s.err
}

func (s *stubCategoryService) Delete(context.Context, int64) error { return s.err }

type stubAttachmentService struct {
	userID, taskID int64
	file           ports.Upload
	err            error
}

func (s *stubAttachmentService) Create(_ context.Context, userID, taskID int64, file ports.Upload) (*domain.Attachment, error) {
	s.userID, s.taskID, s.file = userID, taskID, file
	if s.err != nil {
		return nil, s.err
	}
	return &domain.Attachment{ID: 9, TaskID: taskID, FilePath: "attachments/x.txt"}, nil
}

func (s *stubAttachmentService) Get(_ context.Context, id, _ int64) (*domain.Attachment, error) {
	return &domain.Attachment{ID: id, FilePath: "https://signed"}, s.err
}

func (s *stubAttachmentService) Delete(context.Context, int64, int64) error { return s.err }

// --- users & admin ---

type stubUserService struct {
	users []*domain.User
	stats domain.TaskStats
}

func (s *stubUserService) List(context.Context) ([]*domain.User, error) { return s.users, nil }

func (s *stubUserService) Profile(context.Context, *domain.User) (domain.TaskStats, error) {
	return s.stats, nil
}

type stubAdminService struct {
	users     []*domain.User
	actor     *domain.User
	role      domain.Role
	limit     int64
	eventsErr error
}

func (s *stubAdminService) Users(context.Context) ([]*domain.User, error) { return s.users, nil }

func (s *stubAdminService) EditRole(_ context.Context, actor *domain.User, userID int64, role domain.Role) (*domain.User, error) {
	s.actor, s.role = actor, role
	return &domain.User{ID: userID, Username: "x", Role: role}, nil
}

func (s *stubAdminService) TaskStatsByUser(context.Context) ([]domain.UserTaskStats, error) {
	return []domain.UserTaskStats{{Username: "a", Total: 2}}, nil
}

func (s *stubAdminService) AuthEvents(_ context.Context, _ int64, limit int64) ([]domain.AuthEvent, error) {
	s.limit = limit
	if s.eventsErr != nil {
		return nil, s.eventsErr
	}
	return []domain.AuthEvent{{Type: domain.AuthEventLoginSuccess}}, nil
}
