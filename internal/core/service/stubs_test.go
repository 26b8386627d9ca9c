package service

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/todoapp/todo-api/internal/core/domain"
)

// ---------------------------------------------------------------------------
// In-memory stub repositories shared by the service tests
// ---------------------------------------------------------------------------

type stubUserRepo struct {
	users  map[int64]*domain.User
	nextID int64
	stats  map[int64]domain.TaskStats
	err    error // returned by FindByID when set
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[int64]*domain.User), stats: make(map[int64]domain.TaskStats)}
}

func cloneUser(u *domain.User) *domain.User {
	clone := *u
	return &clone
}

func (r *stubUserRepo) add(name string, role domain.Role, hash string) *domain.User {
	r.nextID++
	u := &domain.User{ID: r.nextID, Username: name, Role: role, PasswordHash: hash}
	r.users[u.ID] = u
	return cloneUser(u)
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	for _, u := range r.users {
		if u.Username == user.Username {
			return nil, domain.ErrUserExists
		}
	}
	return r.add(user.Username, user.Role, user.PasswordHash), nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id int64) (*domain.User, error) {
	if r.err != nil {
		return nil, r.err
	}
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Username == username {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) List(context.Context) ([]*domain.User, error) {
	out := make([]*domain.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, cloneUser(u))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *stubUserRepo) UpdateRole(_ context.Context, id int64, role domain.Role) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	u.Role = role
	return cloneUser(u), nil
}

func (r *stubUserRepo) TaskStats(_ context.Context, userID int64) (domain.TaskStats, error) {
	return r.stats[userID], nil
}

func (r *stubUserRepo) TaskStatsByUser(context.Context) ([]domain.UserTaskStats, error) {
	return []domain.UserTaskStats{{Username: "bob", Total: 1, Todo: 1}}, nil
}

type stubRevoker struct {
	revoked map[string]time.Time
	err     error
}

func newStubRevoker() *stubRevoker { return &stubRevoker{revoked: make(map[string]time.Time)} }

func (r *stubRevoker) Revoke(_ context.Context, token string, until time.Time) error {
	if r.err != nil {
		return r.err
	}
	r.revoked[token] = until
	return nil
}

func (r *stubRevoker) IsRevoked(_ context.Context, token string) (bool, error) {
	if r.err != nil {
		return false, r.err
	}
	_, ok := r.revoked[token]
	return ok, nil
}

type recordingSink struct {
	mu     sync.Mutex
	events []domain.AuthEvent
}

func (s *recordingSink) Record(e domain.AuthEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, e)
}

func (s *recordingSink) types() []domain.AuthEventType {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.AuthEventType, 0, len(s.events))
	for _, e := range s.events {
		out = append(out, e.Type)
	}
	return out
}

type stubAuditLog struct {
	events []domain.AuthEvent
	limit  int64
}

func (l *stubAuditLog) Insert(_ context.Context, e domain.AuthEvent) error {
	l.events = append(l.events, e)
	return nil
}

func (l *stubAuditLog) ListByUser(_ context.Context, userID int64, limit int64) ([]domain.AuthEvent, error) {
	l.limit = limit
	var out []domain.AuthEvent
	for _, e := range l.events {
		if e.UserID == userID {
			out = append(out, e)
		}
	}
	return out, nil
}

type stubTaskRepo struct {
	tasks  map[int64]*domain.Task
	nextID int64
}

func newStubTaskRepo() *stubTaskRepo { return &stubTaskRepo{tasks: make(map[int64]*domain.Task)} }

func cloneTask(t *domain.Task) *domain.Task {
	clone := *t
	return &clone
}

func (r *stubTaskRepo) Create(_ context.Context, t *domain.Task) (*domain.Task, error) {
	r.nextID++
	clone := cloneTask(t)
	clone.ID = r.nextID
	r.tasks[clone.ID] = clone
	return cloneTask(clone), nil
}

func (r *stubTaskRepo) FindByID(_ context.Context, id, userID int64) (*domain.Task, error) {
	t, ok := r.tasks[id]
	if !ok || t.UserID != userID {
		return nil, domain.ErrTaskNotFound
	}
	return cloneTask(t), nil
}

func (r *stubTaskRepo) FindAnyByID(_ context.Context, id int64) (*domain.Task, error) {
	t, ok := r.tasks[id]
	if !ok {
		return nil, domain.ErrTaskNotFound
	}
	return cloneTask(t), nil
}

func (r *stubTaskRepo) ExistsByName(_ context.Context, userID int64, name string) (bool, error) {
	for _, t := range r.tasks {
		if t.UserID == userID && t.Name == name {
			return true, nil
		}
	}
	return false, nil
}

// List applies the same filters the real query uses.
func (r *stubTaskRepo) List(_ context.Context, f domain.TaskFilter) ([]*domain.Task, error) {
	var out []*domain.Task
	for _, t := range r.tasks {
		if t.UserID != f.UserID {
			continue
		}
		if f.Status != nil && t.Status != *f.Status {
			continue
		}
		if f.Priority != nil && t.Priority != *f.Priority {
			continue
		}
		if f.DueBefore != nil && t.DueDate.After(*f.DueBefore) {
			continue
		}
		out = append(out, cloneTask(t))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *stubTaskRepo) Update(_ context.Context, t *domain.Task) (*domain.Task, error) {
	if _, ok := r.tasks[t.ID]; !ok {
		return nil, domain.ErrTaskNotFound
	}
	r.tasks[t.ID] = cloneTask(t)
	return cloneTask(t), nil
}

func (r *stubTaskRepo) Delete(_ context.Context, id int64) error {
	if _, ok := r.tasks[id]; !ok {
		return domain.ErrTaskNotFound
	}
	delete(r.tasks, id)
	return nil
}

type stubSubTaskRepo struct {
	tasks  *stubTaskRepo
	subs   map[int64]*domain.SubTask
	nextID int64
}

func newStubSubTaskRepo(tasks *stubTaskRepo) *stubSubTaskRepo {
	return &stubSubTaskRepo{tasks: tasks, subs: make(map[int64]*domain.SubTask)}
}

func (r *stubSubTaskRepo) Create(ctx context.Context, s *domain.SubTask) (*domain.SubTask, error) {
	r.nextID++
	clone := *s
	clone.ID = r.nextID
	r.subs[clone.ID] = &clone
	return r.FindByID(ctx, clone.ID)
}

// FindByID fills UserID from the parent task like the SQL join does.
func (r *stubSubTaskRepo) FindByID(_ context.Context, id int64) (*domain.SubTask, error) {
	s, ok := r.subs[id]
	if !ok {
		return nil, domain.ErrSubTaskNotFound
	}
	clone := *s
	if t, ok := r.tasks.tasks[s.TaskID]; ok {
		clone.UserID = t.UserID
	}
	return &clone, nil
}

func (r *stubSubTaskRepo) Update(ctx context.Context, s *domain.SubTask) (*domain.SubTask, error) {
	if _, ok := r.subs[s.ID]; !ok {
		return nil, domain.ErrSubTaskNotFound
	}
	clone := *s
	r.subs[s.ID] = &clone
	return r.FindByID(ctx, s.ID)
}

func (r *stubSubTaskRepo) Delete(_ context.Context, id int64) error {
	if _, ok := r.subs[id]; !ok {
		return domain.ErrSubTaskNotFound
	}
	delete(r.subs, id)
	return nil
}

type stubCategoryRepo struct {
	cats      map[int64]*domain.Category
	nextID    int64
	createErr error
}

func newStubCategoryRepo() *stubCategoryRepo {
	return &stubCategoryRepo{cats: make(map[int64]*domain.Category)}
}

func (r *stubCategoryRepo) Create(_ context.Context, c *domain.Category) (*domain.Category, error) {
	if r.createErr != nil {
		return nil, r.createErr
	}
	r.nextID++
	clone := *c
	clone.ID = r.nextID
	if clone.Color == "" {
		clone.Color = domain.DefaultCategoryColor
	}
	r.cats[clone.ID] = &clone
	out := clone
	return &out, nil
}

func (r *stubCategoryRepo) FindByID(_ context.Context, id int64) (*domain.Category, error) {
	c, ok := r.cats[id]
	if !ok {
		return nil, domain.ErrCategoryNotFound
	}
	clone := *c
	return &clone, nil
}

func (r *stubCategoryRepo) ExistsByName(_ context.Context, name string) (bool, error) {
	for _, c := range r.cats {
		if c.Name == name {
			return true, nil
		}
	}
	return false, nil
}

func (r *stubCategoryRepo) List(context.Context) ([]*domain.Category, error) {
	out := make([]*domain.Category, 0, len(r.cats))
	for _, c := range r.cats {
		clone := *c
		out = append(out, &clone)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *stubCategoryRepo) Update(_ context.Context, c *domain.Category) (*domain.Category, error) {
	clone := *c
	r.cats[c.ID] = &clone
	out := clone
	return &out, nil
}

func (r *stubCategoryRepo) Delete(_ context.Context, id int64) error {
	if _, ok := r.cats[id]; !ok {
		return domain.ErrCategoryNotFound
	}
	delete(r.cats, id)
	return nil
}

type stubAttachmentRepo struct {
	items     map[int64]*domain.Attachment
	nextID    int64
	createErr error
}

func newStubAttachmentRepo() *stubAttachmentRepo {
	return &stubAttachmentRepo{items: make(map[int64]*domain.Attachment)}
}

func (r *stubAttachmentRepo) Create(_ context.Context, a *domain.Attachment) (*domain.Attachment, error) {
	if r.createErr != nil {
		return nil, r.createErr
	}
	r.nextID++
	clone := *a
	clone.ID = r.nextID
	r.items[clone.ID] = &clone
	out := clone
	return &out, nil
}

func (r *stubAttachmentRepo) FindByID(_ context.Context, id int64) (*domain.Attachment, error) {
	a, ok := r.items[id]
	if !ok {
		return nil, domain.ErrAttachmentNotFound
	}
	clone := *a
	return &clone, nil
}

func (r *stubAttachmentRepo) Delete(_ context.Context, id int64) error {
	if _, ok := r.items[id]; !ok {
		return domain.ErrAttachmentNotFound
	}
	delete(r.items, id)
	return nil
}

type stubStorage struct {
	objects map[string][]byte
	types   map[string]string
	putErr  error
	lastTTL time.Duration
}

func newStubStorage() *stubStorage {
	return &stubStorage{objects: make(map[string][]byte), types: make(map[string]string)}
}

func (s *stubStorage) Put(_ context.Context, key, contentType string, body io.Reader, _ int64) error {
	if s.putErr != nil {
		return s.putErr
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, body); err != nil {
		return err
	}
	s.objects[key] = buf.Bytes()
	s.types[key] = contentType
	return nil
}

func (s *stubStorage) Delete(_ context.Context, key string) error {
	if _, ok := s.objects[key]; !ok {
		return errors.New("no such key")
	}
	delete(s.objects, key)
	return nil
}

func (s *stubStorage) PresignGet(_ context.Context, key string, ttl time.Duration) (string, error) {
	s.lastTTL = ttl
	return "https://storage.example/" + key + "?signature=x", nil
}
