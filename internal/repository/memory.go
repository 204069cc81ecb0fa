package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"todolist-api/internal/models"
)

// MemoryStore keeps users and tasks in process memory. It backs both
// repositories for STORE_DRIVER=memory and for tests.
type MemoryStore struct {
	mu         sync.RWMutex
	users      map[int64]models.User
	tasks      map[int64]models.Task
	nextUserID int64
	nextTaskID int64
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users: make(map[int64]models.User),
		tasks: make(map[int64]models.Task),
	}
}

func (s *MemoryStore) Users() UserRepository { return memoryUserRepo{s} }
func (s *MemoryStore) Tasks() TaskRepository { return memoryTaskRepo{s} }

type memoryUserRepo struct{ s *MemoryStore }

func (r memoryUserRepo) FindByEmail(_ context.Context, email string) (*models.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, u := range r.s.users {
		if u.Email == email {
			u := u
			return &u, nil
		}
	}
	return nil, nil
}

func (r memoryUserRepo) FindByID(_ context.Context, id int64) (*models.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (r memoryUserRepo) Create(_ context.Context, user *models.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.Email == user.Email {
			return ErrEmailTaken
		}
	}
	r.s.nextUserID++
	user.ID = r.s.nextUserID
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}
	r.s.users[user.ID] = *user
	return nil
}

func (r memoryUserRepo) Count(_ context.Context) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return len(r.s.users), nil
}

type memoryTaskRepo struct{ s *MemoryStore }

func (r memoryTaskRepo) ListByUser(_ context.Context, userID int64, filter models.TaskFilter) ([]models.Task, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	tasks := []models.Task{}
	for _, t := range r.s.tasks {
		if t.UserID == userID && filter.Matches(t) {
			tasks = append(tasks, cloneTask(t))
		}
	}
	sort.Slice(tasks, func(i, j int) bool {
		if !tasks[i].CreatedAt.Equal(tasks[j].CreatedAt) {
			return tasks[i].CreatedAt.After(tasks[j].CreatedAt)
		}
		return tasks[i].ID > tasks[j].ID
	})
	return tasks, nil
}

func (r memoryTaskRepo) FindByID(_ context.Context, id, userID int64) (*models.Task, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	t, ok := r.s.owned(id, userID)
	if !ok {
		return nil, nil
	}
	t = cloneTask(t)
	return &t, nil
}

func (r memoryTaskRepo) Create(_ context.Context, task *models.Task) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.nextTaskID++
	task.ID = r.s.nextTaskID
	r.s.tasks[task.ID] = cloneTask(*task)
	return nil
}

func (r memoryTaskRepo) Update(_ context.Context, id, userID int64, upd models.TaskUpdate, now time.Time) (*models.Task, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	t, ok := r.s.owned(id, userID)
	if !ok {
		return nil, nil
	}
	t.Title = upd.Title
	t.Description = cloneString(upd.Description)
	t.SetCompleted(upd.IsCompleted, now)
	r.s.tasks[id] = t
	t = cloneTask(t)
	return &t, nil
}

func (r memoryTaskRepo) Toggle(_ context.Context, id, userID int64, now time.Time) (*models.Task, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	t, ok := r.s.owned(id, userID)
	if !ok {
		return nil, nil
	}
	t.Toggle(now)
	r.s.tasks[id] = t
	t = cloneTask(t)
	return &t, nil
}

func (r memoryTaskRepo) Delete(_ context.Context, id, userID int64) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.owned(id, userID); !ok {
		return false, nil
	}
	delete(r.s.tasks, id)
	return true, nil
}

func (r memoryTaskRepo) Statistics(_ context.Context, userID int64) (models.TaskStatistics, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var stats models.TaskStatistics
	for _, t := range r.s.tasks {
		if t.UserID != userID {
			continue
		}
		stats.Total++
		if t.IsCompleted {
			stats.Completed++
		}
	}
	stats.Pending = stats.Total - stats.Completed
	return stats, nil
}

// owned must be called with s.mu held.
func (s *MemoryStore) owned(id, userID int64) (models.Task, bool) {
	t, ok := s.tasks[id]
	if !ok || t.UserID != userID {
		return models.Task{}, false
	}
	return t, true
}

// cloneTask detaches the pointer fields so callers never share memory with
// the store.
func cloneTask(t models.Task) models.Task {
	t.Description = cloneString(t.Description)
	if t.CompletedAt != nil {
		ts := *t.CompletedAt
		t.CompletedAt = &ts
	}
	return t
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

var (
	_ UserRepository = memoryUserRepo{}
	_ TaskRepository = memoryTaskRepo{}
)
