package repo

import (
	"context"
	"sync"
	"time"

	"github.com/tkcmada/sample-todo-psql/internal/domain"
)

// MemoryTodoRepo is a drop-in TodoRepo without a database, used for
// local runs and tests. Same soft-delete gate, same one-audit-row-per-
// mutation rule, same error values as PGTodoRepo; the mutex makes each
// operation's read-modify-write atomic in-process.
type MemoryTodoRepo struct {
	mu         sync.Mutex
	todos      []domain.Todo
	logs       []domain.AuditLog
	nextTodoID int64
	nextLogID  int64
}

func NewMemoryTodoRepo() *MemoryTodoRepo {
	return &MemoryTodoRepo{nextTodoID: 1, nextLogID: 1}
}

func (r *MemoryTodoRepo) GetAll(_ context.Context) ([]domain.TodoWithAuditLogs, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := []domain.TodoWithAuditLogs{}
	// todos are appended in creation order; walk backwards for
	// created_at DESC.
	for i := len(r.todos) - 1; i >= 0; i-- {
		t := r.todos[i]
		if t.DeletedAt != nil {
			continue
		}
		out = append(out, domain.TodoWithAuditLogs{
			Todo:      t,
			AuditLogs: r.logsFor(t.ID),
		})
	}
	return out, nil
}

// logsFor returns the audit entries for id, newest first. Caller holds mu.
func (r *MemoryTodoRepo) logsFor(id int64) []domain.AuditLog {
	var logs []domain.AuditLog
	for i := len(r.logs) - 1; i >= 0; i-- {
		if r.logs[i].TodoID == id {
			logs = append(logs, r.logs[i])
		}
	}
	return logs
}

func (r *MemoryTodoRepo) Create(_ context.Context, title string, dueDate *time.Time) (domain.Todo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	t := domain.Todo{
		ID:        r.nextTodoID,
		Title:     title,
		DueDate:   dueDate,
		DoneFlag:  false,
		CreatedAt: now,
		UpdatedAt: now,
	}
	r.nextTodoID++
	r.todos = append(r.todos, t)
	r.append(t.ID, domain.ActionCreate, nil, domain.SnapshotTodo(t))
	return t, nil
}

func (r *MemoryTodoRepo) Update(_ context.Context, id int64, patch domain.TodoPatch) (domain.Todo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.find(id)
	if i < 0 || r.todos[i].DeletedAt != nil {
		return domain.Todo{}, ErrNotFound
	}
	existing := r.todos[i]

	next := existing
	if patch.Title != nil {
		next.Title = *patch.Title
	}
	if patch.DueDateSet {
		next.DueDate = patch.DueDate
	}
	next.UpdatedAt = time.Now().UTC()
	r.todos[i] = next
	r.append(id, domain.ActionUpdate, domain.SnapshotTodo(existing), domain.SnapshotTodo(next))
	return next, nil
}

func (r *MemoryTodoRepo) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.find(id)
	if i < 0 || r.todos[i].DeletedAt != nil {
		// Forgiving delete: missing and already-deleted rows are
		// vacuously successful, with no audit entry.
		return nil
	}
	existing := r.todos[i]
	now := time.Now().UTC()
	r.todos[i].DeletedAt = &now
	r.append(id, domain.ActionDelete, domain.SnapshotTodo(existing), nil)
	return nil
}

func (r *MemoryTodoRepo) Toggle(_ context.Context, id int64) (domain.Todo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.find(id)
	if i < 0 || r.todos[i].DeletedAt != nil {
		return domain.Todo{}, ErrNotFound
	}
	before := r.todos[i].DoneFlag
	r.todos[i].DoneFlag = !before
	r.todos[i].UpdatedAt = time.Now().UTC()
	r.append(id, domain.ActionToggle, domain.SnapshotToggle(before), domain.SnapshotToggle(!before))
	return r.todos[i], nil
}

func (r *MemoryTodoRepo) find(id int64) int {
	for i := range r.todos {
		if r.todos[i].ID == id {
			return i
		}
	}
	return -1
}

func (r *MemoryTodoRepo) append(todoID int64, action string, oldValues, newValues []byte) {
	r.logs = append(r.logs, domain.AuditLog{
		ID:        r.nextLogID,
		TodoID:    todoID,
		Action:    action,
		OldValues: oldValues,
		NewValues: newValues,
		CreatedAt: time.Now().UTC(),
	})
	r.nextLogID++
}
