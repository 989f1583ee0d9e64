package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/tkcmada/sample-todo-psql/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound is returned by Update and Toggle when the target id does
// not exist or is soft-deleted. Callers cannot distinguish the two
// cases and should not need to, hence the combined message.
var ErrNotFound = errors.New("Todo not found or has been deleted")

// TodoRepo is the storage contract for todos. Every mutation appends
// exactly one audit row as part of the same unit of work; Delete is
// idempotent and never reports a missing row as an error.
type TodoRepo interface {
	GetAll(ctx context.Context) ([]domain.TodoWithAuditLogs, error)
	Create(ctx context.Context, title string, dueDate *time.Time) (domain.Todo, error)
	Update(ctx context.Context, id int64, patch domain.TodoPatch) (domain.Todo, error)
	Delete(ctx context.Context, id int64) error
	Toggle(ctx context.Context, id int64) (domain.Todo, error)
}

// PGTodoRepo implements TodoRepo on Postgres. Each mutation runs in a
// single transaction: the existing row is read with FOR UPDATE, the
// todo write and the audit insert then commit together, so a crash can
// never leave a mutation without its audit entry and two writers to
// the same id are serialized instead of last-write-wins.
type PGTodoRepo struct {
	db *pgxpool.Pool
}

func NewPGTodoRepo(db *pgxpool.Pool) *PGTodoRepo {
	return &PGTodoRepo{db: db}
}

const todoColumns = `id, title, due_date, done_flag, created_at, updated_at, deleted_at`

func scanTodo(row pgx.Row) (domain.Todo, error) {
	var t domain.Todo
	err := row.Scan(&t.ID, &t.Title, &t.DueDate, &t.DoneFlag,
		&t.CreatedAt, &t.UpdatedAt, &t.DeletedAt)
	return t, err
}

func (r *PGTodoRepo) GetAll(ctx context.Context) ([]domain.TodoWithAuditLogs, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+todoColumns+`
		FROM todos WHERE deleted_at IS NULL
		ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list todos: %w", err)
	}
	defer rows.Close()

	var list []domain.TodoWithAuditLogs
	var ids []int64
	index := make(map[int64]int)
	for rows.Next() {
		t, err := scanTodo(rows)
		if err != nil {
			return nil, fmt.Errorf("scan todo: %w", err)
		}
		index[t.ID] = len(list)
		ids = append(ids, t.ID)
		list = append(list, domain.TodoWithAuditLogs{Todo: t})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list todos: %w", err)
	}
	if len(ids) == 0 {
		return []domain.TodoWithAuditLogs{}, nil
	}

	logRows, err := r.db.Query(ctx, `
		SELECT id, todo_id, action, old_values, new_values, created_at
		FROM audit_logs WHERE todo_id = ANY($1)
		ORDER BY created_at DESC, id DESC`, ids)
	if err != nil {
		return nil, fmt.Errorf("list audit logs: %w", err)
	}
	defer logRows.Close()
	for logRows.Next() {
		var l domain.AuditLog
		if err := logRows.Scan(&l.ID, &l.TodoID, &l.Action,
			&l.OldValues, &l.NewValues, &l.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan audit log: %w", err)
		}
		i := index[l.TodoID]
		list[i].AuditLogs = append(list[i].AuditLogs, l)
	}
	if err := logRows.Err(); err != nil {
		return nil, fmt.Errorf("list audit logs: %w", err)
	}
	return list, nil
}

func (r *PGTodoRepo) Create(ctx context.Context, title string, dueDate *time.Time) (domain.Todo, error) {
	var out domain.Todo
	err := pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		t, err := scanTodo(tx.QueryRow(ctx, `
			INSERT INTO todos (title, due_date)
			VALUES ($1, $2)
			RETURNING `+todoColumns, title, dueDate))
		if err != nil {
			return fmt.Errorf("insert todo: %w", err)
		}
		if err := appendAudit(ctx, tx, t.ID, domain.ActionCreate, nil, domain.SnapshotTodo(t)); err != nil {
			return err
		}
		out = t
		return nil
	})
	if err != nil {
		return domain.Todo{}, err
	}
	return out, nil
}

func (r *PGTodoRepo) Update(ctx context.Context, id int64, patch domain.TodoPatch) (domain.Todo, error) {
	var out domain.Todo
	err := pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		existing, err := lockTodo(ctx, tx, id)
		if err != nil {
			return err
		}
		if existing.DeletedAt != nil {
			return ErrNotFound
		}

		next := existing
		if patch.Title != nil {
			next.Title = *patch.Title
		}
		if patch.DueDateSet {
			next.DueDate = patch.DueDate
		}
		updated, err := scanTodo(tx.QueryRow(ctx, `
			UPDATE todos SET title = $2, due_date = $3, updated_at = NOW()
			WHERE id = $1
			RETURNING `+todoColumns, id, next.Title, next.DueDate))
		if err != nil {
			return fmt.Errorf("update todo: %w", err)
		}
		if err := appendAudit(ctx, tx, id, domain.ActionUpdate,
			domain.SnapshotTodo(existing), domain.SnapshotTodo(updated)); err != nil {
			return err
		}
		out = updated
		return nil
	})
	if err != nil {
		return domain.Todo{}, err
	}
	return out, nil
}

// Delete soft-deletes the row. Missing and already-deleted ids are
// vacuously successful and write nothing, not even an audit row.
// updated_at is deliberately left alone; delete only sets deleted_at.
func (r *PGTodoRepo) Delete(ctx context.Context, id int64) error {
	return pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		existing, err := lockTodo(ctx, tx, id)
		if errors.Is(err, ErrNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		if existing.DeletedAt != nil {
			return nil
		}
		if _, err := tx.Exec(ctx,
			`UPDATE todos SET deleted_at = NOW() WHERE id = $1`, id); err != nil {
			return fmt.Errorf("soft delete todo: %w", err)
		}
		return appendAudit(ctx, tx, id, domain.ActionDelete, domain.SnapshotTodo(existing), nil)
	})
}

func (r *PGTodoRepo) Toggle(ctx context.Context, id int64) (domain.Todo, error) {
	var out domain.Todo
	err := pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		existing, err := lockTodo(ctx, tx, id)
		if err != nil {
			return err
		}
		if existing.DeletedAt != nil {
			return ErrNotFound
		}
		updated, err := scanTodo(tx.QueryRow(ctx, `
			UPDATE todos SET done_flag = NOT done_flag, updated_at = NOW()
			WHERE id = $1
			RETURNING `+todoColumns, id))
		if err != nil {
			return fmt.Errorf("toggle todo: %w", err)
		}
		if err := appendAudit(ctx, tx, id, domain.ActionToggle,
			domain.SnapshotToggle(existing.DoneFlag), domain.SnapshotToggle(updated.DoneFlag)); err != nil {
			return err
		}
		out = updated
		return nil
	})
	if err != nil {
		return domain.Todo{}, err
	}
	return out, nil
}

// lockTodo reads the row (soft-deleted included) with FOR UPDATE so
// the caller's read-modify-write is serialized for the transaction.
func lockTodo(ctx context.Context, tx pgx.Tx, id int64) (domain.Todo, error) {
	t, err := scanTodo(tx.QueryRow(ctx, `
		SELECT `+todoColumns+` FROM todos WHERE id = $1 FOR UPDATE`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Todo{}, ErrNotFound
	}
	if err != nil {
		return domain.Todo{}, fmt.Errorf("get todo: %w", err)
	}
	return t, nil
}

func appendAudit(ctx context.Context, tx pgx.Tx, todoID int64, action string, oldValues, newValues []byte) error {
	_, err := tx.Exec(ctx, `
		INSERT INTO audit_logs (todo_id, action, old_values, new_values)
		VALUES ($1, $2, $3, $4)`, todoID, action, oldValues, newValues)
	if err != nil {
		return fmt.Errorf("insert audit log: %w", err)
	}
	return nil
}
