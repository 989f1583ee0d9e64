package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/tkcmada/sample-todo-psql/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrUserNotFound is returned when a user id does not exist. Users are
// plain lookup-style CRUD: no soft delete, no audit trail.
var ErrUserNotFound = errors.New("user not found")

// UserPatch carries the optional fields a user update may change.
// Apps / Roles replace the full entitlement set when non-nil.
type UserPatch struct {
	Name  *string
	Email *string
	Apps  []string
	Roles []domain.AppRole
}

type UserRepo interface {
	GetAll(ctx context.Context) ([]domain.User, error)
	GetByID(ctx context.Context, id int64) (domain.User, error)
	Create(ctx context.Context, name, email string, apps []string, roles []domain.AppRole) (domain.User, error)
	Update(ctx context.Context, id int64, patch UserPatch) (domain.User, error)
	Delete(ctx context.Context, id int64) error
}

// PGUserRepo implements UserRepo with Postgres.
type PGUserRepo struct {
	db *pgxpool.Pool
}

func NewPGUserRepo(db *pgxpool.Pool) *PGUserRepo {
	return &PGUserRepo{db: db}
}

func (r *PGUserRepo) GetAll(ctx context.Context) ([]domain.User, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, name, email, created_at, updated_at
		FROM users ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var list []domain.User
	index := make(map[int64]int)
	var ids []int64
	for rows.Next() {
		var u domain.User
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		u.Apps = []string{}
		u.Roles = []domain.AppRole{}
		index[u.ID] = len(list)
		ids = append(ids, u.ID)
		list = append(list, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	if len(ids) == 0 {
		return []domain.User{}, nil
	}

	appRows, err := r.db.Query(ctx, `
		SELECT user_id, app_name FROM user_apps
		WHERE user_id = ANY($1) ORDER BY id`, ids)
	if err != nil {
		return nil, fmt.Errorf("list user apps: %w", err)
	}
	defer appRows.Close()
	for appRows.Next() {
		var userID int64
		var app string
		if err := appRows.Scan(&userID, &app); err != nil {
			return nil, fmt.Errorf("scan user app: %w", err)
		}
		i := index[userID]
		list[i].Apps = append(list[i].Apps, app)
	}
	if err := appRows.Err(); err != nil {
		return nil, fmt.Errorf("list user apps: %w", err)
	}

	roleRows, err := r.db.Query(ctx, `
		SELECT user_id, app_name, role FROM user_roles
		WHERE user_id = ANY($1) ORDER BY id`, ids)
	if err != nil {
		return nil, fmt.Errorf("list user roles: %w", err)
	}
	defer roleRows.Close()
	for roleRows.Next() {
		var userID int64
		var ar domain.AppRole
		if err := roleRows.Scan(&userID, &ar.AppName, &ar.Role); err != nil {
			return nil, fmt.Errorf("scan user role: %w", err)
		}
		i := index[userID]
		list[i].Roles = append(list[i].Roles, ar)
	}
	if err := roleRows.Err(); err != nil {
		return nil, fmt.Errorf("list user roles: %w", err)
	}
	return list, nil
}

func (r *PGUserRepo) GetByID(ctx context.Context, id int64) (domain.User, error) {
	var u domain.User
	err := r.db.QueryRow(ctx, `
		SELECT id, name, email, created_at, updated_at
		FROM users WHERE id = $1`, id).
		Scan(&u.ID, &u.Name, &u.Email, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.User{}, ErrUserNotFound
	}
	if err != nil {
		return domain.User{}, fmt.Errorf("get user: %w", err)
	}
	if u.Apps, u.Roles, err = r.entitlements(ctx, id); err != nil {
		return domain.User{}, err
	}
	return u, nil
}

func (r *PGUserRepo) Create(ctx context.Context, name, email string, apps []string, roles []domain.AppRole) (domain.User, error) {
	var out domain.User
	err := pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		var u domain.User
		err := tx.QueryRow(ctx, `
			INSERT INTO users (name, email)
			VALUES ($1, $2)
			RETURNING id, name, email, created_at, updated_at`, name, email).
			Scan(&u.ID, &u.Name, &u.Email, &u.CreatedAt, &u.UpdatedAt)
		if err != nil {
			return fmt.Errorf("insert user: %w", err)
		}
		if err := replaceEntitlements(ctx, tx, u.ID, apps, roles); err != nil {
			return err
		}
		u.Apps = append([]string{}, apps...)
		u.Roles = append([]domain.AppRole{}, roles...)
		out = u
		return nil
	})
	if err != nil {
		return domain.User{}, err
	}
	return out, nil
}

func (r *PGUserRepo) Update(ctx context.Context, id int64, patch UserPatch) (domain.User, error) {
	var out domain.User
	err := pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		var u domain.User
		err := tx.QueryRow(ctx, `
			SELECT id, name, email, created_at, updated_at
			FROM users WHERE id = $1 FOR UPDATE`, id).
			Scan(&u.ID, &u.Name, &u.Email, &u.CreatedAt, &u.UpdatedAt)
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrUserNotFound
		}
		if err != nil {
			return fmt.Errorf("get user: %w", err)
		}
		if patch.Name != nil {
			u.Name = *patch.Name
		}
		if patch.Email != nil {
			u.Email = *patch.Email
		}
		err = tx.QueryRow(ctx, `
			UPDATE users SET name = $2, email = $3, updated_at = NOW()
			WHERE id = $1
			RETURNING updated_at`, id, u.Name, u.Email).Scan(&u.UpdatedAt)
		if err != nil {
			return fmt.Errorf("update user: %w", err)
		}
		if patch.Apps != nil || patch.Roles != nil {
			if err := clearEntitlements(ctx, tx, id); err != nil {
				return err
			}
			if err := replaceEntitlements(ctx, tx, id, patch.Apps, patch.Roles); err != nil {
				return err
			}
			u.Apps = append([]string{}, patch.Apps...)
			u.Roles = append([]domain.AppRole{}, patch.Roles...)
		} else if u.Apps, u.Roles, err = entitlementsTx(ctx, tx, id); err != nil {
			return err
		}
		out = u
		return nil
	})
	if err != nil {
		return domain.User{}, err
	}
	return out, nil
}

func (r *PGUserRepo) Delete(ctx context.Context, id int64) error {
	return pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		if err := clearEntitlements(ctx, tx, id); err != nil {
			return err
		}
		tag, err := tx.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
		if err != nil {
			return fmt.Errorf("delete user: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return ErrUserNotFound
		}
		return nil
	})
}

type queryer interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

func (r *PGUserRepo) entitlements(ctx context.Context, id int64) ([]string, []domain.AppRole, error) {
	return loadEntitlements(ctx, r.db, id)
}

func entitlementsTx(ctx context.Context, tx pgx.Tx, id int64) ([]string, []domain.AppRole, error) {
	return loadEntitlements(ctx, tx, id)
}

func loadEntitlements(ctx context.Context, q queryer, id int64) ([]string, []domain.AppRole, error) {
	apps := []string{}
	rows, err := q.Query(ctx, `SELECT app_name FROM user_apps WHERE user_id = $1 ORDER BY id`, id)
	if err != nil {
		return nil, nil, fmt.Errorf("list user apps: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var app string
		if err := rows.Scan(&app); err != nil {
			return nil, nil, fmt.Errorf("scan user app: %w", err)
		}
		apps = append(apps, app)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("list user apps: %w", err)
	}

	roles := []domain.AppRole{}
	roleRows, err := q.Query(ctx, `SELECT app_name, role FROM user_roles WHERE user_id = $1 ORDER BY id`, id)
	if err != nil {
		return nil, nil, fmt.Errorf("list user roles: %w", err)
	}
	defer roleRows.Close()
	for roleRows.Next() {
		var ar domain.AppRole
		if err := roleRows.Scan(&ar.AppName, &ar.Role); err != nil {
			return nil, nil, fmt.Errorf("scan user role: %w", err)
		}
		roles = append(roles, ar)
	}
	if err := roleRows.Err(); err != nil {
		return nil, nil, fmt.Errorf("list user roles: %w", err)
	}
	return apps, roles, nil
}

func clearEntitlements(ctx context.Context, tx pgx.Tx, id int64) error {
	if _, err := tx.Exec(ctx, `DELETE FROM user_apps WHERE user_id = $1`, id); err != nil {
		return fmt.Errorf("clear user apps: %w", err)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM user_roles WHERE user_id = $1`, id); err != nil {
		return fmt.Errorf("clear user roles: %w", err)
	}
	return nil
}

func replaceEntitlements(ctx context.Context, tx pgx.Tx, id int64, apps []string, roles []domain.AppRole) error {
	for _, app := range apps {
		if _, err := tx.Exec(ctx,
			`INSERT INTO user_apps (user_id, app_name) VALUES ($1, $2)`, id, app); err != nil {
			return fmt.Errorf("insert user app: %w", err)
		}
	}
	for _, ar := range roles {
		if _, err := tx.Exec(ctx,
			`INSERT INTO user_roles (user_id, app_name, role) VALUES ($1, $2, $3)`, id, ar.AppName, ar.Role); err != nil {
			return fmt.Errorf("insert user role: %w", err)
		}
	}
	return nil
}
