package repo

import (
	"context"
	"sync"
	"time"

	"github.com/tkcmada/sample-todo-psql/internal/domain"
)

// MemoryUserRepo is the database-free UserRepo used for local runs and
// tests. It starts seeded with a small fixture set so the admin UI has
// something to render out of the box.
type MemoryUserRepo struct {
	mu     sync.Mutex
	users  []domain.User
	nextID int64
}

func NewMemoryUserRepo() *MemoryUserRepo {
	r := &MemoryUserRepo{nextID: 1}
	seed := []struct {
		name  string
		email string
		apps  []string
		roles []domain.AppRole
	}{
		{"john_doe", "john@example.com", []string{"app1", "app2", "app3"},
			[]domain.AppRole{{AppName: "app1", Role: "admin"}, {AppName: "app2", Role: "user"}}},
		{"jane_smith", "jane@example.com", []string{"app2", "app4"},
			[]domain.AppRole{{AppName: "app2", Role: "user"}, {AppName: "app4", Role: "moderator"}}},
		{"bob_wilson", "bob@example.com", []string{"app1", "app3", "app5"},
			[]domain.AppRole{{AppName: "app1", Role: "user"}}},
		{"alice_brown", "alice@example.com", []string{"app1", "app2", "app4", "app5"},
			[]domain.AppRole{{AppName: "app1", Role: "admin"}, {AppName: "app5", Role: "super_admin"}}},
		{"charlie_davis", "charlie@example.com", []string{"app3"},
			[]domain.AppRole{{AppName: "app3", Role: "user"}, {AppName: "app3", Role: "guest"}}},
	}
	for i, s := range seed {
		created := time.Date(2024, 1, i+1, 0, 0, 0, 0, time.UTC)
		r.users = append(r.users, domain.User{
			ID:        r.nextID,
			Name:      s.name,
			Email:     s.email,
			Apps:      s.apps,
			Roles:     s.roles,
			CreatedAt: created,
			UpdatedAt: created,
		})
		r.nextID++
	}
	return r
}

func (r *MemoryUserRepo) GetAll(_ context.Context) ([]domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := []domain.User{}
	for i := len(r.users) - 1; i >= 0; i-- {
		out = append(out, cloneUser(r.users[i]))
	}
	return out, nil
}

func (r *MemoryUserRepo) GetByID(_ context.Context, id int64) (domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.find(id)
	if i < 0 {
		return domain.User{}, ErrUserNotFound
	}
	return cloneUser(r.users[i]), nil
}

func (r *MemoryUserRepo) Create(_ context.Context, name, email string, apps []string, roles []domain.AppRole) (domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	u := domain.User{
		ID:        r.nextID,
		Name:      name,
		Email:     email,
		Apps:      append([]string{}, apps...),
		Roles:     append([]domain.AppRole{}, roles...),
		CreatedAt: now,
		UpdatedAt: now,
	}
	r.nextID++
	r.users = append(r.users, u)
	return cloneUser(u), nil
}

func (r *MemoryUserRepo) Update(_ context.Context, id int64, patch UserPatch) (domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.find(id)
	if i < 0 {
		return domain.User{}, ErrUserNotFound
	}
	u := r.users[i]
	if patch.Name != nil {
		u.Name = *patch.Name
	}
	if patch.Email != nil {
		u.Email = *patch.Email
	}
	if patch.Apps != nil || patch.Roles != nil {
		u.Apps = append([]string{}, patch.Apps...)
		u.Roles = append([]domain.AppRole{}, patch.Roles...)
	}
	u.UpdatedAt = time.Now().UTC()
	r.users[i] = u
	return cloneUser(u), nil
}

func (r *MemoryUserRepo) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.find(id)
	if i < 0 {
		return ErrUserNotFound
	}
	r.users = append(r.users[:i], r.users[i+1:]...)
	return nil
}

func (r *MemoryUserRepo) find(id int64) int {
	for i := range r.users {
		if r.users[i].ID == id {
			return i
		}
	}
	return -1
}

func cloneUser(u domain.User) domain.User {
	u.Apps = append([]string{}, u.Apps...)
	u.Roles = append([]domain.AppRole{}, u.Roles...)
	return u
}
