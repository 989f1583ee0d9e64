package repo

import (
	"context"
	"testing"

	"github.com/tkcmada/sample-todo-psql/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryUserRepoSeed(t *testing.T) {
	r := NewMemoryUserRepo()

	users, err := r.GetAll(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 5)
	// Newest first: charlie_davis was seeded last.
	assert.Equal(t, "charlie_davis", users[0].Name)
	assert.Equal(t, "john_doe", users[4].Name)
	assert.Equal(t, []string{"app1", "app2", "app3"}, users[4].Apps)
}

func TestMemoryUserRepoCRUD(t *testing.T) {
	r := NewMemoryUserRepo()
	ctx := context.Background()

	created, err := r.Create(ctx, "dana", "dana@example.com",
		[]string{"app1"}, []domain.AppRole{{AppName: "app1", Role: "user"}})
	require.NoError(t, err)
	assert.NotZero(t, created.ID)

	got, err := r.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "dana", got.Name)
	assert.Equal(t, []string{"app1"}, got.Apps)

	name := "dana_updated"
	updated, err := r.Update(ctx, created.ID, UserPatch{
		Name: &name,
		Apps: []string{"app1", "app2"},
		Roles: []domain.AppRole{
			{AppName: "app1", Role: "admin"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "dana_updated", updated.Name)
	assert.Equal(t, "dana@example.com", updated.Email)
	assert.Equal(t, []string{"app1", "app2"}, updated.Apps)
	assert.Equal(t, []domain.AppRole{{AppName: "app1", Role: "admin"}}, updated.Roles)

	require.NoError(t, r.Delete(ctx, created.ID))
	_, err = r.GetByID(ctx, created.ID)
	assert.ErrorIs(t, err, ErrUserNotFound)
	assert.ErrorIs(t, r.Delete(ctx, created.ID), ErrUserNotFound)
}
