package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/tkcmada/sample-todo-psql/internal/domain"
	"github.com/tkcmada/sample-todo-psql/internal/repo"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// The service is a pass-through facade; these tests pin that it adds
// nothing to the repository contract when the cache is disabled.

func TestTodoServicePassThrough(t *testing.T) {
	svc := NewTodoService(repo.NewMemoryTodoRepo(), nil)
	ctx := context.Background()

	due := time.Date(2026, time.June, 1, 0, 0, 0, 0, time.UTC)
	created, err := svc.Create(ctx, "Buy milk", &due)
	require.NoError(t, err)
	assert.False(t, created.DoneFlag)

	toggled, err := svc.Toggle(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, toggled.DoneFlag)

	title := "Buy oat milk"
	updated, err := svc.Update(ctx, created.ID, domain.TodoPatch{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, "Buy oat milk", updated.Title)

	list, err := svc.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Len(t, list[0].AuditLogs, 3)

	require.NoError(t, svc.Delete(ctx, created.ID))
	list, err = svc.GetAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestTodoServiceForwardsNotFound(t *testing.T) {
	svc := NewTodoService(repo.NewMemoryTodoRepo(), nil)
	ctx := context.Background()

	_, err := svc.Toggle(ctx, 404)
	assert.ErrorIs(t, err, repo.ErrNotFound)

	title := "x"
	_, err = svc.Update(ctx, 404, domain.TodoPatch{Title: &title})
	assert.ErrorIs(t, err, repo.ErrNotFound)

	// Delete stays forgiving through the facade.
	assert.NoError(t, svc.Delete(ctx, 404))
}

type failingRepo struct {
	repo.TodoRepo
}

var errStorage = errors.New("storage down")

func (failingRepo) GetAll(context.Context) ([]domain.TodoWithAuditLogs, error) {
	return nil, errStorage
}

func TestTodoServicePropagatesStorageFailure(t *testing.T) {
	svc := NewTodoService(failingRepo{}, nil)
	_, err := svc.GetAll(context.Background())
	assert.ErrorIs(t, err, errStorage)
}
