package service

import (
	"context"
	"time"

	"github.com/tkcmada/sample-todo-psql/internal/cache"
	"github.com/tkcmada/sample-todo-psql/internal/domain"
	"github.com/tkcmada/sample-todo-psql/internal/repo"

	"golang.org/x/sync/singleflight"
)

// TodoService is a pass-through facade over TodoRepo so the transport
// layer depends on a stable surface regardless of which repository
// implementation was composed in. The only logic it adds is the
// optional Redis cache in front of GetAll; with a nil cache every
// method forwards verbatim.
type TodoService struct {
	repo  repo.TodoRepo
	cache *cache.TodoCache
	sf    singleflight.Group
}

// NewTodoService creates a TodoService. If c is nil, caching is disabled.
func NewTodoService(r repo.TodoRepo, c *cache.TodoCache) *TodoService {
	return &TodoService{repo: r, cache: c}
}

func (s *TodoService) GetAll(ctx context.Context) ([]domain.TodoWithAuditLogs, error) {
	if s.cache == nil {
		return s.repo.GetAll(ctx)
	}
	v, err, _ := s.sf.Do("list", func() (interface{}, error) {
		if list, err := s.cache.GetList(ctx); err == nil && list != nil {
			return list, nil
		}
		list, err := s.repo.GetAll(ctx)
		if err != nil {
			return nil, err
		}
		_ = s.cache.SetList(ctx, list)
		return list, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]domain.TodoWithAuditLogs), nil
}

func (s *TodoService) Create(ctx context.Context, title string, dueDate *time.Time) (domain.Todo, error) {
	t, err := s.repo.Create(ctx, title, dueDate)
	if err != nil {
		return domain.Todo{}, err
	}
	s.invalidateCache(ctx)
	return t, nil
}

func (s *TodoService) Update(ctx context.Context, id int64, patch domain.TodoPatch) (domain.Todo, error) {
	t, err := s.repo.Update(ctx, id, patch)
	if err != nil {
		return domain.Todo{}, err
	}
	s.invalidateCache(ctx)
	return t, nil
}

func (s *TodoService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidateCache(ctx)
	return nil
}

func (s *TodoService) Toggle(ctx context.Context, id int64) (domain.Todo, error) {
	t, err := s.repo.Toggle(ctx, id)
	if err != nil {
		return domain.Todo{}, err
	}
	s.invalidateCache(ctx)
	return t, nil
}

func (s *TodoService) invalidateCache(ctx context.Context) {
	if s.cache != nil {
		_ = s.cache.Invalidate(ctx)
	}
}
