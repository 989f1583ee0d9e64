package repo

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/tkcmada/sample-todo-psql/internal/domain"
)

// MemoryOrgChartRepo is the database-free OrgChartRepo.
type MemoryOrgChartRepo struct {
	mu     sync.Mutex
	pages  []domain.TeamStructurePage
	nextID int64
}

func NewMemoryOrgChartRepo() *MemoryOrgChartRepo {
	return &MemoryOrgChartRepo{nextID: 1}
}

func (r *MemoryOrgChartRepo) GetAllPages(_ context.Context) ([]domain.TeamStructurePage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := []domain.TeamStructurePage{}
	for i := len(r.pages) - 1; i >= 0; i-- {
		if r.pages[i].IsActive {
			out = append(out, r.pages[i])
		}
	}
	return out, nil
}

func (r *MemoryOrgChartRepo) GetPageByID(_ context.Context, id int64) (domain.TeamStructurePage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.findActive(id)
	if i < 0 {
		return domain.TeamStructurePage{}, ErrPageNotFound
	}
	return r.pages[i], nil
}

func (r *MemoryOrgChartRepo) CreatePage(_ context.Context, title, description string) (domain.TeamStructurePage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	p := domain.TeamStructurePage{
		ID:          r.nextID,
		Title:       title,
		Description: description,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	r.nextID++
	r.pages = append(r.pages, p)
	return p, nil
}

func (r *MemoryOrgChartRepo) UpdatePage(_ context.Context, id int64, title, description *string) (domain.TeamStructurePage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.findActive(id)
	if i < 0 {
		return domain.TeamStructurePage{}, ErrPageNotFound
	}
	if title != nil {
		r.pages[i].Title = *title
	}
	if description != nil {
		r.pages[i].Description = *description
	}
	r.pages[i].UpdatedAt = time.Now().UTC()
	return r.pages[i], nil
}

func (r *MemoryOrgChartRepo) DeletePage(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.findActive(id)
	if i < 0 {
		return ErrPageNotFound
	}
	r.pages[i].IsActive = false
	r.pages[i].UpdatedAt = time.Now().UTC()
	return nil
}

func (r *MemoryOrgChartRepo) SaveChartData(_ context.Context, id int64, chartData json.RawMessage) (domain.TeamStructurePage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.findActive(id)
	if i < 0 {
		return domain.TeamStructurePage{}, ErrPageNotFound
	}
	r.pages[i].ChartData = append(json.RawMessage{}, chartData...)
	r.pages[i].UpdatedAt = time.Now().UTC()
	return r.pages[i], nil
}

func (r *MemoryOrgChartRepo) findActive(id int64) int {
	for i := range r.pages {
		if r.pages[i].ID == id && r.pages[i].IsActive {
			return i
		}
	}
	return -1
}
