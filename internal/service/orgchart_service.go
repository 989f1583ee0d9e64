package service

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/tkcmada/sample-todo-psql/internal/domain"
	"github.com/tkcmada/sample-todo-psql/internal/repo"
)

// OrgChartService fronts the org-chart page repository.
type OrgChartService struct {
	repo repo.OrgChartRepo
}

func NewOrgChartService(r repo.OrgChartRepo) *OrgChartService {
	return &OrgChartService{repo: r}
}

func (s *OrgChartService) GetAllPages(ctx context.Context) ([]domain.TeamStructurePage, error) {
	return s.repo.GetAllPages(ctx)
}

func (s *OrgChartService) GetPageByID(ctx context.Context, id int64) (domain.TeamStructurePage, error) {
	return s.repo.GetPageByID(ctx, id)
}

func (s *OrgChartService) CreatePage(ctx context.Context, title, description string) (domain.TeamStructurePage, error) {
	return s.repo.CreatePage(ctx, strings.TrimSpace(title), strings.TrimSpace(description))
}

func (s *OrgChartService) UpdatePage(ctx context.Context, id int64, title, description *string) (domain.TeamStructurePage, error) {
	if title != nil {
		trimmed := strings.TrimSpace(*title)
		title = &trimmed
	}
	return s.repo.UpdatePage(ctx, id, title, description)
}

func (s *OrgChartService) DeletePage(ctx context.Context, id int64) error {
	return s.repo.DeletePage(ctx, id)
}

func (s *OrgChartService) SaveChartData(ctx context.Context, id int64, chartData json.RawMessage) (domain.TeamStructurePage, error) {
	return s.repo.SaveChartData(ctx, id, chartData)
}
