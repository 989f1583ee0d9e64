package repo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/tkcmada/sample-todo-psql/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrPageNotFound is returned when an org-chart page id does not exist
// or has been deactivated.
var ErrPageNotFound = errors.New("page not found")

// OrgChartRepo stores the experimental org-chart pages. Pages use the
// is_active flag as their logical delete; chart_data stays an opaque
// JSON blob the visual editor round-trips.
type OrgChartRepo interface {
	GetAllPages(ctx context.Context) ([]domain.TeamStructurePage, error)
	GetPageByID(ctx context.Context, id int64) (domain.TeamStructurePage, error)
	CreatePage(ctx context.Context, title, description string) (domain.TeamStructurePage, error)
	UpdatePage(ctx context.Context, id int64, title, description *string) (domain.TeamStructurePage, error)
	DeletePage(ctx context.Context, id int64) error
	SaveChartData(ctx context.Context, id int64, chartData json.RawMessage) (domain.TeamStructurePage, error)
}

type PGOrgChartRepo struct {
	db *pgxpool.Pool
}

func NewPGOrgChartRepo(db *pgxpool.Pool) *PGOrgChartRepo {
	return &PGOrgChartRepo{db: db}
}

const pageColumns = `id, title, description, chart_data, is_active, created_at, updated_at`

func scanPage(row pgx.Row) (domain.TeamStructurePage, error) {
	var p domain.TeamStructurePage
	err := row.Scan(&p.ID, &p.Title, &p.Description, &p.ChartData,
		&p.IsActive, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

func (r *PGOrgChartRepo) GetAllPages(ctx context.Context) ([]domain.TeamStructurePage, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+pageColumns+`
		FROM team_structure_pages WHERE is_active
		ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list pages: %w", err)
	}
	defer rows.Close()
	list := []domain.TeamStructurePage{}
	for rows.Next() {
		p, err := scanPage(rows)
		if err != nil {
			return nil, fmt.Errorf("scan page: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

func (r *PGOrgChartRepo) GetPageByID(ctx context.Context, id int64) (domain.TeamStructurePage, error) {
	p, err := scanPage(r.db.QueryRow(ctx, `
		SELECT `+pageColumns+`
		FROM team_structure_pages WHERE id = $1 AND is_active`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.TeamStructurePage{}, ErrPageNotFound
	}
	if err != nil {
		return domain.TeamStructurePage{}, fmt.Errorf("get page: %w", err)
	}
	return p, nil
}

func (r *PGOrgChartRepo) CreatePage(ctx context.Context, title, description string) (domain.TeamStructurePage, error) {
	p, err := scanPage(r.db.QueryRow(ctx, `
		INSERT INTO team_structure_pages (title, description)
		VALUES ($1, $2)
		RETURNING `+pageColumns, title, description))
	if err != nil {
		return domain.TeamStructurePage{}, fmt.Errorf("insert page: %w", err)
	}
	return p, nil
}

func (r *PGOrgChartRepo) UpdatePage(ctx context.Context, id int64, title, description *string) (domain.TeamStructurePage, error) {
	p, err := scanPage(r.db.QueryRow(ctx, `
		UPDATE team_structure_pages
		SET title = COALESCE($2, title),
		    description = COALESCE($3, description),
		    updated_at = NOW()
		WHERE id = $1 AND is_active
		RETURNING `+pageColumns, id, title, description))
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.TeamStructurePage{}, ErrPageNotFound
	}
	if err != nil {
		return domain.TeamStructurePage{}, fmt.Errorf("update page: %w", err)
	}
	return p, nil
}

func (r *PGOrgChartRepo) DeletePage(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE team_structure_pages
		SET is_active = FALSE, updated_at = NOW()
		WHERE id = $1 AND is_active`, id)
	if err != nil {
		return fmt.Errorf("delete page: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrPageNotFound
	}
	return nil
}

func (r *PGOrgChartRepo) SaveChartData(ctx context.Context, id int64, chartData json.RawMessage) (domain.TeamStructurePage, error) {
	p, err := scanPage(r.db.QueryRow(ctx, `
		UPDATE team_structure_pages
		SET chart_data = $2, updated_at = NOW()
		WHERE id = $1 AND is_active
		RETURNING `+pageColumns, id, chartData))
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.TeamStructurePage{}, ErrPageNotFound
	}
	if err != nil {
		return domain.TeamStructurePage{}, fmt.Errorf("save chart data: %w", err)
	}
	return p, nil
}
