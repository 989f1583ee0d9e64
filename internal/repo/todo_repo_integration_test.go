//go:build integration

package repo

import (
	"context"
	"testing"
	"time"

	"github.com/tkcmada/sample-todo-psql/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

type PGTodoRepoSuite struct {
	suite.Suite
	container *tcpostgres.PostgresContainer
	pool      *pgxpool.Pool
	repo      *PGTodoRepo
}

func TestPGTodoRepoSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PGTodoRepoSuite))
}

func (s *PGTodoRepoSuite) SetupSuite() {
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("todos"),
		tcpostgres.WithUsername("test"),
		tcpostgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	s.Require().NoError(err)
	s.container = container

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	s.Require().NoError(err)

	db, err := goose.OpenDBWithDriver("pgx", dsn)
	s.Require().NoError(err)
	s.Require().NoError(goose.Up(db, "../../migrations"))
	s.Require().NoError(db.Close())

	pool, err := pgxpool.New(ctx, dsn)
	s.Require().NoError(err)
	s.pool = pool
	s.repo = NewPGTodoRepo(pool)
}

func (s *PGTodoRepoSuite) TearDownSuite() {
	if s.pool != nil {
		s.pool.Close()
	}
	if s.container != nil {
		_ = s.container.Terminate(context.Background())
	}
}

func (s *PGTodoRepoSuite) SetupTest() {
	_, err := s.pool.Exec(context.Background(),
		`TRUNCATE audit_logs, todos RESTART IDENTITY CASCADE`)
	s.Require().NoError(err)
}

func (s *PGTodoRepoSuite) TestCreateThenList() {
	ctx := context.Background()

	created, err := s.repo.Create(ctx, "Buy milk", nil)
	s.Require().NoError(err)
	s.NotZero(created.ID)
	s.False(created.DoneFlag)
	s.Nil(created.DueDate)
	s.Nil(created.DeletedAt)

	list, err := s.repo.GetAll(ctx)
	s.Require().NoError(err)
	s.Require().Len(list, 1)
	s.Require().Len(list[0].AuditLogs, 1)
	s.Equal(domain.ActionCreate, list[0].AuditLogs[0].Action)
	s.Nil(list[0].AuditLogs[0].OldValues)
	s.JSONEq(`{"title":"Buy milk","due_date":null,"done_flag":false}`,
		string(list[0].AuditLogs[0].NewValues))
}

func (s *PGTodoRepoSuite) TestToggleThenUpdateTrail() {
	ctx := context.Background()

	created, err := s.repo.Create(ctx, "Buy milk", nil)
	s.Require().NoError(err)

	toggled, err := s.repo.Toggle(ctx, created.ID)
	s.Require().NoError(err)
	s.True(toggled.DoneFlag)

	title := "Buy oat milk"
	updated, err := s.repo.Update(ctx, created.ID, domain.TodoPatch{Title: &title})
	s.Require().NoError(err)
	s.Equal("Buy oat milk", updated.Title)

	list, err := s.repo.GetAll(ctx)
	s.Require().NoError(err)
	s.Require().Len(list, 1)
	s.Equal([]string{domain.ActionUpdate, domain.ActionToggle, domain.ActionCreate},
		actions(list[0].AuditLogs))
	s.JSONEq(`{"done_flag":false}`, string(list[0].AuditLogs[1].OldValues))
	s.JSONEq(`{"done_flag":true}`, string(list[0].AuditLogs[1].NewValues))
	s.JSONEq(`{"title":"Buy milk","due_date":null,"done_flag":true}`,
		string(list[0].AuditLogs[0].OldValues))
	s.JSONEq(`{"title":"Buy oat milk","due_date":null,"done_flag":true}`,
		string(list[0].AuditLogs[0].NewValues))
}

func (s *PGTodoRepoSuite) TestDueDateRoundTrip() {
	ctx := context.Background()

	due := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)
	created, err := s.repo.Create(ctx, "dentist", &due)
	s.Require().NoError(err)
	s.Require().NotNil(created.DueDate)
	s.Equal("2026-03-01", created.DueDate.Format("2006-01-02"))

	updated, err := s.repo.Update(ctx, created.ID, domain.TodoPatch{DueDateSet: true})
	s.Require().NoError(err)
	s.Nil(updated.DueDate)
}

func (s *PGTodoRepoSuite) TestSoftDeleteGate() {
	ctx := context.Background()

	created, err := s.repo.Create(ctx, "Buy milk", nil)
	s.Require().NoError(err)
	s.Require().NoError(s.repo.Delete(ctx, created.ID))

	list, err := s.repo.GetAll(ctx)
	s.Require().NoError(err)
	s.Empty(list)

	_, err = s.repo.Toggle(ctx, created.ID)
	s.ErrorIs(err, ErrNotFound)
	title := "nope"
	_, err = s.repo.Update(ctx, created.ID, domain.TodoPatch{Title: &title})
	s.ErrorIs(err, ErrNotFound)

	// Physical row and its ledger survive the soft delete.
	var deletedAt *time.Time
	var auditCount int
	s.Require().NoError(s.pool.QueryRow(ctx,
		`SELECT deleted_at FROM todos WHERE id = $1`, created.ID).Scan(&deletedAt))
	s.NotNil(deletedAt)
	s.Require().NoError(s.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM audit_logs WHERE todo_id = $1`, created.ID).Scan(&auditCount))
	s.Equal(2, auditCount)
}

func (s *PGTodoRepoSuite) TestDeleteIsForgiving() {
	ctx := context.Background()

	s.NoError(s.repo.Delete(ctx, 999999))

	created, err := s.repo.Create(ctx, "twice", nil)
	s.Require().NoError(err)
	s.Require().NoError(s.repo.Delete(ctx, created.ID))
	s.Require().NoError(s.repo.Delete(ctx, created.ID))

	var auditCount int
	s.Require().NoError(s.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM audit_logs WHERE todo_id = $1 AND action = 'DELETE'`,
		created.ID).Scan(&auditCount))
	s.Equal(1, auditCount)
}

func (s *PGTodoRepoSuite) TestFailedMutationLeavesNoAudit() {
	ctx := context.Background()

	_, err := s.repo.Toggle(ctx, 424242)
	s.Require().ErrorIs(err, ErrNotFound)

	var auditCount int
	s.Require().NoError(s.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM audit_logs`).Scan(&auditCount))
	s.Zero(auditCount)
}
