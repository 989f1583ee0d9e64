package service

import (
	"context"
	"errors"
	"strings"

	"github.com/tkcmada/sample-todo-psql/internal/domain"
	"github.com/tkcmada/sample-todo-psql/internal/repo"
	"github.com/tkcmada/sample-todo-psql/internal/utils"
)

var ErrEmailTaken = errors.New("email already taken")

// UserService fronts the user admin repository. User CRUD carries no
// audit trail and no soft delete; it is plain lookup-style CRUD.
type UserService struct {
	repo repo.UserRepo
}

func NewUserService(r repo.UserRepo) *UserService {
	return &UserService{repo: r}
}

func (s *UserService) GetAll(ctx context.Context) ([]domain.User, error) {
	return s.repo.GetAll(ctx)
}

func (s *UserService) GetByID(ctx context.Context, id int64) (domain.User, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *UserService) Create(ctx context.Context, name, email string, apps []string, roles []domain.AppRole) (domain.User, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)
	u, err := s.repo.Create(ctx, name, email, apps, roles)
	if err != nil {
		if utils.IsPGUniqueViolation(err) {
			return domain.User{}, ErrEmailTaken
		}
		return domain.User{}, err
	}
	return u, nil
}

func (s *UserService) Update(ctx context.Context, id int64, patch repo.UserPatch) (domain.User, error) {
	if patch.Name != nil {
		trimmed := strings.TrimSpace(*patch.Name)
		patch.Name = &trimmed
	}
	if patch.Email != nil {
		trimmed := strings.TrimSpace(*patch.Email)
		patch.Email = &trimmed
	}
	u, err := s.repo.Update(ctx, id, patch)
	if err != nil {
		if utils.IsPGUniqueViolation(err) {
			return domain.User{}, ErrEmailTaken
		}
		return domain.User{}, err
	}
	return u, nil
}

func (s *UserService) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}
