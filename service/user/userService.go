package usersvc

import (
	"context"
	"database/sql"
	"errors"

	"github.com/sukisigm69/LiteraSpace/model"
	userrepo "github.com/sukisigm69/LiteraSpace/repository/user"
)

var (
	ErrNotFound = errors.New("user not found")
	ErrBadRole  = errors.New("unknown role")
)

type Service interface {
	Me(ctx context.Context, userID int64) (*model.User, error)
	UpdateProfile(ctx context.Context, userID int64, username, email string) error

	// Admin
	List(ctx context.Context) ([]model.User, error)
	SetRole(ctx context.Context, userID int64, role string) error
}

type service struct{ r userrepo.Repo }

func New(r userrepo.Repo) Service { return &service{r: r} }

func (s *service) Me(ctx context.Context, userID int64) (*model.User, error) {
	u, err := s.r.ByID(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return u, nil
}

func (s *service) UpdateProfile(ctx context.Context, userID int64, username, email string) error {
	return s.r.UpdateProfile(ctx, userID, username, email)
}

func (s *service) List(ctx context.Context) ([]model.User, error) {
	return s.r.List(ctx)
}

func (s *service) SetRole(ctx context.Context, userID int64, role string) error {
	switch role {
	case model.RoleUser, model.RolePetugas, model.RoleAdmin:
	default:
		return ErrBadRole
	}
	return s.r.UpdateRole(ctx, userID, role)
}
