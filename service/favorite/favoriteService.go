package favsvc

import (
	"context"
	"errors"

	"github.com/sukisigm69/LiteraSpace/model"
)

var ErrNotFound = errors.New("favorite not found")

type Repo interface {
	Add(ctx context.Context, userID, bookID int64) (int64, error)
	Remove(ctx context.Context, userID, bookID int64) (bool, error)
	ListByUser(ctx context.Context, userID int64) ([]model.Favorite, error)
}

type Service interface {
	Add(ctx context.Context, userID, bookID int64) (int64, error)
	Remove(ctx context.Context, userID, bookID int64) error
	Mine(ctx context.Context, userID int64) ([]model.Favorite, error)
}

type service struct{ r Repo }

func New(r Repo) Service { return &service{r: r} }

func (s *service) Add(ctx context.Context, userID, bookID int64) (int64, error) {
	return s.r.Add(ctx, userID, bookID)
}

func (s *service) Remove(ctx context.Context, userID, bookID int64) error {
	ok, err := s.r.Remove(ctx, userID, bookID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotFound
	}
	return nil
}

func (s *service) Mine(ctx context.Context, userID int64) ([]model.Favorite, error) {
	return s.r.ListByUser(ctx, userID)
}
