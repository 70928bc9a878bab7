package notifsvc

import (
	"context"
	"errors"

	"github.com/sukisigm69/LiteraSpace/model"
)

var ErrNotFound = errors.New("notification not found")

type Repo interface {
	ListByUser(ctx context.Context, userID int64) ([]model.Notification, error)
	MarkRead(ctx context.Context, id, userID int64) (bool, error)
}

type Service interface {
	// Mine lists the caller's inbox, newest first.
	Mine(ctx context.Context, userID int64) ([]model.Notification, error)
	// MarkRead only touches the caller's own notifications.
	MarkRead(ctx context.Context, id, userID int64) error
}

type service struct{ r Repo }

func New(r Repo) Service { return &service{r: r} }

func (s *service) Mine(ctx context.Context, userID int64) ([]model.Notification, error) {
	return s.r.ListByUser(ctx, userID)
}

func (s *service) MarkRead(ctx context.Context, id, userID int64) error {
	ok, err := s.r.MarkRead(ctx, id, userID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotFound
	}
	return nil
}
