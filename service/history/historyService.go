package historysvc

import (
	"context"

	"github.com/sukisigm69/LiteraSpace/model"
)

type Repo interface {
	ListByUser(ctx context.Context, userID int64) ([]model.HistoryEntry, error)
}

// Service is the read side of the audit trail; writes only happen inside the
// borrowing workflow's transactions.
type Service interface {
	Mine(ctx context.Context, userID int64) ([]model.HistoryEntry, error)
}

type service struct{ r Repo }

func New(r Repo) Service { return &service{r: r} }

func (s *service) Mine(ctx context.Context, userID int64) ([]model.HistoryEntry, error) {
	return s.r.ListByUser(ctx, userID)
}
