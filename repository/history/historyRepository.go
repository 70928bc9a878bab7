package historyrepo

import (
	"context"
	"database/sql"

	"github.com/sukisigm69/LiteraSpace/model"
)

type Repo interface {
	ListByUser(ctx context.Context, userID int64) ([]model.HistoryEntry, error)
}

type repo struct{ db *sql.DB }

func New(db *sql.DB) Repo { return &repo{db} }

func (r *repo) ListByUser(ctx context.Context, userID int64) ([]model.HistoryEntry, error) {
	const q = `
			SELECT h.id, h.borrowing_id, h.user_id, h.book_id, h.action, h.created_at,
			       b.title, b.author,
			       bo.status
			FROM history h
			JOIN books b ON h.book_id = b.id
			JOIN borrowings bo ON h.borrowing_id = bo.id
			WHERE h.user_id = $1
			ORDER BY h.created_at DESC, h.id DESC`
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.HistoryEntry
	for rows.Next() {
		var h model.HistoryEntry
		if err := rows.Scan(
			&h.ID, &h.BorrowingID, &h.UserID, &h.BookID, &h.Action, &h.CreatedAt,
			&h.BookTitle, &h.BookAuthor, &h.Status,
		); err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	return out, rows.Err()
}
