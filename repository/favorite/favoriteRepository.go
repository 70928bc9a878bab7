package favrepo

import (
	"context"
	"database/sql"

	"github.com/sukisigm69/LiteraSpace/model"
)

type Repo interface {
	Add(ctx context.Context, userID, bookID int64) (int64, error)
	Remove(ctx context.Context, userID, bookID int64) (bool, error)
	ListByUser(ctx context.Context, userID int64) ([]model.Favorite, error)
}

type repo struct{ db *sql.DB }

func New(db *sql.DB) Repo { return &repo{db} }

func (r *repo) Add(ctx context.Context, userID, bookID int64) (int64, error) {
	// Re-favoriting the same book keeps the original row.
	const q = `
		INSERT INTO favorites (user_id, book_id, created_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (user_id, book_id) DO UPDATE SET user_id = favorites.user_id
		RETURNING id`
	var id int64
	if err := r.db.QueryRowContext(ctx, q, userID, bookID).Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}

func (r *repo) Remove(ctx context.Context, userID, bookID int64) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM favorites WHERE user_id = $1 AND book_id = $2`,
		userID, bookID)
	if err != nil {
		return false, err
	}
	aff, _ := res.RowsAffected()
	return aff > 0, nil
}

func (r *repo) ListByUser(ctx context.Context, userID int64) ([]model.Favorite, error) {
	const q = `
			SELECT f.id, f.user_id, f.book_id, f.created_at,
			       b.id, b.title, b.author, COALESCE(b.image,''), b.stock
			FROM favorites f
			JOIN books b ON f.book_id = b.id
			WHERE f.user_id = $1
			ORDER BY f.created_at DESC`
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Favorite
	for rows.Next() {
		var f model.Favorite
		var b model.Book
		if err := rows.Scan(
			&f.ID, &f.UserID, &f.BookID, &f.CreatedAt,
			&b.ID, &b.Title, &b.Author, &b.Image, &b.Stock,
		); err != nil {
			return nil, err
		}
		f.Book = &b
		out = append(out, f)
	}
	return out, rows.Err()
}
