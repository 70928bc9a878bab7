package bookrepo

import (
	"context"
	"database/sql"

	"github.com/sukisigm69/LiteraSpace/model"
)

type Repo interface {
	Create(ctx context.Context, title, author, image string, stock int64) (int64, error)
	Update(ctx context.Context, id int64, title, author, image string, stock int64) (bool, error)
	Delete(ctx context.Context, id int64) (bool, error)
	List(ctx context.Context) ([]model.Book, error)
	Detail(ctx context.Context, id int64) (*model.Book, error)

	// AdjustStock applies delta to the book's stock in a single conditional
	// UPDATE. The WHERE clause refuses a negative result, so the non-negative
	// invariant is enforced by the database, not by a read-then-write pair.
	// Returns (false, nil) when the guard rejects the change and (false,
	// sql.ErrNoRows semantics are folded into the bool: a missing id also
	// yields false).
	AdjustStock(ctx context.Context, id int64, delta int64) (bool, error)
}

type repo struct{ db *sql.DB }

func New(db *sql.DB) Repo { return &repo{db} }

func (r *repo) Create(ctx context.Context, title, author, image string, stock int64) (int64, error) {
	const q = `
INSERT INTO books (title, author, image, stock)
VALUES ($1,$2,$3,$4)
RETURNING id`
	var id int64
	if err := r.db.QueryRowContext(ctx, q, title, author, image, stock).Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}

func (r *repo) Update(ctx context.Context, id int64, title, author, image string, stock int64) (bool, error) {
	const q = `
UPDATE books
SET title=$2, author=$3, image=$4, stock=$5
WHERE id=$1`
	res, err := r.db.ExecContext(ctx, q, id, title, author, image, stock)
	if err != nil {
		return false, err
	}
	aff, _ := res.RowsAffected()
	return aff > 0, nil
}

func (r *repo) Delete(ctx context.Context, id int64) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM books WHERE id=$1`, id)
	if err != nil {
		return false, err
	}
	aff, _ := res.RowsAffected()
	return aff > 0, nil
}

func (r *repo) List(ctx context.Context) ([]model.Book, error) {
	const q = `
	SELECT id, title, author, COALESCE(image,''), stock
	FROM books
	ORDER BY id DESC`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Book
	for rows.Next() {
		var b model.Book
		if err := rows.Scan(&b.ID, &b.Title, &b.Author, &b.Image, &b.Stock); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (r *repo) Detail(ctx context.Context, id int64) (*model.Book, error) {
	const q = `
SELECT id, title, author, COALESCE(image,''), stock
FROM books
WHERE id=$1`
	var b model.Book
	if err := r.db.QueryRowContext(ctx, q, id).Scan(&b.ID, &b.Title, &b.Author, &b.Image, &b.Stock); err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *repo) AdjustStock(ctx context.Context, id int64, delta int64) (bool, error) {
	const q = `
UPDATE books
SET stock = stock + $2
WHERE id = $1
AND stock + $2 >= 0`
	res, err := r.db.ExecContext(ctx, q, id, delta)
	if err != nil {
		return false, err
	}
	aff, _ := res.RowsAffected()
	return aff > 0, nil
}
