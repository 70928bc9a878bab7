// repository/borrowing/repo.go
package borrowing

import (
	"context"
	"database/sql"
	"time"

	"github.com/sukisigm69/LiteraSpace/model"
)

// StatusStamp selects which timestamps a status change writes alongside the
// new status.
type StatusStamp int

const (
	StampNone   StatusStamp = iota
	StampLoan               // borrow_date=NOW(), return_date=NOW()+loan period
	StampReturn             // return_date=NOW()
)

// BorrowingRow is the joined listing shape for staff and user views.
type BorrowingRow struct {
	ID          int64              `json:"id"`
	BookID      int64              `json:"book_id"`
	BookTitle   string             `json:"book_title"`
	Stock       int64              `json:"stock"`
	Username    string             `json:"username"`
	Status      model.BorrowStatus `json:"status"`
	RequestDate time.Time          `json:"request_date"`
	BorrowDate  *time.Time         `json:"borrow_date,omitempty"`
	ReturnDate  *time.Time         `json:"return_date,omitempty"`
}

type PendingRow struct {
	ID          int64     `json:"id"`
	BookTitle   string    `json:"book_title"`
	Username    string    `json:"username"`
	RequestDate time.Time `json:"request_date"`
}

type Repo interface {
	// Reads outside transactions
	GetBook(ctx context.Context, bookID int64) (*model.Book, error)
	GetUsername(ctx context.Context, userID int64) (string, error)
	ListAll(ctx context.Context) ([]BorrowingRow, error)
	ListPending(ctx context.Context) ([]PendingRow, error)
	ListByUser(ctx context.Context, userID int64) ([]BorrowingRow, error)

	// Transaction-scoped workflow writes
	InsertBorrowing(ctx context.Context, tx *sql.Tx, userID, bookID int64) (int64, error)
	GetForUpdate(ctx context.Context, tx *sql.Tx, id int64) (*model.Borrowing, error)
	SetStatus(ctx context.Context, tx *sql.Tx, id int64, from, to model.BorrowStatus, stamp StatusStamp) (bool, error)
	AdjustStock(ctx context.Context, tx *sql.Tx, bookID, delta int64) (bool, error)
	GetBookTitle(ctx context.Context, tx *sql.Tx, bookID int64) (string, error)
	ListStaffIDs(ctx context.Context, tx *sql.Tx) ([]int64, error)
	InsertHistory(ctx context.Context, tx *sql.Tx, borrowingID, userID, bookID int64, action string) error
	InsertNotification(ctx context.Context, tx *sql.Tx, userID int64, ntype, message string) error
}

type repo struct {
	db *sql.DB
}

func New(db *sql.DB) Repo { return &repo{db: db} }

func (r *repo) GetBook(ctx context.Context, bookID int64) (*model.Book, error) {
	const q = `
			SELECT id, title, author, COALESCE(image,''), stock
			FROM books
			WHERE id = $1`
	var b model.Book
	err := r.db.QueryRowContext(ctx, q, bookID).Scan(&b.ID, &b.Title, &b.Author, &b.Image, &b.Stock)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *repo) GetUsername(ctx context.Context, userID int64) (string, error) {
	var name string
	err := r.db.QueryRowContext(ctx,
		`SELECT username FROM users WHERE id = $1`, userID,
	).Scan(&name)
	return name, err
}

func (r *repo) InsertBorrowing(ctx context.Context, tx *sql.Tx, userID, bookID int64) (int64, error) {
	const q = `
		INSERT INTO borrowings (user_id, book_id, status, request_date)
		VALUES ($1, $2, 'pending', NOW())
		RETURNING id`
	var id int64
	if err := tx.QueryRowContext(ctx, q, userID, bookID).Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}

func (r *repo) GetForUpdate(ctx context.Context, tx *sql.Tx, id int64) (*model.Borrowing, error) {
	const q = `
		SELECT id, user_id, book_id, status, request_date, borrow_date, return_date
		FROM borrowings
		WHERE id = $1
		FOR UPDATE`
	var bo model.Borrowing
	err := tx.QueryRowContext(ctx, q, id).Scan(
		&bo.ID, &bo.UserID, &bo.BookID, &bo.Status,
		&bo.RequestDate, &bo.BorrowDate, &bo.ReturnDate,
	)
	if err != nil {
		return nil, err
	}
	return &bo, nil
}

// SetStatus flips the status only when the row is still in the expected
// state. The affected-row count is the second line of defense against
// concurrent transitions racing past the FOR UPDATE read.
func (r *repo) SetStatus(ctx context.Context, tx *sql.Tx, id int64, from, to model.BorrowStatus, stamp StatusStamp) (bool, error) {
	q := `UPDATE borrowings SET status = $1`
	switch stamp {
	case StampLoan:
		q += `, borrow_date = NOW(), return_date = NOW() + INTERVAL '7 days'`
	case StampReturn:
		q += `, return_date = NOW()`
	}
	q += ` WHERE id = $2 AND status = $3`

	res, err := tx.ExecContext(ctx, q, to, id, from)
	if err != nil {
		return false, err
	}
	aff, _ := res.RowsAffected()
	return aff > 0, nil
}

func (r *repo) AdjustStock(ctx context.Context, tx *sql.Tx, bookID, delta int64) (bool, error) {
	// Guard: never let stock go negative.
	const q = `
			UPDATE books
			SET stock = stock + $2
			WHERE id = $1
			AND stock + $2 >= 0`
	res, err := tx.ExecContext(ctx, q, bookID, delta)
	if err != nil {
		return false, err
	}
	aff, _ := res.RowsAffected()
	return aff > 0, nil
}

func (r *repo) GetBookTitle(ctx context.Context, tx *sql.Tx, bookID int64) (string, error) {
	var title string
	err := tx.QueryRowContext(ctx,
		`SELECT title FROM books WHERE id = $1`, bookID,
	).Scan(&title)
	return title, err
}

func (r *repo) ListStaffIDs(ctx context.Context, tx *sql.Tx) ([]int64, error) {
	rows, err := tx.QueryContext(ctx,
		`SELECT id FROM users WHERE role = 'petugas'`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

func (r *repo) InsertHistory(ctx context.Context, tx *sql.Tx, borrowingID, userID, bookID int64, action string) error {
	const q = `
		INSERT INTO history (borrowing_id, user_id, book_id, action, created_at)
		VALUES ($1, $2, $3, $4, NOW())`
	_, err := tx.ExecContext(ctx, q, borrowingID, userID, bookID, action)
	return err
}

func (r *repo) InsertNotification(ctx context.Context, tx *sql.Tx, userID int64, ntype, message string) error {
	const q = `
		INSERT INTO notifications (user_id, type, message, read, created_at)
		VALUES ($1, $2, $3, FALSE, NOW())`
	_, err := tx.ExecContext(ctx, q, userID, ntype, message)
	return err
}

// Listings

func (r *repo) ListAll(ctx context.Context) ([]BorrowingRow, error) {
	const q = `
			SELECT bo.id, bo.book_id, b.title, b.stock,
			       u.username, bo.status, bo.request_date, bo.borrow_date, bo.return_date
			FROM borrowings bo
			JOIN books b ON bo.book_id = b.id
			JOIN users u ON bo.user_id = u.id
			ORDER BY bo.id DESC`
	return r.queryRows(ctx, q)
}

func (r *repo) ListByUser(ctx context.Context, userID int64) ([]BorrowingRow, error) {
	const q = `
			SELECT bo.id, bo.book_id, b.title, b.stock,
			       u.username, bo.status, bo.request_date, bo.borrow_date, bo.return_date
			FROM borrowings bo
			JOIN books b ON bo.book_id = b.id
			JOIN users u ON bo.user_id = u.id
			WHERE bo.user_id = $1
			ORDER BY bo.id DESC`
	return r.queryRows(ctx, q, userID)
}

func (r *repo) queryRows(ctx context.Context, q string, args ...any) ([]BorrowingRow, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []BorrowingRow
	for rows.Next() {
		var b BorrowingRow
		if err := rows.Scan(
			&b.ID, &b.BookID, &b.BookTitle, &b.Stock,
			&b.Username, &b.Status, &b.RequestDate, &b.BorrowDate, &b.ReturnDate,
		); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (r *repo) ListPending(ctx context.Context) ([]PendingRow, error) {
	const q = `
			SELECT bo.id, b.title, u.username, bo.request_date
			FROM borrowings bo
			JOIN books b ON bo.book_id = b.id
			JOIN users u ON bo.user_id = u.id
			WHERE bo.status = 'pending'
			ORDER BY bo.request_date DESC`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []PendingRow
	for rows.Next() {
		var p PendingRow
		if err := rows.Scan(&p.ID, &p.BookTitle, &p.Username, &p.RequestDate); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
