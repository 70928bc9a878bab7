package borrowing

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	borepo "github.com/sukisigm69/LiteraSpace/repository/borrowing"

	"github.com/sukisigm69/LiteraSpace/model"
)

// errors used by controllers

type ErrCode string

const (
	ErrBookNotFound      ErrCode = "BOOK_NOT_FOUND"
	ErrBorrowingNotFound ErrCode = "BORROWING_NOT_FOUND"
	ErrOutOfStock        ErrCode = "OUT_OF_STOCK"
	ErrInvalidTransition ErrCode = "INVALID_TRANSITION"
	ErrForbidden         ErrCode = "FORBIDDEN"
)

type codedError struct{ code ErrCode }

func (e codedError) Error() string { return string(e.code) }
func (e codedError) Code() ErrCode { return e.code }
func makeErr(c ErrCode) error      { return codedError{code: c} }

// Code extracts error code
func Code(err error) ErrCode {
	var ce interface{ Code() ErrCode }
	if errors.As(err, &ce) {
		return ce.Code()
	}
	return ""
}

// transition table

// rule captures everything one action does: the only status it is legal
// from, the status it produces, how book stock moves, which timestamps are
// stamped, and how the requester is told about it. Illegal pairs simply have
// no entry.
type rule struct {
	from       model.BorrowStatus
	to         model.BorrowStatus
	stockDelta int64
	stamp      borepo.StatusStamp
	notifyTmpl string // fmt template, %q receives the book title
}

var transitions = map[model.BorrowAction]rule{
	model.ActionApprove: {
		from:       model.BorrowPending,
		to:         model.BorrowApproved,
		stockDelta: -1,
		stamp:      borepo.StampLoan,
		notifyTmpl: "Your borrow request for %q has been approved. The book is due in 7 days.",
	},
	model.ActionDecline: {
		from:       model.BorrowPending,
		to:         model.BorrowDeclined,
		notifyTmpl: "Your borrow request for %q has been declined.",
	},
	model.ActionReturn: {
		from:       model.BorrowApproved,
		to:         model.BorrowReturned,
		stockDelta: 1,
		stamp:      borepo.StampReturn,
		notifyTmpl: "Your loan of %q has been marked returned. Thank you!",
	},
	// close finalizes a request that never held a copy. Closing an approved
	// loan is rejected: staff must pick return (the copy came back) or
	// write_off (it did not), so stock can never leak silently.
	model.ActionClose: {
		from:       model.BorrowPending,
		to:         model.BorrowDone,
		notifyTmpl: "Your borrow request for %q has been closed.",
	},
	model.ActionWriteOff: {
		from:       model.BorrowApproved,
		to:         model.BorrowDone,
		notifyTmpl: "Your loan of %q has been written off as lost.",
	},
}

// dto

type Requested struct {
	BorrowingID int64
	BookTitle   string
}

type BorrowingRow = borepo.BorrowingRow
type PendingRow = borepo.PendingRow

type Repo interface {
	GetBook(ctx context.Context, bookID int64) (*model.Book, error)
	GetUsername(ctx context.Context, userID int64) (string, error)
	ListAll(ctx context.Context) ([]BorrowingRow, error)
	ListPending(ctx context.Context) ([]PendingRow, error)
	ListByUser(ctx context.Context, userID int64) ([]BorrowingRow, error)

	InsertBorrowing(ctx context.Context, tx *sql.Tx, userID, bookID int64) (int64, error)
	GetForUpdate(ctx context.Context, tx *sql.Tx, id int64) (*model.Borrowing, error)
	SetStatus(ctx context.Context, tx *sql.Tx, id int64, from, to model.BorrowStatus, stamp borepo.StatusStamp) (bool, error)
	AdjustStock(ctx context.Context, tx *sql.Tx, bookID, delta int64) (bool, error)
	GetBookTitle(ctx context.Context, tx *sql.Tx, bookID int64) (string, error)
	ListStaffIDs(ctx context.Context, tx *sql.Tx) ([]int64, error)
	InsertHistory(ctx context.Context, tx *sql.Tx, borrowingID, userID, bookID int64, action string) error
	InsertNotification(ctx context.Context, tx *sql.Tx, userID int64, ntype, message string) error
}

type Service interface {
	// Request: create a pending borrowing. Stock is only checked here, not
	// reserved; it is decremented at approval.
	Request(ctx context.Context, userID, bookID int64) (*Requested, error)

	// Transition: apply a staff action to a borrowing. Status, stock,
	// history and notification move as one transaction.
	Transition(ctx context.Context, borrowingID int64, action model.BorrowAction, actorID int64, actorRole string) error

	ListAll(ctx context.Context) ([]BorrowingRow, error)
	ListPending(ctx context.Context) ([]PendingRow, error)
	ListMine(ctx context.Context, userID int64) ([]BorrowingRow, error)
}

// ----- Service implementation -----

type service struct {
	db *sql.DB
	r  Repo
}

func New(db *sql.DB, r Repo) Service {
	return &service{db: db, r: r}
}

func (s *service) Request(ctx context.Context, userID, bookID int64) (_ *Requested, err error) {
	book, err := s.r.GetBook(ctx, bookID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, makeErr(ErrBookNotFound)
		}
		return nil, err
	}
	if book.Stock <= 0 {
		return nil, makeErr(ErrOutOfStock)
	}

	username, err := s.r.GetUsername(ctx, userID)
	if err != nil {
		return nil, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	borrowingID, err := s.r.InsertBorrowing(ctx, tx, userID, bookID)
	if err != nil {
		return nil, err
	}

	if err = s.r.InsertHistory(ctx, tx, borrowingID, userID, bookID, string(model.BorrowPending)); err != nil {
		return nil, err
	}

	staff, err := s.r.ListStaffIDs(ctx, tx)
	if err != nil {
		return nil, err
	}
	msg := fmt.Sprintf("User %s requested to borrow %q", username, book.Title)
	for _, staffID := range staff {
		if err = s.r.InsertNotification(ctx, tx, staffID, model.NotifBorrowRequest, msg); err != nil {
			return nil, err
		}
	}

	if err = tx.Commit(); err != nil {
		return nil, err
	}

	return &Requested{BorrowingID: borrowingID, BookTitle: book.Title}, nil
}

func (s *service) Transition(ctx context.Context, borrowingID int64, action model.BorrowAction, actorID int64, actorRole string) (err error) {
	if !model.StaffRole(actorRole) {
		return makeErr(ErrForbidden)
	}

	rl, ok := transitions[action]
	if !ok {
		return makeErr(ErrInvalidTransition)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	bo, err := s.r.GetForUpdate(ctx, tx, borrowingID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return makeErr(ErrBorrowingNotFound)
		}
		return err
	}
	if bo.Status != rl.from {
		// Covers terminal states and duplicate retries alike: a borrowing
		// that already moved on never matches the rule's from-status.
		return makeErr(ErrInvalidTransition)
	}

	ok, err = s.r.SetStatus(ctx, tx, borrowingID, rl.from, rl.to, rl.stamp)
	if err != nil {
		return err
	}
	if !ok {
		return makeErr(ErrInvalidTransition)
	}

	if rl.stockDelta != 0 {
		ok, err = s.r.AdjustStock(ctx, tx, bo.BookID, rl.stockDelta)
		if err != nil {
			return err
		}
		if !ok {
			// Decrement rejected: the last copy was approved away while this
			// request was pending.
			return makeErr(ErrOutOfStock)
		}
	}

	if err = s.r.InsertHistory(ctx, tx, borrowingID, bo.UserID, bo.BookID, string(action)); err != nil {
		return err
	}

	title, err := s.r.GetBookTitle(ctx, tx, bo.BookID)
	if err != nil {
		return err
	}
	msg := fmt.Sprintf(rl.notifyTmpl, title)
	if err = s.r.InsertNotification(ctx, tx, bo.UserID, model.NotifBorrowResponse, msg); err != nil {
		return err
	}

	return tx.Commit()
}

func (s *service) ListAll(ctx context.Context) ([]BorrowingRow, error) {
	return s.r.ListAll(ctx)
}

func (s *service) ListPending(ctx context.Context) ([]PendingRow, error) {
	return s.r.ListPending(ctx)
}

func (s *service) ListMine(ctx context.Context, userID int64) ([]BorrowingRow, error) {
	return s.r.ListByUser(ctx, userID)
}
