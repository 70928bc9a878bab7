package borrowing

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/sukisigm69/LiteraSpace/model"
	borepo "github.com/sukisigm69/LiteraSpace/repository/borrowing"
)

// fakeRepo keeps the whole workflow state in memory so tests can assert the
// workflow invariants (stock never negative, exactly one history entry and
// notification per accepted transition). The *sql.Tx handles come from
// sqlmock and are only used for commit/rollback bookkeeping.
type fakeRepo struct {
	books      map[int64]*model.Book
	borrowings map[int64]*model.Borrowing
	usernames  map[int64]string
	staffIDs   []int64

	nextBorrowID int64
	history      []string // actions, in order
	notified     []int64  // recipient user ids, in order

	historyErr error
	notifyErr  error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		books:        map[int64]*model.Book{},
		borrowings:   map[int64]*model.Borrowing{},
		usernames:    map[int64]string{7: "sari"},
		staffIDs:     []int64{2, 3},
		nextBorrowID: 100,
	}
}

func (f *fakeRepo) GetBook(ctx context.Context, bookID int64) (*model.Book, error) {
	b, ok := f.books[bookID]
	if !ok {
		return nil, sql.ErrNoRows
	}
	cp := *b
	return &cp, nil
}

func (f *fakeRepo) GetUsername(ctx context.Context, userID int64) (string, error) {
	return f.usernames[userID], nil
}

func (f *fakeRepo) ListAll(ctx context.Context) ([]BorrowingRow, error)     { return nil, nil }
func (f *fakeRepo) ListPending(ctx context.Context) ([]PendingRow, error)   { return nil, nil }
func (f *fakeRepo) ListByUser(ctx context.Context, _ int64) ([]BorrowingRow, error) {
	return nil, nil
}

func (f *fakeRepo) InsertBorrowing(ctx context.Context, tx *sql.Tx, userID, bookID int64) (int64, error) {
	id := f.nextBorrowID
	f.nextBorrowID++
	f.borrowings[id] = &model.Borrowing{ID: id, UserID: userID, BookID: bookID, Status: model.BorrowPending}
	return id, nil
}

func (f *fakeRepo) GetForUpdate(ctx context.Context, tx *sql.Tx, id int64) (*model.Borrowing, error) {
	bo, ok := f.borrowings[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	cp := *bo
	return &cp, nil
}

func (f *fakeRepo) SetStatus(ctx context.Context, tx *sql.Tx, id int64, from, to model.BorrowStatus, stamp borepo.StatusStamp) (bool, error) {
	bo, ok := f.borrowings[id]
	if !ok || bo.Status != from {
		return false, nil
	}
	bo.Status = to
	return true, nil
}

func (f *fakeRepo) AdjustStock(ctx context.Context, tx *sql.Tx, bookID, delta int64) (bool, error) {
	b, ok := f.books[bookID]
	if !ok || b.Stock+delta < 0 {
		return false, nil
	}
	b.Stock += delta
	return true, nil
}

func (f *fakeRepo) GetBookTitle(ctx context.Context, tx *sql.Tx, bookID int64) (string, error) {
	b, ok := f.books[bookID]
	if !ok {
		return "", sql.ErrNoRows
	}
	return b.Title, nil
}

func (f *fakeRepo) ListStaffIDs(ctx context.Context, tx *sql.Tx) ([]int64, error) {
	return f.staffIDs, nil
}

func (f *fakeRepo) InsertHistory(ctx context.Context, tx *sql.Tx, borrowingID, userID, bookID int64, action string) error {
	if f.historyErr != nil {
		return f.historyErr
	}
	f.history = append(f.history, action)
	return nil
}

func (f *fakeRepo) InsertNotification(ctx context.Context, tx *sql.Tx, userID int64, ntype, message string) error {
	if f.notifyErr != nil {
		return f.notifyErr
	}
	f.notified = append(f.notified, userID)
	return nil
}

func newService(t *testing.T) (Service, *fakeRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	r := newFakeRepo()
	return New(db, r), r, mock
}

// --- request ---

func TestRequest_Success(t *testing.T) {
	svc, r, mock := newService(t)
	r.books[1] = &model.Book{ID: 1, Title: "Clean Code", Stock: 1}

	mock.ExpectBegin()
	mock.ExpectCommit()

	out, err := svc.Request(context.Background(), 7, 1)
	require.NoError(t, err)
	require.Equal(t, int64(100), out.BorrowingID)
	require.Equal(t, "Clean Code", out.BookTitle)

	// Stock is not reserved at request time.
	require.Equal(t, int64(1), r.books[1].Stock)
	require.Equal(t, model.BorrowPending, r.borrowings[100].Status)
	require.Equal(t, []string{"pending"}, r.history)
	// One notification per staff user.
	require.Equal(t, []int64{2, 3}, r.notified)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRequest_BookNotFound(t *testing.T) {
	svc, _, _ := newService(t)

	_, err := svc.Request(context.Background(), 7, 999)
	require.Equal(t, ErrBookNotFound, Code(err))
}

func TestRequest_OutOfStock(t *testing.T) {
	svc, r, _ := newService(t)
	r.books[2] = &model.Book{ID: 2, Title: "Journal 3", Stock: 0}

	_, err := svc.Request(context.Background(), 9, 2)
	require.Equal(t, ErrOutOfStock, Code(err))
	require.Empty(t, r.history)
	require.Empty(t, r.notified)
}

func TestRequest_RollbackOnHistoryError(t *testing.T) {
	svc, r, mock := newService(t)
	r.books[1] = &model.Book{ID: 1, Title: "Clean Code", Stock: 1}
	r.historyErr = errors.New("disk full")

	mock.ExpectBegin()
	mock.ExpectRollback()

	_, err := svc.Request(context.Background(), 7, 1)
	require.Error(t, err)
	require.Empty(t, r.notified)
	require.NoError(t, mock.ExpectationsWereMet())
}

// --- transitions ---

func seedApprovable(r *fakeRepo) {
	r.books[1] = &model.Book{ID: 1, Title: "Clean Code", Stock: 1}
	r.borrowings[100] = &model.Borrowing{ID: 100, UserID: 7, BookID: 1, Status: model.BorrowPending}
}

func TestTransition_Approve(t *testing.T) {
	svc, r, mock := newService(t)
	seedApprovable(r)

	mock.ExpectBegin()
	mock.ExpectCommit()

	err := svc.Transition(context.Background(), 100, model.ActionApprove, 2, model.RolePetugas)
	require.NoError(t, err)
	require.Equal(t, model.BorrowApproved, r.borrowings[100].Status)
	require.Equal(t, int64(0), r.books[1].Stock)
	require.Equal(t, []string{"approve"}, r.history)
	require.Equal(t, []int64{7}, r.notified) // the requester, exactly once
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTransition_ApproveTwice(t *testing.T) {
	svc, r, mock := newService(t)
	seedApprovable(r)

	mock.ExpectBegin()
	mock.ExpectCommit()
	mock.ExpectBegin()
	mock.ExpectRollback()

	require.NoError(t, svc.Transition(context.Background(), 100, model.ActionApprove, 2, model.RolePetugas))

	err := svc.Transition(context.Background(), 100, model.ActionApprove, 2, model.RolePetugas)
	require.Equal(t, ErrInvalidTransition, Code(err))

	// The duplicate did not double-decrement or re-log.
	require.Equal(t, int64(0), r.books[1].Stock)
	require.Len(t, r.history, 1)
	require.Len(t, r.notified, 1)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTransition_ApproveRace_OutOfStock(t *testing.T) {
	// Two pending requests raced for the last copy; the second approval must
	// hit the stock guard.
	svc, r, mock := newService(t)
	r.books[1] = &model.Book{ID: 1, Title: "Clean Code", Stock: 1}
	r.borrowings[100] = &model.Borrowing{ID: 100, UserID: 7, BookID: 1, Status: model.BorrowPending}
	r.borrowings[101] = &model.Borrowing{ID: 101, UserID: 8, BookID: 1, Status: model.BorrowPending}

	mock.ExpectBegin()
	mock.ExpectCommit()
	mock.ExpectBegin()
	mock.ExpectRollback()

	require.NoError(t, svc.Transition(context.Background(), 100, model.ActionApprove, 2, model.RolePetugas))

	err := svc.Transition(context.Background(), 101, model.ActionApprove, 2, model.RolePetugas)
	require.Equal(t, ErrOutOfStock, Code(err))
	require.Equal(t, int64(0), r.books[1].Stock)
	require.Len(t, r.history, 1)
	require.Len(t, r.notified, 1)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTransition_ReturnRestoresStock(t *testing.T) {
	svc, r, mock := newService(t)
	seedApprovable(r)

	mock.ExpectBegin()
	mock.ExpectCommit()
	mock.ExpectBegin()
	mock.ExpectCommit()

	require.NoError(t, svc.Transition(context.Background(), 100, model.ActionApprove, 2, model.RolePetugas))
	require.NoError(t, svc.Transition(context.Background(), 100, model.ActionReturn, 2, model.RolePetugas))

	// Round trip: approve then return restores the pre-approve stock.
	require.Equal(t, model.BorrowReturned, r.borrowings[100].Status)
	require.Equal(t, int64(1), r.books[1].Stock)
	require.Equal(t, []string{"approve", "return"}, r.history)
	require.Equal(t, []int64{7, 7}, r.notified)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTransition_Decline(t *testing.T) {
	svc, r, mock := newService(t)
	seedApprovable(r)

	mock.ExpectBegin()
	mock.ExpectCommit()

	err := svc.Transition(context.Background(), 100, model.ActionDecline, 3, model.RoleAdmin)
	require.NoError(t, err)
	require.Equal(t, model.BorrowDeclined, r.borrowings[100].Status)
	require.Equal(t, int64(1), r.books[1].Stock) // untouched
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTransition_ClosePending(t *testing.T) {
	svc, r, mock := newService(t)
	seedApprovable(r)

	mock.ExpectBegin()
	mock.ExpectCommit()

	err := svc.Transition(context.Background(), 100, model.ActionClose, 2, model.RolePetugas)
	require.NoError(t, err)
	require.Equal(t, model.BorrowDone, r.borrowings[100].Status)
	require.Equal(t, int64(1), r.books[1].Stock)
}

func TestTransition_CloseApprovedRejected(t *testing.T) {
	// An approved loan holds a copy; closing it would leak stock. Staff must
	// pick return or write_off instead.
	svc, r, mock := newService(t)
	r.books[1] = &model.Book{ID: 1, Title: "Clean Code", Stock: 0}
	r.borrowings[100] = &model.Borrowing{ID: 100, UserID: 7, BookID: 1, Status: model.BorrowApproved}

	mock.ExpectBegin()
	mock.ExpectRollback()

	err := svc.Transition(context.Background(), 100, model.ActionClose, 2, model.RolePetugas)
	require.Equal(t, ErrInvalidTransition, Code(err))
	require.Equal(t, model.BorrowApproved, r.borrowings[100].Status)
}

func TestTransition_WriteOff(t *testing.T) {
	svc, r, mock := newService(t)
	r.books[1] = &model.Book{ID: 1, Title: "Clean Code", Stock: 0}
	r.borrowings[100] = &model.Borrowing{ID: 100, UserID: 7, BookID: 1, Status: model.BorrowApproved}

	mock.ExpectBegin()
	mock.ExpectCommit()

	err := svc.Transition(context.Background(), 100, model.ActionWriteOff, 3, model.RoleAdmin)
	require.NoError(t, err)
	require.Equal(t, model.BorrowDone, r.borrowings[100].Status)
	// Lost copy: stock deliberately stays down.
	require.Equal(t, int64(0), r.books[1].Stock)
	require.Equal(t, []string{"write_off"}, r.history)
}

func TestTransition_Forbidden(t *testing.T) {
	svc, r, _ := newService(t)
	seedApprovable(r)

	err := svc.Transition(context.Background(), 100, model.ActionApprove, 7, model.RoleUser)
	require.Equal(t, ErrForbidden, Code(err))
	require.Equal(t, model.BorrowPending, r.borrowings[100].Status)
	require.Empty(t, r.history)
}

func TestTransition_NotFound(t *testing.T) {
	svc, _, mock := newService(t)

	mock.ExpectBegin()
	mock.ExpectRollback()

	err := svc.Transition(context.Background(), 404, model.ActionApprove, 2, model.RolePetugas)
	require.Equal(t, ErrBorrowingNotFound, Code(err))
}

func TestTransition_UnknownAction(t *testing.T) {
	svc, r, _ := newService(t)
	seedApprovable(r)

	err := svc.Transition(context.Background(), 100, model.BorrowAction("shred"), 2, model.RolePetugas)
	require.Equal(t, ErrInvalidTransition, Code(err))
}

func TestTransition_TerminalStatesFrozen(t *testing.T) {
	terminal := []model.BorrowStatus{model.BorrowDeclined, model.BorrowReturned, model.BorrowDone}
	actions := []model.BorrowAction{
		model.ActionApprove, model.ActionDecline, model.ActionReturn,
		model.ActionClose, model.ActionWriteOff,
	}

	for _, st := range terminal {
		for _, ac := range actions {
			svc, r, mock := newService(t)
			r.books[1] = &model.Book{ID: 1, Title: "Clean Code", Stock: 4}
			r.borrowings[100] = &model.Borrowing{ID: 100, UserID: 7, BookID: 1, Status: st}

			mock.ExpectBegin()
			mock.ExpectRollback()

			err := svc.Transition(context.Background(), 100, ac, 3, model.RoleAdmin)
			require.Equalf(t, ErrInvalidTransition, Code(err), "status=%s action=%s", st, ac)
			require.Equal(t, st, r.borrowings[100].Status)
			require.Equal(t, int64(4), r.books[1].Stock)
			require.Empty(t, r.history)
			require.Empty(t, r.notified)
		}
	}
}

func TestTransition_RollbackOnNotifyError(t *testing.T) {
	svc, r, mock := newService(t)
	seedApprovable(r)
	r.notifyErr = errors.New("notification table gone")

	mock.ExpectBegin()
	mock.ExpectRollback()

	err := svc.Transition(context.Background(), 100, model.ActionApprove, 2, model.RolePetugas)
	require.Error(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

// --- transition table sanity ---

func TestTransitionTable(t *testing.T) {
	for action, rl := range transitions {
		if rl.from.Terminal() {
			t.Errorf("action %s defined out of terminal state %s", action, rl.from)
		}
		if rl.stockDelta < -1 || rl.stockDelta > 1 {
			t.Errorf("action %s moves stock by %d", action, rl.stockDelta)
		}
		if rl.notifyTmpl == "" {
			t.Errorf("action %s has no notification template", action)
		}
	}

	// Only approve consumes stock and only return restores it.
	if transitions[model.ActionApprove].stockDelta != -1 {
		t.Error("approve must decrement stock")
	}
	if transitions[model.ActionReturn].stockDelta != 1 {
		t.Error("return must increment stock")
	}
	if transitions[model.ActionWriteOff].stockDelta != 0 {
		t.Error("write_off must not touch stock")
	}
}
