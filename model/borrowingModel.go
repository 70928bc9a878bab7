// model/borrowing.go
package model

import "time"

type BorrowStatus string

const (
	BorrowPending  BorrowStatus = "pending"
	BorrowApproved BorrowStatus = "approved"
	BorrowDeclined BorrowStatus = "declined"
	BorrowReturned BorrowStatus = "returned"
	BorrowDone     BorrowStatus = "done"
)

// Terminal reports whether no further transition is defined out of s.
func (s BorrowStatus) Terminal() bool {
	switch s {
	case BorrowDeclined, BorrowReturned, BorrowDone:
		return true
	}
	return false
}

type BorrowAction string

const (
	ActionApprove  BorrowAction = "approve"
	ActionDecline  BorrowAction = "decline"
	ActionReturn   BorrowAction = "return"
	ActionClose    BorrowAction = "close"
	ActionWriteOff BorrowAction = "write_off"
)

type Borrowing struct {
	ID          int64        `json:"id"`
	BookID      int64        `json:"book_id"`
	UserID      int64        `json:"user_id"`
	Status      BorrowStatus `json:"status"`
	RequestDate time.Time    `json:"request_date"`
	BorrowDate  *time.Time   `json:"borrow_date,omitempty"`
	ReturnDate  *time.Time   `json:"return_date,omitempty"`
}
