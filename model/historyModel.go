// model/history.go
package model

import "time"

// HistoryEntry is the append-only audit record written once per accepted
// borrowing transition. Entries are never updated or deleted.
type HistoryEntry struct {
	ID          int64        `json:"id"`
	BorrowingID int64        `json:"borrowing_id"`
	UserID      int64        `json:"user_id"`
	BookID      int64        `json:"book_id"`
	Action      string       `json:"action"`
	CreatedAt   time.Time    `json:"created_at"`
	BookTitle   string       `json:"book_title,omitempty"`
	BookAuthor  string       `json:"book_author,omitempty"`
	Status      BorrowStatus `json:"status,omitempty"`
}
