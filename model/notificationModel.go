// model/notification.go
package model

import "time"

const (
	NotifBorrowRequest  = "borrow_request"
	NotifBorrowResponse = "borrow_response"
)

type Notification struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	Type      string    `json:"type"`
	Message   string    `json:"message"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"created_at"`
}
