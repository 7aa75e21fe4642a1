package domain

import "time"

// SystemSender is the From value on dispatcher-authored notifications and is
// part of the due-today dedupe key.
const SystemSender = "System"

type Notification struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"to"`
	From      string    `json:"from"`
	Body      string    `json:"body"`
	BookTitle string    `json:"book_title"`
	LoanID    *int64    `json:"borrow_id,omitempty"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"created_at"`
}
