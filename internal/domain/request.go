package domain

import "time"

type RequestStatus string

const (
	RequestPending  RequestStatus = "pending"
	RequestApproved RequestStatus = "approved"
)

// BorrowRequest is a user's ask to borrow a book. It holds no stock
// reservation; stock is only checked again and decremented at approval.
// The record is deleted once materialized into a loan.
type BorrowRequest struct {
	ID         int64         `json:"id"`
	BookID     int64         `json:"book_id"`
	UserID     int64         `json:"user_id"`
	Status     RequestStatus `json:"status"`
	CreatedAt  time.Time     `json:"created_at"`
	ResolvedAt *time.Time    `json:"resolved_at,omitempty"`
}

// RequestView is the denormalized shape for request listings.
type RequestView struct {
	ID        int64         `json:"id"`
	Status    RequestStatus `json:"status"`
	BookID    int64         `json:"book_id"`
	BookTitle string        `json:"book_title"`
	Author    string        `json:"author"`
	UserID    int64         `json:"user_id"`
	Username  string        `json:"username"`
	Email     string        `json:"email"`
	CreatedAt time.Time     `json:"created_at"`
}
