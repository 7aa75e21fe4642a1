package domain

import "time"

// Loan is a borrowed record. BookTitle is a snapshot taken at approval so
// listings survive later catalog edits. Returned flips true exactly once.
type Loan struct {
	ID         int64      `json:"id"`
	BookID     int64      `json:"book_id"`
	UserID     int64      `json:"user_id"`
	BookTitle  string     `json:"book_title"`
	BorrowedAt time.Time  `json:"borrowed_at"`
	ReturnDate time.Time  `json:"return_date"`
	Returned   bool       `json:"returned"`
	ReturnedAt *time.Time `json:"returned_at,omitempty"`
}

// Active reports whether the loan is still out.
func (l *Loan) Active() bool { return !l.Returned }

// LoanView is the denormalized shape for loan listings.
type LoanView struct {
	ID         int64      `json:"id"`
	BookID     int64      `json:"book_id"`
	BookTitle  string     `json:"book_title"`
	Author     string     `json:"author"`
	UserID     int64      `json:"user_id"`
	Username   string     `json:"username"`
	Email      string     `json:"email"`
	BorrowedAt time.Time  `json:"borrowed_at"`
	ReturnDate time.Time  `json:"return_date"`
	Returned   bool       `json:"returned"`
	ReturnedAt *time.Time `json:"returned_at,omitempty"`
}
