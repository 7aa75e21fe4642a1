package domain

import "time"

// Review carries username and book-title snapshots so listings need no join.
type Review struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	Username  string    `json:"username"`
	BookTitle string    `json:"book_title"`
	Rating    int       `json:"rating" validate:"required,gte=1,lte=5"`
	Text      string    `json:"review_text"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
