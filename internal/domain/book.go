package domain

import "time"

// Book is a catalog entry. Stock counts copies currently on the shelf;
// IsOutOfStock and NearestReturnDate are materialized and kept in step with
// the active loans by the borrow workflow.
type Book struct {
	ID                int64      `json:"id"`
	Title             string     `json:"book_title" validate:"required"`
	Author            string     `json:"author" validate:"required"`
	Summary           string     `json:"summary,omitempty"`
	Publisher         string     `json:"publisher,omitempty"`
	Category          string     `json:"category,omitempty"`
	Language          string     `json:"language,omitempty"`
	Location          string     `json:"location,omitempty"`
	Stock             int        `json:"stock" validate:"gte=0"`
	IsOutOfStock      bool       `json:"is_out_of_stock"`
	NearestReturnDate *time.Time `json:"nearest_return_date,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}
