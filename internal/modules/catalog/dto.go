package catalog

type CreateBookRequest struct {
	Title     string `json:"book_title" binding:"required" validate:"required"`
	Author    string `json:"author" binding:"required" validate:"required"`
	Summary   string `json:"summary"`
	Publisher string `json:"publisher"`
	Category  string `json:"category"`
	Language  string `json:"language"`
	Location  string `json:"location"`
	Stock     int    `json:"stock" validate:"gte=0"`
}

type UpdateBookRequest struct {
	Title     *string `json:"book_title"`
	Author    *string `json:"author"`
	Summary   *string `json:"summary"`
	Publisher *string `json:"publisher"`
	Category  *string `json:"category"`
	Language  *string `json:"language"`
	Location  *string `json:"location"`
	Stock     *int    `json:"stock"`
}
