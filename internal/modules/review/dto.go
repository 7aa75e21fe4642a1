package review

type CreateReviewRequest struct {
	BookTitle string `json:"book_title" binding:"required" validate:"required"`
	Rating    int    `json:"rating" binding:"required" validate:"required,gte=1,lte=5"`
	Text      string `json:"text"`
}

type UpdateReviewRequest struct {
	Rating *int    `json:"rating" validate:"omitempty,gte=1,lte=5"`
	Text   *string `json:"text"`
}
