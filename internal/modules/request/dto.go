package request

type CreateRequestBody struct {
	// UserID is optional; it defaults to the authenticated user. Staff may
	// file a request on a reader's behalf by setting it explicitly.
	UserID int64 `json:"user_id"`
	BookID int64 `json:"book_id" binding:"required"`
}

type ApproveRequestBody struct {
	ReturnDays int `json:"return_days"`
}
