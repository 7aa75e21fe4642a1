package notification

type CreateNotificationRequest struct {
	From     string `json:"from" binding:"required"`
	Body     string `json:"body" binding:"required"`
	BorrowID int64  `json:"borrow_id" binding:"required"`
}
