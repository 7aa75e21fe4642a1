package notification

import "errors"

var (
	ErrNotificationNotFound = errors.New("notification not found")
	ErrLoanNotFound         = errors.New("borrowed record not found")
)
