package review

import "errors"

var (
	ErrReviewNotFound = errors.New("review not found")
	ErrBookNotFound   = errors.New("book not found")
	ErrUserNotFound   = errors.New("user not found")
	ErrNotOwner       = errors.New("review belongs to another user")
)
