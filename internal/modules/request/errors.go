package request

import "errors"

var (
	ErrRequestNotFound = errors.New("request not found")
	ErrBookNotFound    = errors.New("book not found")
	ErrUserNotFound    = errors.New("user not found")
	ErrOutOfStock      = errors.New("book is out of stock")
	ErrDuplicate       = errors.New("user already has a pending request for this book")
)
