package borrow

import "errors"

var (
	ErrRequestNotFound = errors.New("request not found")
	ErrBookNotFound    = errors.New("book not found")
	ErrUserNotFound    = errors.New("user not found")
	ErrLoanNotFound    = errors.New("borrowed record not found")
	ErrOutOfStock      = errors.New("book is out of stock")
	ErrAlreadyReturned = errors.New("book is already returned")
	ErrInvalidStatus   = errors.New("request is not in pending or approved status")
)
