package repository

import (
	"context"

	"gorm.io/gorm"
)

// Store bundles every repository bound to one *gorm.DB handle. Inside
// Atomic.Transaction that handle is the transaction, so a multi-entity
// workflow either commits all of its writes or none of them.
type Store struct {
	Users         *UserRepository
	Books         *BookRepository
	Requests      *RequestRepository
	Loans         *LoanRepository
	Notifications *NotificationRepository
	Reviews       *ReviewRepository
}

func NewStore(db *gorm.DB) *Store {
	return &Store{
		Users:         NewUserRepository(db),
		Books:         NewBookRepository(db),
		Requests:      NewRequestRepository(db),
		Loans:         NewLoanRepository(db),
		Notifications: NewNotificationRepository(db),
		Reviews:       NewReviewRepository(db),
	}
}

type Atomic struct {
	db *gorm.DB
}

func NewAtomic(db *gorm.DB) *Atomic {
	return &Atomic{db: db}
}

// Transaction runs fn against a Store bound to a single database transaction.
// Returning an error from fn rolls everything back.
func (a *Atomic) Transaction(ctx context.Context, fn func(tx *Store) error) error {
	return a.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewStore(tx))
	})
}
