package borrow

import (
	"context"
	"errors"
	"time"

	"unilib/internal/domain"
	"unilib/internal/repository"

	"gorm.io/gorm"
)

// DefaultReturnDays is the loan period applied when the caller does not ask
// for one.
const DefaultReturnDays = 14

// Service is the loan ledger. Every workflow that touches more than one
// entity (approve, return, delete) runs inside a single transaction so a
// partial failure cannot leave stock or the nearest-return-date stale.
type Service struct {
	atomic *repository.Atomic
	loans  *repository.LoanRepository
}

func NewService(atomic *repository.Atomic, loans *repository.LoanRepository) *Service {
	return &Service{atomic: atomic, loans: loans}
}

// CreateFromRequest materializes a loan from a borrow request: creates the
// borrowed record, decrements stock, folds the new return date into the
// book's nearest-return-date and deletes the request. A request already in
// approved status is treated as an interrupted earlier approval and is
// completed; any other non-pending status is rejected.
func (s *Service) CreateFromRequest(ctx context.Context, requestID int64, returnDays int) (*domain.Loan, error) {
	if returnDays <= 0 {
		returnDays = DefaultReturnDays
	}

	var loan *domain.Loan
	err := s.atomic.Transaction(ctx, func(tx *repository.Store) error {
		req, err := tx.Requests.GetByID(ctx, requestID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrRequestNotFound
			}
			return err
		}

		switch req.Status {
		case domain.RequestPending, domain.RequestApproved:
		default:
			return ErrInvalidStatus
		}

		book, err := tx.Books.GetByID(ctx, req.BookID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrBookNotFound
			}
			return err
		}
		if book.Stock <= 0 {
			return ErrOutOfStock
		}

		user, err := tx.Users.GetByID(ctx, req.UserID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrUserNotFound
			}
			return err
		}

		now := time.Now()
		returnDate := now.AddDate(0, 0, returnDays)

		l := &domain.Loan{
			BookID:     book.ID,
			UserID:     user.ID,
			BookTitle:  book.Title,
			BorrowedAt: now,
			ReturnDate: returnDate,
			Returned:   false,
		}
		if err := tx.Loans.Create(ctx, l); err != nil {
			return err
		}

		book.Stock--
		book.IsOutOfStock = book.Stock == 0
		if book.NearestReturnDate == nil || returnDate.Before(*book.NearestReturnDate) {
			book.NearestReturnDate = &returnDate
		}
		if err := tx.Books.Save(ctx, book); err != nil {
			return err
		}

		if err := tx.Requests.Delete(ctx, requestID); err != nil {
			return err
		}

		loan = l
		return nil
	})
	if err != nil {
		return nil, err
	}
	return loan, nil
}

// Return flips the loan to returned exactly once, restores stock and
// recomputes the book's nearest return date from the remaining active loans.
func (s *Service) Return(ctx context.Context, loanID int64) (*domain.Loan, error) {
	var loan *domain.Loan
	err := s.atomic.Transaction(ctx, func(tx *repository.Store) error {
		l, err := tx.Loans.GetByID(ctx, loanID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrLoanNotFound
			}
			return err
		}
		if l.Returned {
			return ErrAlreadyReturned
		}

		now := time.Now()
		if err := tx.Loans.MarkReturned(ctx, loanID, now); err != nil {
			return err
		}
		l.Returned = true
		l.ReturnedAt = &now

		if err := restoreBook(ctx, tx, l.BookID); err != nil {
			return err
		}

		loan = l
		return nil
	})
	if err != nil {
		return nil, err
	}
	return loan, nil
}

// Delete removes a borrowed record entirely. An unreturned loan first gets
// the same stock restoration and nearest-return-date recompute as a return;
// this path exists for cleaning up erroneous records.
func (s *Service) Delete(ctx context.Context, loanID int64) error {
	return s.atomic.Transaction(ctx, func(tx *repository.Store) error {
		l, err := tx.Loans.GetByID(ctx, loanID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrLoanNotFound
			}
			return err
		}

		if err := tx.Loans.Delete(ctx, loanID); err != nil {
			return err
		}

		if !l.Returned {
			if err := restoreBook(ctx, tx, l.BookID); err != nil {
				return err
			}
		}
		return nil
	})
}

// restoreBook bumps stock and recomputes the nearest return date from the
// active loans still referencing the book. A missing book is tolerated: the
// catalog entry may have been deleted while copies were still out.
func restoreBook(ctx context.Context, tx *repository.Store, bookID int64) error {
	book, err := tx.Books.GetByID(ctx, bookID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}

	book.Stock++
	book.IsOutOfStock = false

	nearest, err := tx.Loans.NearestActiveReturnDate(ctx, bookID)
	if err != nil {
		return err
	}
	book.NearestReturnDate = nearest

	return tx.Books.Save(ctx, book)
}

func (s *Service) GetAll(ctx context.Context) ([]domain.LoanView, error) {
	return s.loans.ListAll(ctx)
}

func (s *Service) GetActive(ctx context.Context) ([]domain.LoanView, error) {
	return s.loans.ListActive(ctx)
}

func (s *Service) GetOverdue(ctx context.Context) ([]domain.LoanView, error) {
	return s.loans.ListOverdue(ctx, time.Now())
}

func (s *Service) GetByUser(ctx context.Context, userID int64) ([]domain.LoanView, error) {
	return s.loans.ListByUser(ctx, userID)
}

func (s *Service) GetByID(ctx context.Context, id int64) (*domain.LoanView, error) {
	v, err := s.loans.GetViewByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLoanNotFound
		}
		return nil, err
	}
	return v, nil
}
