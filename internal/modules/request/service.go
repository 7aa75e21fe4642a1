package request

import (
	"context"
	"errors"
	"time"

	"unilib/internal/domain"
	"unilib/internal/repository"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// Approver turns an accepted request into a loan. It is implemented by the
// borrow service; the indirection keeps the two packages from importing each
// other.
type Approver interface {
	CreateFromRequest(ctx context.Context, requestID int64, returnDays int) (*domain.Loan, error)
}

type Service struct {
	requests *repository.RequestRepository
	books    *repository.BookRepository
	users    *repository.UserRepository
	approver Approver
}

func NewService(requests *repository.RequestRepository, books *repository.BookRepository, users *repository.UserRepository, approver Approver) *Service {
	return &Service{requests: requests, books: books, users: users, approver: approver}
}

// Create registers a pending borrow request. Checks run in a fixed order so
// the caller gets the most specific failure: unknown book, exhausted stock,
// unknown user, then an existing pending request for the same pair.
func (s *Service) Create(ctx context.Context, userID, bookID int64) (*domain.BorrowRequest, error) {
	book, err := s.books.GetByID(ctx, bookID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookNotFound
		}
		return nil, err
	}
	if book.Stock <= 0 {
		return nil, ErrOutOfStock
	}

	if _, err := s.users.GetByID(ctx, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	exists, err := s.requests.ExistsPending(ctx, userID, book.ID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrDuplicate
	}

	req := &domain.BorrowRequest{
		BookID:    book.ID,
		UserID:    userID,
		Status:    domain.RequestPending,
		CreatedAt: time.Now(),
	}
	if err := s.requests.Create(ctx, req); err != nil {
		// The partial unique index catches the race the pre-check misses.
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, ErrDuplicate
		}
		return nil, err
	}
	return req, nil
}

// Approve delegates to the loan ledger, which runs the whole approval
// inside one transaction.
func (s *Service) Approve(ctx context.Context, requestID int64, returnDays int) (*domain.Loan, error) {
	return s.approver.CreateFromRequest(ctx, requestID, returnDays)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	err := s.requests.Delete(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrRequestNotFound
	}
	return err
}

// DeleteByBookTitle drops every request referencing the titled book, used
// when the book leaves the catalog.
func (s *Service) DeleteByBookTitle(ctx context.Context, title string) error {
	book, err := s.books.GetByTitle(ctx, title)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrBookNotFound
		}
		return err
	}
	return s.requests.DeleteByBookID(ctx, book.ID)
}

func (s *Service) GetAll(ctx context.Context) ([]domain.RequestView, error) {
	return s.requests.ListAll(ctx)
}

func (s *Service) GetPending(ctx context.Context) ([]domain.RequestView, error) {
	return s.requests.ListPending(ctx)
}

func (s *Service) GetByUser(ctx context.Context, userID int64) ([]domain.RequestView, error) {
	return s.requests.ListByUser(ctx, userID)
}

func (s *Service) GetByID(ctx context.Context, id int64) (*domain.RequestView, error) {
	v, err := s.requests.GetViewByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRequestNotFound
		}
		return nil, err
	}
	return v, nil
}
