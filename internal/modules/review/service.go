package review

import (
	"context"
	"errors"
	"time"

	"unilib/internal/domain"
	"unilib/internal/repository"

	"gorm.io/gorm"
)

type Service struct {
	reviews *repository.ReviewRepository
	books   *repository.BookRepository
	users   *repository.UserRepository
}

func NewService(reviews *repository.ReviewRepository, books *repository.BookRepository, users *repository.UserRepository) *Service {
	return &Service{reviews: reviews, books: books, users: users}
}

// Create stores a review carrying a snapshot of the author's username, so
// the review stays readable even if the account is later removed.
func (s *Service) Create(ctx context.Context, userID int64, req CreateReviewRequest) (*domain.Review, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	book, err := s.books.GetByTitle(ctx, req.BookTitle)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookNotFound
		}
		return nil, err
	}

	now := time.Now()
	rv := &domain.Review{
		UserID:    user.ID,
		Username:  user.Username,
		BookTitle: book.Title,
		Rating:    req.Rating,
		Text:      req.Text,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.reviews.Create(ctx, rv); err != nil {
		return nil, err
	}
	return rv, nil
}

func (s *Service) GetForBook(ctx context.Context, title string) ([]domain.Review, error) {
	return s.reviews.ListByBookTitle(ctx, title)
}

func (s *Service) GetForUser(ctx context.Context, userID int64) ([]domain.Review, error) {
	return s.reviews.ListByUser(ctx, userID)
}

// Update lets the author edit their own review; admins can edit any.
func (s *Service) Update(ctx context.Context, id, callerID int64, isAdmin bool, req UpdateReviewRequest) (*domain.Review, error) {
	rv, err := s.reviews.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReviewNotFound
		}
		return nil, err
	}
	if rv.UserID != callerID && !isAdmin {
		return nil, ErrNotOwner
	}

	fields := map[string]any{}
	if req.Rating != nil {
		fields["rating"] = *req.Rating
	}
	if req.Text != nil {
		fields["text"] = *req.Text
	}
	fields["updated_at"] = time.Now()

	updated, err := s.reviews.Update(ctx, id, fields)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReviewNotFound
		}
		return nil, err
	}
	return updated, nil
}

func (s *Service) Delete(ctx context.Context, id, callerID int64, isAdmin bool) error {
	rv, err := s.reviews.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrReviewNotFound
		}
		return err
	}
	if rv.UserID != callerID && !isAdmin {
		return ErrNotOwner
	}
	return s.reviews.Delete(ctx, id)
}
