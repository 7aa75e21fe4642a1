package catalog

import (
	"context"
	"errors"
	"time"

	"unilib/internal/domain"
	"unilib/internal/repository"

	"gorm.io/gorm"
)

type Service struct {
	books *repository.BookRepository
	users *repository.UserRepository
}

func NewService(books *repository.BookRepository, users *repository.UserRepository) *Service {
	return &Service{books: books, users: users}
}

func (s *Service) Create(ctx context.Context, req CreateBookRequest) (*domain.Book, error) {
	exists, err := s.books.ExistsByTitleAuthor(ctx, req.Title, req.Author)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrBookExists
	}

	now := time.Now()
	b := &domain.Book{
		Title:        req.Title,
		Author:       req.Author,
		Summary:      req.Summary,
		Publisher:    req.Publisher,
		Category:     req.Category,
		Language:     req.Language,
		Location:     req.Location,
		Stock:        req.Stock,
		IsOutOfStock: req.Stock == 0,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.books.Create(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

func (s *Service) List(ctx context.Context, f repository.ListFilter) ([]domain.Book, error) {
	return s.books.List(ctx, f)
}

func (s *Service) GetByTitle(ctx context.Context, title string) (*domain.Book, error) {
	b, err := s.books.GetByTitle(ctx, title)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookNotFound
		}
		return nil, err
	}
	return b, nil
}

func (s *Service) Search(ctx context.Context, title string) ([]domain.Book, error) {
	return s.books.Search(ctx, title)
}

func (s *Service) Update(ctx context.Context, title string, req UpdateBookRequest) (*domain.Book, error) {
	fields := map[string]any{}
	if req.Title != nil {
		fields["title"] = *req.Title
	}
	if req.Author != nil {
		fields["author"] = *req.Author
	}
	if req.Summary != nil {
		fields["summary"] = *req.Summary
	}
	if req.Publisher != nil {
		fields["publisher"] = *req.Publisher
	}
	if req.Category != nil {
		fields["category"] = *req.Category
	}
	if req.Language != nil {
		fields["language"] = *req.Language
	}
	if req.Location != nil {
		fields["location"] = *req.Location
	}
	if req.Stock != nil {
		fields["stock"] = *req.Stock
		fields["is_out_of_stock"] = *req.Stock == 0
	}
	fields["updated_at"] = time.Now()

	b, err := s.books.UpdateByTitle(ctx, title, fields)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookNotFound
		}
		return nil, err
	}
	return b, nil
}

func (s *Service) Delete(ctx context.Context, title string) error {
	err := s.books.DeleteByTitle(ctx, title)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrBookNotFound
	}
	return err
}

func (s *Service) SaveBook(ctx context.Context, userID int64, title string) error {
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	b, err := s.books.GetByTitle(ctx, title)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrBookNotFound
		}
		return err
	}

	saved, err := s.users.HasSavedBook(ctx, userID, b.ID)
	if err != nil {
		return err
	}
	if saved {
		// Already on the list; nothing to do.
		return nil
	}
	return s.users.SaveBook(ctx, userID, b.ID)
}

func (s *Service) UnsaveBook(ctx context.Context, userID int64, title string) error {
	b, err := s.books.GetByTitle(ctx, title)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrBookNotFound
		}
		return err
	}

	err = s.users.UnsaveBook(ctx, userID, b.ID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		// Book was not saved; treat as done.
		return nil
	}
	return err
}
