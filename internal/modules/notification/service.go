package notification

import (
	"context"
	"errors"
	"fmt"
	"time"

	"unilib/internal/domain"
	"unilib/internal/repository"

	"gorm.io/gorm"
)

type Service struct {
	notifications *repository.NotificationRepository
	loans         *repository.LoanRepository
}

func NewService(notifications *repository.NotificationRepository, loans *repository.LoanRepository) *Service {
	return &Service{notifications: notifications, loans: loans}
}

// CreateStaff stores a staff-authored notice about a loan. The recipient and
// book title are taken from the loan itself, so staff only name the record
// they are writing about.
func (s *Service) CreateStaff(ctx context.Context, req CreateNotificationRequest) (*domain.Notification, error) {
	loan, err := s.loans.GetByID(ctx, req.BorrowID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLoanNotFound
		}
		return nil, err
	}

	n := &domain.Notification{
		UserID:    loan.UserID,
		From:      req.From,
		Body:      req.Body,
		BookTitle: loan.BookTitle,
		LoanID:    &loan.ID,
		CreatedAt: time.Now(),
	}
	if err := s.notifications.Create(ctx, n); err != nil {
		return nil, err
	}
	return n, nil
}

// ScanDueToday creates one system reminder per loan due within the current
// calendar day. A reminder already created today for the same recipient and
// title suppresses the new one, so repeated scans stay idempotent.
func (s *Service) ScanDueToday(ctx context.Context, now time.Time) ([]domain.Notification, error) {
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	end := start.AddDate(0, 0, 1)

	due, err := s.loans.DueBetween(ctx, start, end)
	if err != nil {
		return nil, err
	}

	var created []domain.Notification
	for _, loan := range due {
		exists, err := s.notifications.ExistsSystemForWindow(ctx, loan.UserID, loan.BookTitle, start, end)
		if err != nil {
			return created, err
		}
		if exists {
			continue
		}

		loanID := loan.ID
		n := &domain.Notification{
			UserID:    loan.UserID,
			From:      domain.SystemSender,
			Body:      fmt.Sprintf("Please return %q today", loan.BookTitle),
			BookTitle: loan.BookTitle,
			LoanID:    &loanID,
			CreatedAt: now,
		}
		if err := s.notifications.Create(ctx, n); err != nil {
			return created, err
		}
		created = append(created, *n)
	}
	return created, nil
}

func (s *Service) GetForUser(ctx context.Context, userID int64) ([]domain.Notification, error) {
	return s.notifications.ListForUser(ctx, userID)
}

func (s *Service) MarkRead(ctx context.Context, id int64) (*domain.Notification, error) {
	n, err := s.notifications.MarkRead(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotificationNotFound
		}
		return nil, err
	}
	return n, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	err := s.notifications.Delete(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotificationNotFound
	}
	return err
}
