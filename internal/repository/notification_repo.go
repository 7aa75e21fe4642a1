package repository

import (
	"context"
	"time"

	"unilib/internal/domain"

	"gorm.io/gorm"
)

type NotificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

type notificationModel struct {
	ID        int64     `gorm:"column:id;primaryKey"`
	UserID    int64     `gorm:"column:user_id;index"`
	FromName  string    `gorm:"column:from_name"`
	Body      string    `gorm:"column:body"`
	BookTitle string    `gorm:"column:book_title"`
	LoanID    *int64    `gorm:"column:loan_id"`
	Read      bool      `gorm:"column:read"`
	CreatedAt time.Time `gorm:"column:created_at;index"`
}

func (notificationModel) TableName() string { return "notifications" }

func toDomainNotification(m notificationModel) *domain.Notification {
	return &domain.Notification{
		ID:        m.ID,
		UserID:    m.UserID,
		From:      m.FromName,
		Body:      m.Body,
		BookTitle: m.BookTitle,
		LoanID:    m.LoanID,
		Read:      m.Read,
		CreatedAt: m.CreatedAt,
	}
}

func (r *NotificationRepository) Create(ctx context.Context, n *domain.Notification) error {
	m := notificationModel{
		UserID:    n.UserID,
		FromName:  n.From,
		Body:      n.Body,
		BookTitle: n.BookTitle,
		LoanID:    n.LoanID,
		Read:      n.Read,
		CreatedAt: n.CreatedAt,
	}
	tx := r.db.WithContext(ctx).Create(&m)
	if tx.Error != nil {
		return tx.Error
	}
	*n = *toDomainNotification(m)
	return nil
}

func (r *NotificationRepository) ListForUser(ctx context.Context, userID int64) ([]domain.Notification, error) {
	var rows []notificationModel
	tx := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&rows)
	if tx.Error != nil {
		return nil, tx.Error
	}

	out := make([]domain.Notification, 0, len(rows))
	for _, m := range rows {
		out = append(out, *toDomainNotification(m))
	}
	return out, nil
}

// ExistsSystemForWindow reports whether a system-authored notice for this
// recipient and title was already created inside [start, end).
func (r *NotificationRepository) ExistsSystemForWindow(ctx context.Context, userID int64, bookTitle string, start, end time.Time) (bool, error) {
	var cnt int64
	tx := r.db.WithContext(ctx).
		Model(&notificationModel{}).
		Where("user_id = ? AND book_title = ? AND from_name = ? AND created_at >= ? AND created_at < ?",
			userID, bookTitle, domain.SystemSender, start, end).
		Count(&cnt)
	if tx.Error != nil {
		return false, tx.Error
	}
	return cnt > 0, nil
}

func (r *NotificationRepository) MarkRead(ctx context.Context, id int64) (*domain.Notification, error) {
	res := r.db.WithContext(ctx).
		Model(&notificationModel{}).
		Where("id = ?", id).
		Update("read", true)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}

	var m notificationModel
	if err := r.db.WithContext(ctx).First(&m, id).Error; err != nil {
		return nil, err
	}
	return toDomainNotification(m), nil
}

func (r *NotificationRepository) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&notificationModel{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
