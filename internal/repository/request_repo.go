package repository

import (
	"context"
	"time"

	"unilib/internal/domain"

	"gorm.io/gorm"
)

type RequestRepository struct {
	db *gorm.DB
}

func NewRequestRepository(db *gorm.DB) *RequestRepository {
	return &RequestRepository{db: db}
}

type requestModel struct {
	ID         int64      `gorm:"column:id;primaryKey"`
	BookID     int64      `gorm:"column:book_id;index:ux_pending_request,unique,where:status = 'pending'"`
	UserID     int64      `gorm:"column:user_id;index:ux_pending_request,unique,where:status = 'pending'"`
	Status     string     `gorm:"column:status"`
	CreatedAt  time.Time  `gorm:"column:created_at"`
	ResolvedAt *time.Time `gorm:"column:resolved_at"`
}

func (requestModel) TableName() string { return "requests" }

func toDomainRequest(m requestModel) *domain.BorrowRequest {
	return &domain.BorrowRequest{
		ID:         m.ID,
		BookID:     m.BookID,
		UserID:     m.UserID,
		Status:     domain.RequestStatus(m.Status),
		CreatedAt:  m.CreatedAt,
		ResolvedAt: m.ResolvedAt,
	}
}

func (r *RequestRepository) Create(ctx context.Context, req *domain.BorrowRequest) error {
	m := requestModel{
		BookID:     req.BookID,
		UserID:     req.UserID,
		Status:     string(req.Status),
		CreatedAt:  req.CreatedAt,
		ResolvedAt: req.ResolvedAt,
	}
	tx := r.db.WithContext(ctx).Create(&m)
	if tx.Error != nil {
		return tx.Error
	}
	*req = *toDomainRequest(m)
	return nil
}

func (r *RequestRepository) GetByID(ctx context.Context, id int64) (*domain.BorrowRequest, error) {
	var m requestModel
	tx := r.db.WithContext(ctx).First(&m, id)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return toDomainRequest(m), nil
}

func (r *RequestRepository) ExistsPending(ctx context.Context, userID, bookID int64) (bool, error) {
	var cnt int64
	tx := r.db.WithContext(ctx).
		Model(&requestModel{}).
		Where("user_id = ? AND book_id = ? AND status = ?", userID, bookID, string(domain.RequestPending)).
		Count(&cnt)
	if tx.Error != nil {
		return false, tx.Error
	}
	return cnt > 0, nil
}

func (r *RequestRepository) UpdateStatus(ctx context.Context, id int64, status domain.RequestStatus, resolvedAt time.Time) error {
	res := r.db.WithContext(ctx).
		Model(&requestModel{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":      string(status),
			"resolved_at": resolvedAt,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *RequestRepository) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&requestModel{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *RequestRepository) DeleteByBookID(ctx context.Context, bookID int64) error {
	return r.db.WithContext(ctx).
		Where("book_id = ?", bookID).
		Delete(&requestModel{}).Error
}

type requestViewRow struct {
	ID        int64     `gorm:"column:id"`
	Status    string    `gorm:"column:status"`
	BookID    int64     `gorm:"column:book_id"`
	BookTitle string    `gorm:"column:book_title"`
	Author    string    `gorm:"column:author"`
	UserID    int64     `gorm:"column:user_id"`
	Username  string    `gorm:"column:username"`
	Email     string    `gorm:"column:email"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

func (r *RequestRepository) viewQuery(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("requests").
		Select(`requests.id, requests.status, requests.created_at,
			requests.book_id, books.title AS book_title, books.author,
			requests.user_id, users.username, users.email`).
		Joins("JOIN books ON books.id = requests.book_id").
		Joins("JOIN users ON users.id = requests.user_id").
		Order("requests.created_at")
}

func toRequestViews(rows []requestViewRow) []domain.RequestView {
	out := make([]domain.RequestView, 0, len(rows))
	for _, it := range rows {
		out = append(out, domain.RequestView{
			ID:        it.ID,
			Status:    domain.RequestStatus(it.Status),
			BookID:    it.BookID,
			BookTitle: it.BookTitle,
			Author:    it.Author,
			UserID:    it.UserID,
			Username:  it.Username,
			Email:     it.Email,
			CreatedAt: it.CreatedAt,
		})
	}
	return out
}

func (r *RequestRepository) ListAll(ctx context.Context) ([]domain.RequestView, error) {
	var rows []requestViewRow
	if err := r.viewQuery(ctx).Scan(&rows).Error; err != nil {
		return nil, err
	}
	return toRequestViews(rows), nil
}

func (r *RequestRepository) ListPending(ctx context.Context) ([]domain.RequestView, error) {
	var rows []requestViewRow
	q := r.viewQuery(ctx).Where("requests.status = ?", string(domain.RequestPending))
	if err := q.Scan(&rows).Error; err != nil {
		return nil, err
	}
	return toRequestViews(rows), nil
}

func (r *RequestRepository) ListByUser(ctx context.Context, userID int64) ([]domain.RequestView, error) {
	var rows []requestViewRow
	q := r.viewQuery(ctx).Where("requests.user_id = ?", userID)
	if err := q.Scan(&rows).Error; err != nil {
		return nil, err
	}
	return toRequestViews(rows), nil
}

func (r *RequestRepository) GetViewByID(ctx context.Context, id int64) (*domain.RequestView, error) {
	var rows []requestViewRow
	q := r.viewQuery(ctx).Where("requests.id = ?", id)
	if err := q.Scan(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	views := toRequestViews(rows)
	return &views[0], nil
}
