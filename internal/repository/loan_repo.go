package repository

import (
	"context"
	"time"

	"unilib/internal/domain"

	"gorm.io/gorm"
)

type LoanRepository struct {
	db *gorm.DB
}

func NewLoanRepository(db *gorm.DB) *LoanRepository {
	return &LoanRepository{db: db}
}

type loanModel struct {
	ID         int64      `gorm:"column:id;primaryKey"`
	BookID     int64      `gorm:"column:book_id;index"`
	UserID     int64      `gorm:"column:user_id;index"`
	BookTitle  string     `gorm:"column:book_title"`
	BorrowedAt time.Time  `gorm:"column:borrowed_at"`
	ReturnDate time.Time  `gorm:"column:return_date;index"`
	Returned   bool       `gorm:"column:returned"`
	ReturnedAt *time.Time `gorm:"column:returned_at"`
}

func (loanModel) TableName() string { return "loans" }

func toDomainLoan(m loanModel) *domain.Loan {
	return &domain.Loan{
		ID:         m.ID,
		BookID:     m.BookID,
		UserID:     m.UserID,
		BookTitle:  m.BookTitle,
		BorrowedAt: m.BorrowedAt,
		ReturnDate: m.ReturnDate,
		Returned:   m.Returned,
		ReturnedAt: m.ReturnedAt,
	}
}

func (r *LoanRepository) Create(ctx context.Context, l *domain.Loan) error {
	m := loanModel{
		BookID:     l.BookID,
		UserID:     l.UserID,
		BookTitle:  l.BookTitle,
		BorrowedAt: l.BorrowedAt,
		ReturnDate: l.ReturnDate,
		Returned:   l.Returned,
		ReturnedAt: l.ReturnedAt,
	}
	tx := r.db.WithContext(ctx).Create(&m)
	if tx.Error != nil {
		return tx.Error
	}
	*l = *toDomainLoan(m)
	return nil
}

func (r *LoanRepository) GetByID(ctx context.Context, id int64) (*domain.Loan, error) {
	var m loanModel
	tx := r.db.WithContext(ctx).First(&m, id)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return toDomainLoan(m), nil
}

func (r *LoanRepository) MarkReturned(ctx context.Context, id int64, returnedAt time.Time) error {
	res := r.db.WithContext(ctx).
		Model(&loanModel{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"returned":    true,
			"returned_at": returnedAt,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *LoanRepository) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&loanModel{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// NearestActiveReturnDate returns the earliest return date among a book's
// active loans, or nil when none remain.
func (r *LoanRepository) NearestActiveReturnDate(ctx context.Context, bookID int64) (*time.Time, error) {
	var rows []loanModel
	tx := r.db.WithContext(ctx).
		Where("book_id = ? AND returned = ?", bookID, false).
		Order("return_date ASC").
		Limit(1).
		Find(&rows)
	if tx.Error != nil {
		return nil, tx.Error
	}
	if len(rows) == 0 {
		return nil, nil
	}
	d := rows[0].ReturnDate
	return &d, nil
}

// DueBetween lists active loans whose return date falls inside [start, end).
func (r *LoanRepository) DueBetween(ctx context.Context, start, end time.Time) ([]domain.Loan, error) {
	var rows []loanModel
	tx := r.db.WithContext(ctx).
		Where("returned = ? AND return_date >= ? AND return_date < ?", false, start, end).
		Order("return_date ASC").
		Find(&rows)
	if tx.Error != nil {
		return nil, tx.Error
	}

	out := make([]domain.Loan, 0, len(rows))
	for _, m := range rows {
		out = append(out, *toDomainLoan(m))
	}
	return out, nil
}

type loanViewRow struct {
	ID         int64      `gorm:"column:id"`
	BookID     int64      `gorm:"column:book_id"`
	BookTitle  string     `gorm:"column:book_title"`
	Author     string     `gorm:"column:author"`
	UserID     int64      `gorm:"column:user_id"`
	Username   string     `gorm:"column:username"`
	Email      string     `gorm:"column:email"`
	BorrowedAt time.Time  `gorm:"column:borrowed_at"`
	ReturnDate time.Time  `gorm:"column:return_date"`
	Returned   bool       `gorm:"column:returned"`
	ReturnedAt *time.Time `gorm:"column:returned_at"`
}

func (r *LoanRepository) viewQuery(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("loans").
		Select(`loans.id, loans.book_id, loans.book_title, books.author,
			loans.user_id, users.username, users.email,
			loans.borrowed_at, loans.return_date, loans.returned, loans.returned_at`).
		Joins("JOIN books ON books.id = loans.book_id").
		Joins("JOIN users ON users.id = loans.user_id").
		Order("loans.return_date ASC")
}

func toLoanViews(rows []loanViewRow) []domain.LoanView {
	out := make([]domain.LoanView, 0, len(rows))
	for _, it := range rows {
		out = append(out, domain.LoanView{
			ID:         it.ID,
			BookID:     it.BookID,
			BookTitle:  it.BookTitle,
			Author:     it.Author,
			UserID:     it.UserID,
			Username:   it.Username,
			Email:      it.Email,
			BorrowedAt: it.BorrowedAt,
			ReturnDate: it.ReturnDate,
			Returned:   it.Returned,
			ReturnedAt: it.ReturnedAt,
		})
	}
	return out
}

func (r *LoanRepository) ListAll(ctx context.Context) ([]domain.LoanView, error) {
	var rows []loanViewRow
	if err := r.viewQuery(ctx).Scan(&rows).Error; err != nil {
		return nil, err
	}
	return toLoanViews(rows), nil
}

func (r *LoanRepository) ListActive(ctx context.Context) ([]domain.LoanView, error) {
	var rows []loanViewRow
	q := r.viewQuery(ctx).Where("loans.returned = ?", false)
	if err := q.Scan(&rows).Error; err != nil {
		return nil, err
	}
	return toLoanViews(rows), nil
}

func (r *LoanRepository) ListOverdue(ctx context.Context, now time.Time) ([]domain.LoanView, error) {
	var rows []loanViewRow
	q := r.viewQuery(ctx).Where("loans.returned = ? AND loans.return_date < ?", false, now)
	if err := q.Scan(&rows).Error; err != nil {
		return nil, err
	}
	return toLoanViews(rows), nil
}

func (r *LoanRepository) ListByUser(ctx context.Context, userID int64) ([]domain.LoanView, error) {
	var rows []loanViewRow
	q := r.viewQuery(ctx).Where("loans.user_id = ?", userID)
	if err := q.Scan(&rows).Error; err != nil {
		return nil, err
	}
	return toLoanViews(rows), nil
}

func (r *LoanRepository) GetViewByID(ctx context.Context, id int64) (*domain.LoanView, error) {
	var rows []loanViewRow
	q := r.viewQuery(ctx).Where("loans.id = ?", id)
	if err := q.Scan(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	views := toLoanViews(rows)
	return &views[0], nil
}
