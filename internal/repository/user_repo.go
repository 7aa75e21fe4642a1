package repository

import (
	"context"
	"strings"
	"time"

	"unilib/internal/domain"

	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

type userModel struct {
	ID           int64     `gorm:"column:id;primaryKey"`
	Username     string    `gorm:"column:username;uniqueIndex"`
	Email        string    `gorm:"column:email;uniqueIndex"`
	PasswordHash string    `gorm:"column:password_hash"`
	Role         string    `gorm:"column:role"`
	ImageURL     *string   `gorm:"column:image_url"`
	CreatedAt    time.Time `gorm:"column:created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at"`
}

func (userModel) TableName() string { return "users" }

type savedBookModel struct {
	ID     int64 `gorm:"column:id;primaryKey"`
	UserID int64 `gorm:"column:user_id;index:ux_saved_book,unique"`
	BookID int64 `gorm:"column:book_id;index:ux_saved_book,unique"`
}

func (savedBookModel) TableName() string { return "saved_books" }

func toDomainUser(m userModel) *domain.User {
	var image string
	if m.ImageURL != nil {
		image = *m.ImageURL
	}

	return &domain.User{
		ID:           m.ID,
		Username:     m.Username,
		Email:        m.Email,
		PasswordHash: m.PasswordHash,
		Role:         domain.UserRole(m.Role),
		ImageURL:     image,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

func toUserModel(u *domain.User) userModel {
	email := strings.TrimSpace(strings.ToLower(u.Email))

	var image *string
	if u.ImageURL != "" {
		v := u.ImageURL
		image = &v
	}

	return userModel{
		ID:           u.ID,
		Username:     u.Username,
		Email:        email,
		PasswordHash: u.PasswordHash,
		Role:         string(u.Role),
		ImageURL:     image,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

func (r *UserRepository) Create(ctx context.Context, u *domain.User) error {
	m := toUserModel(u)
	tx := r.db.WithContext(ctx).Create(&m)
	if tx.Error != nil {
		return tx.Error
	}
	*u = *toDomainUser(m)
	return nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	var m userModel
	tx := r.db.WithContext(ctx).
		Where("LOWER(email) = ?", strings.ToLower(strings.TrimSpace(email))).
		First(&m)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return toDomainUser(m), nil
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	var m userModel
	tx := r.db.WithContext(ctx).First(&m, id)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return toDomainUser(m), nil
}

func (r *UserRepository) List(ctx context.Context) ([]domain.User, error) {
	var rows []userModel
	tx := r.db.WithContext(ctx).Order("id").Find(&rows)
	if tx.Error != nil {
		return nil, tx.Error
	}

	out := make([]domain.User, 0, len(rows))
	for _, m := range rows {
		out = append(out, *toDomainUser(m))
	}
	return out, nil
}

// Update writes the given fields; zero-value fields are left untouched.
func (r *UserRepository) Update(ctx context.Context, id int64, fields map[string]any) (*domain.User, error) {
	res := r.db.WithContext(ctx).
		Model(&userModel{}).
		Where("id = ?", id).
		Updates(fields)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return r.GetByID(ctx, id)
}

func (r *UserRepository) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&userModel{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *UserRepository) SaveBook(ctx context.Context, userID, bookID int64) error {
	m := savedBookModel{UserID: userID, BookID: bookID}
	return r.db.WithContext(ctx).Create(&m).Error
}

func (r *UserRepository) HasSavedBook(ctx context.Context, userID, bookID int64) (bool, error) {
	var cnt int64
	tx := r.db.WithContext(ctx).
		Model(&savedBookModel{}).
		Where("user_id = ? AND book_id = ?", userID, bookID).
		Count(&cnt)
	if tx.Error != nil {
		return false, tx.Error
	}
	return cnt > 0, nil
}

func (r *UserRepository) UnsaveBook(ctx context.Context, userID, bookID int64) error {
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND book_id = ?", userID, bookID).
		Delete(&savedBookModel{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *UserRepository) ListSavedBooks(ctx context.Context, userID int64) ([]domain.Book, error) {
	var rows []bookModel
	tx := r.db.WithContext(ctx).
		Table("books").
		Joins("JOIN saved_books ON saved_books.book_id = books.id").
		Where("saved_books.user_id = ?", userID).
		Order("books.title").
		Find(&rows)
	if tx.Error != nil {
		return nil, tx.Error
	}

	out := make([]domain.Book, 0, len(rows))
	for _, m := range rows {
		out = append(out, *toDomainBook(m))
	}
	return out, nil
}
