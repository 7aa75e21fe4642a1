package repository

import (
	"context"
	"strings"
	"time"

	"unilib/internal/domain"

	"gorm.io/gorm"
)

type BookRepository struct {
	db *gorm.DB
}

func NewBookRepository(db *gorm.DB) *BookRepository {
	return &BookRepository{db: db}
}

type bookModel struct {
	ID                int64      `gorm:"column:id;primaryKey"`
	Title             string     `gorm:"column:title;index:ux_book_title_author,unique"`
	Author            string     `gorm:"column:author;index:ux_book_title_author,unique"`
	Summary           *string    `gorm:"column:summary"`
	Publisher         *string    `gorm:"column:publisher"`
	Category          *string    `gorm:"column:category"`
	Language          *string    `gorm:"column:language"`
	Location          *string    `gorm:"column:location"`
	Stock             int        `gorm:"column:stock"`
	IsOutOfStock      bool       `gorm:"column:is_out_of_stock"`
	NearestReturnDate *time.Time `gorm:"column:nearest_return_date"`
	CreatedAt         time.Time  `gorm:"column:created_at"`
	UpdatedAt         time.Time  `gorm:"column:updated_at"`
}

func (bookModel) TableName() string { return "books" }

func strVal(p *string) string {
	if p != nil {
		return *p
	}
	return ""
}

func strPtr(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}

func toDomainBook(m bookModel) *domain.Book {
	return &domain.Book{
		ID:                m.ID,
		Title:             m.Title,
		Author:            m.Author,
		Summary:           strVal(m.Summary),
		Publisher:         strVal(m.Publisher),
		Category:          strVal(m.Category),
		Language:          strVal(m.Language),
		Location:          strVal(m.Location),
		Stock:             m.Stock,
		IsOutOfStock:      m.IsOutOfStock,
		NearestReturnDate: m.NearestReturnDate,
		CreatedAt:         m.CreatedAt,
		UpdatedAt:         m.UpdatedAt,
	}
}

func toBookModel(b *domain.Book) bookModel {
	return bookModel{
		ID:                b.ID,
		Title:             b.Title,
		Author:            b.Author,
		Summary:           strPtr(b.Summary),
		Publisher:         strPtr(b.Publisher),
		Category:          strPtr(b.Category),
		Language:          strPtr(b.Language),
		Location:          strPtr(b.Location),
		Stock:             b.Stock,
		IsOutOfStock:      b.IsOutOfStock,
		NearestReturnDate: b.NearestReturnDate,
		CreatedAt:         b.CreatedAt,
		UpdatedAt:         b.UpdatedAt,
	}
}

func (r *BookRepository) Create(ctx context.Context, b *domain.Book) error {
	m := toBookModel(b)
	tx := r.db.WithContext(ctx).Create(&m)
	if tx.Error != nil {
		return tx.Error
	}
	*b = *toDomainBook(m)
	return nil
}

func (r *BookRepository) GetByID(ctx context.Context, id int64) (*domain.Book, error) {
	var m bookModel
	tx := r.db.WithContext(ctx).First(&m, id)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return toDomainBook(m), nil
}

func (r *BookRepository) GetByTitle(ctx context.Context, title string) (*domain.Book, error) {
	var m bookModel
	tx := r.db.WithContext(ctx).Where("title = ?", title).First(&m)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return toDomainBook(m), nil
}

func (r *BookRepository) ExistsByTitleAuthor(ctx context.Context, title, author string) (bool, error) {
	var cnt int64
	tx := r.db.WithContext(ctx).
		Model(&bookModel{}).
		Where("title = ? AND author = ?", title, author).
		Count(&cnt)
	if tx.Error != nil {
		return false, tx.Error
	}
	return cnt > 0, nil
}

// ListFilter holds the optional equality filters for catalog listings.
type ListFilter struct {
	Author    string
	Category  string
	Language  string
	Location  string
	Publisher string
}

func (r *BookRepository) List(ctx context.Context, f ListFilter) ([]domain.Book, error) {
	q := r.db.WithContext(ctx).Model(&bookModel{}).Order("title")
	if f.Author != "" {
		q = q.Where("author = ?", f.Author)
	}
	if f.Category != "" {
		q = q.Where("category = ?", f.Category)
	}
	if f.Language != "" {
		q = q.Where("language = ?", f.Language)
	}
	if f.Location != "" {
		q = q.Where("location = ?", f.Location)
	}
	if f.Publisher != "" {
		q = q.Where("publisher = ?", f.Publisher)
	}

	var rows []bookModel
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}

	out := make([]domain.Book, 0, len(rows))
	for _, m := range rows {
		out = append(out, *toDomainBook(m))
	}
	return out, nil
}

func (r *BookRepository) Search(ctx context.Context, title string) ([]domain.Book, error) {
	pattern := "%" + strings.ToLower(title) + "%"
	var rows []bookModel
	tx := r.db.WithContext(ctx).
		Where("LOWER(title) LIKE ?", pattern).
		Order("title").
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

func (r *BookRepository) UpdateByTitle(ctx context.Context, title string, fields map[string]any) (*domain.Book, error) {
	res := r.db.WithContext(ctx).
		Model(&bookModel{}).
		Where("title = ?", title).
		Updates(fields)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}

	newTitle := title
	if v, ok := fields["title"].(string); ok && v != "" {
		newTitle = v
	}
	return r.GetByTitle(ctx, newTitle)
}

// Save persists the stock, availability and nearest-return-date fields; the
// borrow workflow calls this inside its transaction.
func (r *BookRepository) Save(ctx context.Context, b *domain.Book) error {
	return r.db.WithContext(ctx).
		Model(&bookModel{}).
		Where("id = ?", b.ID).
		Updates(map[string]any{
			"stock":               b.Stock,
			"is_out_of_stock":     b.IsOutOfStock,
			"nearest_return_date": b.NearestReturnDate,
		}).Error
}

func (r *BookRepository) DeleteByTitle(ctx context.Context, title string) error {
	res := r.db.WithContext(ctx).Where("title = ?", title).Delete(&bookModel{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
