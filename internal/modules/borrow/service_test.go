package borrow

import (
	"context"
	"testing"
	"time"

	"unilib/internal/database"
	"unilib/internal/domain"
	"unilib/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) (*repository.Store, *repository.Atomic) {
	t.Helper()

	db, err := database.Connect(":memory:")
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// One connection so every query sees the same in-memory database.
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, repository.AutoMigrate(db))

	return repository.NewStore(db), repository.NewAtomic(db)
}

func seedUser(t *testing.T, store *repository.Store, username, email string) *domain.User {
	t.Helper()

	now := time.Now()
	u := &domain.User{
		Username:     username,
		Email:        email,
		PasswordHash: "x",
		Role:         domain.RoleUser,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	require.NoError(t, store.Users.Create(context.Background(), u))
	return u
}

func seedBook(t *testing.T, store *repository.Store, title string, stock int) *domain.Book {
	t.Helper()

	now := time.Now()
	b := &domain.Book{
		Title:        title,
		Author:       "Test Author",
		Stock:        stock,
		IsOutOfStock: stock == 0,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	require.NoError(t, store.Books.Create(context.Background(), b))
	return b
}

func seedRequest(t *testing.T, store *repository.Store, bookID, userID int64) *domain.BorrowRequest {
	t.Helper()

	req := &domain.BorrowRequest{
		BookID:    bookID,
		UserID:    userID,
		Status:    domain.RequestPending,
		CreatedAt: time.Now(),
	}
	require.NoError(t, store.Requests.Create(context.Background(), req))
	return req
}

func TestCreateFromRequest(t *testing.T) {
	ctx := context.Background()
	store, atomic := newTestStore(t)
	svc := NewService(atomic, store.Loans)

	user := seedUser(t, store, "reader", "reader@unilib.edu")
	book := seedBook(t, store, "Clean Architecture", 1)
	req := seedRequest(t, store, book.ID, user.ID)

	loan, err := svc.CreateFromRequest(ctx, req.ID, 7)
	require.NoError(t, err)

	assert.Equal(t, book.ID, loan.BookID)
	assert.Equal(t, user.ID, loan.UserID)
	assert.Equal(t, book.Title, loan.BookTitle)
	assert.False(t, loan.Returned)
	assert.WithinDuration(t, time.Now().AddDate(0, 0, 7), loan.ReturnDate, time.Minute)

	// Last copy went out, the book must now read as exhausted.
	updated, err := store.Books.GetByID(ctx, book.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, updated.Stock)
	assert.True(t, updated.IsOutOfStock)
	require.NotNil(t, updated.NearestReturnDate)
	assert.WithinDuration(t, loan.ReturnDate, *updated.NearestReturnDate, time.Second)

	// The request is consumed by the approval.
	_, err = store.Requests.GetByID(ctx, req.ID)
	assert.Error(t, err)
}

func TestCreateFromRequestOutOfStock(t *testing.T) {
	ctx := context.Background()
	store, atomic := newTestStore(t)
	svc := NewService(atomic, store.Loans)

	user := seedUser(t, store, "reader", "reader@unilib.edu")
	book := seedBook(t, store, "Rare Book", 0)
	req := seedRequest(t, store, book.ID, user.ID)

	_, err := svc.CreateFromRequest(ctx, req.ID, 0)
	assert.ErrorIs(t, err, ErrOutOfStock)

	// A failed approval leaves the request untouched.
	_, err = store.Requests.GetByID(ctx, req.ID)
	assert.NoError(t, err)
}

func TestCreateFromRequestMissing(t *testing.T) {
	ctx := context.Background()
	store, atomic := newTestStore(t)
	svc := NewService(atomic, store.Loans)

	_, err := svc.CreateFromRequest(ctx, 9999, 0)
	assert.ErrorIs(t, err, ErrRequestNotFound)
}

func TestNearestReturnDateKeepsEarliest(t *testing.T) {
	ctx := context.Background()
	store, atomic := newTestStore(t)
	svc := NewService(atomic, store.Loans)

	first := seedUser(t, store, "first", "first@unilib.edu")
	second := seedUser(t, store, "second", "second@unilib.edu")
	book := seedBook(t, store, "Popular Book", 3)

	reqA := seedRequest(t, store, book.ID, first.ID)
	loanA, err := svc.CreateFromRequest(ctx, reqA.ID, 5)
	require.NoError(t, err)

	reqB := seedRequest(t, store, book.ID, second.ID)
	_, err = svc.CreateFromRequest(ctx, reqB.ID, 10)
	require.NoError(t, err)

	// Day-10 loan must not push the nearest date past the day-5 loan.
	updated, err := store.Books.GetByID(ctx, book.ID)
	require.NoError(t, err)
	require.NotNil(t, updated.NearestReturnDate)
	assert.WithinDuration(t, loanA.ReturnDate, *updated.NearestReturnDate, time.Second)
	assert.Equal(t, 1, updated.Stock)
}

func TestReturn(t *testing.T) {
	ctx := context.Background()
	store, atomic := newTestStore(t)
	svc := NewService(atomic, store.Loans)

	user := seedUser(t, store, "reader", "reader@unilib.edu")
	book := seedBook(t, store, "Clean Architecture", 1)
	req := seedRequest(t, store, book.ID, user.ID)

	loan, err := svc.CreateFromRequest(ctx, req.ID, 7)
	require.NoError(t, err)

	returned, err := svc.Return(ctx, loan.ID)
	require.NoError(t, err)
	assert.True(t, returned.Returned)
	require.NotNil(t, returned.ReturnedAt)

	updated, err := store.Books.GetByID(ctx, book.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, updated.Stock)
	assert.False(t, updated.IsOutOfStock)
	assert.Nil(t, updated.NearestReturnDate)
}

func TestReturnTwiceFails(t *testing.T) {
	ctx := context.Background()
	store, atomic := newTestStore(t)
	svc := NewService(atomic, store.Loans)

	user := seedUser(t, store, "reader", "reader@unilib.edu")
	book := seedBook(t, store, "Clean Architecture", 2)
	req := seedRequest(t, store, book.ID, user.ID)

	loan, err := svc.CreateFromRequest(ctx, req.ID, 7)
	require.NoError(t, err)

	_, err = svc.Return(ctx, loan.ID)
	require.NoError(t, err)

	_, err = svc.Return(ctx, loan.ID)
	assert.ErrorIs(t, err, ErrAlreadyReturned)

	// The double return must not inflate stock.
	updated, err := store.Books.GetByID(ctx, book.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, updated.Stock)
}

func TestReturnRecomputesNearestDate(t *testing.T) {
	ctx := context.Background()
	store, atomic := newTestStore(t)
	svc := NewService(atomic, store.Loans)

	first := seedUser(t, store, "first", "first@unilib.edu")
	second := seedUser(t, store, "second", "second@unilib.edu")
	book := seedBook(t, store, "Popular Book", 2)

	reqA := seedRequest(t, store, book.ID, first.ID)
	loanA, err := svc.CreateFromRequest(ctx, reqA.ID, 5)
	require.NoError(t, err)

	reqB := seedRequest(t, store, book.ID, second.ID)
	loanB, err := svc.CreateFromRequest(ctx, reqB.ID, 10)
	require.NoError(t, err)

	// Returning the day-5 loan leaves the day-10 loan as the nearest.
	_, err = svc.Return(ctx, loanA.ID)
	require.NoError(t, err)

	updated, err := store.Books.GetByID(ctx, book.ID)
	require.NoError(t, err)
	require.NotNil(t, updated.NearestReturnDate)
	assert.WithinDuration(t, loanB.ReturnDate, *updated.NearestReturnDate, time.Second)
}

func TestDeleteActiveLoanRestoresStock(t *testing.T) {
	ctx := context.Background()
	store, atomic := newTestStore(t)
	svc := NewService(atomic, store.Loans)

	user := seedUser(t, store, "reader", "reader@unilib.edu")
	book := seedBook(t, store, "Clean Architecture", 1)
	req := seedRequest(t, store, book.ID, user.ID)

	loan, err := svc.CreateFromRequest(ctx, req.ID, 7)
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, loan.ID))

	updated, err := store.Books.GetByID(ctx, book.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, updated.Stock)
	assert.False(t, updated.IsOutOfStock)
	assert.Nil(t, updated.NearestReturnDate)

	_, err = store.Loans.GetByID(ctx, loan.ID)
	assert.Error(t, err)
}

func TestDeleteReturnedLoanLeavesStock(t *testing.T) {
	ctx := context.Background()
	store, atomic := newTestStore(t)
	svc := NewService(atomic, store.Loans)

	user := seedUser(t, store, "reader", "reader@unilib.edu")
	book := seedBook(t, store, "Clean Architecture", 1)
	req := seedRequest(t, store, book.ID, user.ID)

	loan, err := svc.CreateFromRequest(ctx, req.ID, 7)
	require.NoError(t, err)

	_, err = svc.Return(ctx, loan.ID)
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, loan.ID))

	updated, err := store.Books.GetByID(ctx, book.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, updated.Stock)
}
