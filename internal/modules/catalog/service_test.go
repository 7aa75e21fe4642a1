package catalog

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

func newTestService(t *testing.T) (*Service, *repository.Store) {
	t.Helper()

	db, err := database.Connect(":memory:")
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, repository.AutoMigrate(db))

	store := repository.NewStore(db)
	return NewService(store.Books, store.Users), store
}

func seedUser(t *testing.T, store *repository.Store) *domain.User {
	t.Helper()

	now := time.Now()
	u := &domain.User{
		Username:     "reader",
		Email:        "reader@unilib.edu",
		PasswordHash: "x",
		Role:         domain.RoleUser,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	require.NoError(t, store.Users.Create(context.Background(), u))
	return u
}

func TestCreateBook(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	b, err := svc.Create(ctx, CreateBookRequest{
		Title:    "Clean Architecture",
		Author:   "Robert C. Martin",
		Category: "Software Engineering",
		Stock:    2,
	})
	require.NoError(t, err)
	assert.NotZero(t, b.ID)
	assert.False(t, b.IsOutOfStock)

	_, err = svc.Create(ctx, CreateBookRequest{
		Title:  "Clean Architecture",
		Author: "Robert C. Martin",
		Stock:  1,
	})
	assert.ErrorIs(t, err, ErrBookExists)
}

func TestCreateBookZeroStock(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	b, err := svc.Create(ctx, CreateBookRequest{
		Title:  "Rare Book",
		Author: "Unknown",
		Stock:  0,
	})
	require.NoError(t, err)
	assert.True(t, b.IsOutOfStock)
}

func TestListWithFilters(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	_, err := svc.Create(ctx, CreateBookRequest{Title: "Book A", Author: "Alice", Category: "Databases", Stock: 1})
	require.NoError(t, err)
	_, err = svc.Create(ctx, CreateBookRequest{Title: "Book B", Author: "Bob", Category: "Databases", Stock: 1})
	require.NoError(t, err)
	_, err = svc.Create(ctx, CreateBookRequest{Title: "Book C", Author: "Alice", Category: "Networking", Stock: 1})
	require.NoError(t, err)

	all, err := svc.List(ctx, repository.ListFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	byAuthor, err := svc.List(ctx, repository.ListFilter{Author: "Alice"})
	require.NoError(t, err)
	assert.Len(t, byAuthor, 2)

	byBoth, err := svc.List(ctx, repository.ListFilter{Author: "Alice", Category: "Databases"})
	require.NoError(t, err)
	require.Len(t, byBoth, 1)
	assert.Equal(t, "Book A", byBoth[0].Title)
}

func TestSearch(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	_, err := svc.Create(ctx, CreateBookRequest{Title: "The Go Programming Language", Author: "Donovan", Stock: 1})
	require.NoError(t, err)
	_, err = svc.Create(ctx, CreateBookRequest{Title: "Clean Architecture", Author: "Martin", Stock: 1})
	require.NoError(t, err)

	found, err := svc.Search(ctx, "go program")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "The Go Programming Language", found[0].Title)

	none, err := svc.Search(ctx, "cooking")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestUpdateBookStockFlipsAvailability(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	_, err := svc.Create(ctx, CreateBookRequest{Title: "Clean Architecture", Author: "Martin", Stock: 2})
	require.NoError(t, err)

	zero := 0
	b, err := svc.Update(ctx, "Clean Architecture", UpdateBookRequest{Stock: &zero})
	require.NoError(t, err)
	assert.Equal(t, 0, b.Stock)
	assert.True(t, b.IsOutOfStock)

	_, err = svc.Update(ctx, "No Such Book", UpdateBookRequest{Stock: &zero})
	assert.ErrorIs(t, err, ErrBookNotFound)
}

func TestDeleteBook(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	_, err := svc.Create(ctx, CreateBookRequest{Title: "Clean Architecture", Author: "Martin", Stock: 1})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, "Clean Architecture"))
	assert.ErrorIs(t, svc.Delete(ctx, "Clean Architecture"), ErrBookNotFound)
}

func TestSaveAndUnsaveBook(t *testing.T) {
	ctx := context.Background()
	svc, store := newTestService(t)

	user := seedUser(t, store)
	_, err := svc.Create(ctx, CreateBookRequest{Title: "Clean Architecture", Author: "Martin", Stock: 1})
	require.NoError(t, err)

	require.NoError(t, svc.SaveBook(ctx, user.ID, "Clean Architecture"))
	// Saving twice is a no-op, not an error.
	require.NoError(t, svc.SaveBook(ctx, user.ID, "Clean Architecture"))

	saved, err := store.Users.ListSavedBooks(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, saved, 1)
	assert.Equal(t, "Clean Architecture", saved[0].Title)

	require.NoError(t, svc.UnsaveBook(ctx, user.ID, "Clean Architecture"))

	saved, err = store.Users.ListSavedBooks(ctx, user.ID)
	require.NoError(t, err)
	assert.Empty(t, saved)
}

func TestSaveBookUnknownUser(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	_, err := svc.Create(ctx, CreateBookRequest{Title: "Clean Architecture", Author: "Martin", Stock: 1})
	require.NoError(t, err)

	assert.ErrorIs(t, svc.SaveBook(ctx, 9999, "Clean Architecture"), ErrUserNotFound)
}
