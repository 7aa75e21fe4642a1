package users

import (
	"context"
	"testing"
	"time"

	"unilib/internal/database"
	"unilib/internal/domain"
	"unilib/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
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
	return NewService(store.Users, store.Reviews), store
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

func TestGetUser(t *testing.T) {
	ctx := context.Background()
	svc, store := newTestService(t)

	u := seedUser(t, store, "reader", "reader@unilib.edu")

	got, err := svc.Get(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "reader", got.Username)

	_, err = svc.Get(ctx, 9999)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestUpdateUser(t *testing.T) {
	ctx := context.Background()
	svc, store := newTestService(t)

	u := seedUser(t, store, "reader", "reader@unilib.edu")

	newName := "bookworm"
	newEmail := "Bookworm@UniLib.edu"
	newPassword := "freshsecret"
	updated, err := svc.Update(ctx, u.ID, UpdateUserRequest{
		Username: &newName,
		Email:    &newEmail,
		Password: &newPassword,
	})
	require.NoError(t, err)

	assert.Equal(t, "bookworm", updated.Username)
	assert.Equal(t, "bookworm@unilib.edu", updated.Email)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(updated.PasswordHash), []byte("freshsecret")))

	_, err = svc.Update(ctx, 9999, UpdateUserRequest{Username: &newName})
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestDeleteUser(t *testing.T) {
	ctx := context.Background()
	svc, store := newTestService(t)

	u := seedUser(t, store, "reader", "reader@unilib.edu")

	require.NoError(t, svc.Delete(ctx, u.ID))
	assert.ErrorIs(t, svc.Delete(ctx, u.ID), ErrUserNotFound)
}

func TestSavedBooksAndReviews(t *testing.T) {
	ctx := context.Background()
	svc, store := newTestService(t)

	u := seedUser(t, store, "reader", "reader@unilib.edu")

	now := time.Now()
	book := &domain.Book{Title: "Clean Architecture", Author: "Martin", Stock: 1, CreatedAt: now, UpdatedAt: now}
	require.NoError(t, store.Books.Create(ctx, book))
	require.NoError(t, store.Users.SaveBook(ctx, u.ID, book.ID))

	rv := &domain.Review{UserID: u.ID, Username: u.Username, BookTitle: book.Title, Rating: 4, CreatedAt: now, UpdatedAt: now}
	require.NoError(t, store.Reviews.Create(ctx, rv))

	saved, err := svc.SavedBooks(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, saved, 1)
	assert.Equal(t, "Clean Architecture", saved[0].Title)

	reviews, err := svc.Reviews(ctx, u.ID)
	require.NoError(t, err)
	assert.Len(t, reviews, 1)

	_, err = svc.SavedBooks(ctx, 9999)
	assert.ErrorIs(t, err, ErrUserNotFound)
}
