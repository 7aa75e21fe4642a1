package review

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
	return NewService(store.Reviews, store.Books, store.Users), store
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

func seedBook(t *testing.T, store *repository.Store, title string) *domain.Book {
	t.Helper()

	now := time.Now()
	b := &domain.Book{
		Title:     title,
		Author:    "Test Author",
		Stock:     1,
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, store.Books.Create(context.Background(), b))
	return b
}

func TestCreateReview(t *testing.T) {
	ctx := context.Background()
	svc, store := newTestService(t)

	user := seedUser(t, store, "reader", "reader@unilib.edu")
	seedBook(t, store, "Clean Architecture")

	rv, err := svc.Create(ctx, user.ID, CreateReviewRequest{
		BookTitle: "Clean Architecture",
		Rating:    5,
		Text:      "Great read.",
	})
	require.NoError(t, err)

	assert.Equal(t, "reader", rv.Username)
	assert.Equal(t, "Clean Architecture", rv.BookTitle)
	assert.Equal(t, 5, rv.Rating)
}

func TestCreateReviewUnknownBook(t *testing.T) {
	ctx := context.Background()
	svc, store := newTestService(t)

	user := seedUser(t, store, "reader", "reader@unilib.edu")

	_, err := svc.Create(ctx, user.ID, CreateReviewRequest{
		BookTitle: "No Such Book",
		Rating:    3,
	})
	assert.ErrorIs(t, err, ErrBookNotFound)
}

func TestUpdateReviewOwnership(t *testing.T) {
	ctx := context.Background()
	svc, store := newTestService(t)

	owner := seedUser(t, store, "owner", "owner@unilib.edu")
	other := seedUser(t, store, "other", "other@unilib.edu")
	seedBook(t, store, "Clean Architecture")

	rv, err := svc.Create(ctx, owner.ID, CreateReviewRequest{BookTitle: "Clean Architecture", Rating: 4})
	require.NoError(t, err)

	three := 3
	_, err = svc.Update(ctx, rv.ID, other.ID, false, UpdateReviewRequest{Rating: &three})
	assert.ErrorIs(t, err, ErrNotOwner)

	updated, err := svc.Update(ctx, rv.ID, owner.ID, false, UpdateReviewRequest{Rating: &three})
	require.NoError(t, err)
	assert.Equal(t, 3, updated.Rating)

	// Admins may edit any review.
	five := 5
	updated, err = svc.Update(ctx, rv.ID, other.ID, true, UpdateReviewRequest{Rating: &five})
	require.NoError(t, err)
	assert.Equal(t, 5, updated.Rating)
}

func TestDeleteReview(t *testing.T) {
	ctx := context.Background()
	svc, store := newTestService(t)

	owner := seedUser(t, store, "owner", "owner@unilib.edu")
	other := seedUser(t, store, "other", "other@unilib.edu")
	seedBook(t, store, "Clean Architecture")

	rv, err := svc.Create(ctx, owner.ID, CreateReviewRequest{BookTitle: "Clean Architecture", Rating: 4})
	require.NoError(t, err)

	assert.ErrorIs(t, svc.Delete(ctx, rv.ID, other.ID, false), ErrNotOwner)
	require.NoError(t, svc.Delete(ctx, rv.ID, owner.ID, false))
	assert.ErrorIs(t, svc.Delete(ctx, rv.ID, owner.ID, false), ErrReviewNotFound)
}

func TestGetForBook(t *testing.T) {
	ctx := context.Background()
	svc, store := newTestService(t)

	first := seedUser(t, store, "first", "first@unilib.edu")
	second := seedUser(t, store, "second", "second@unilib.edu")
	seedBook(t, store, "Clean Architecture")
	seedBook(t, store, "Other Book")

	_, err := svc.Create(ctx, first.ID, CreateReviewRequest{BookTitle: "Clean Architecture", Rating: 5})
	require.NoError(t, err)
	_, err = svc.Create(ctx, second.ID, CreateReviewRequest{BookTitle: "Clean Architecture", Rating: 2})
	require.NoError(t, err)
	_, err = svc.Create(ctx, first.ID, CreateReviewRequest{BookTitle: "Other Book", Rating: 3})
	require.NoError(t, err)

	reviews, err := svc.GetForBook(ctx, "Clean Architecture")
	require.NoError(t, err)
	assert.Len(t, reviews, 2)
}
