package auth

import (
	"context"
	"testing"

	"unilib/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type mockUserRepo struct {
	mock.Mock
}

func (m *mockUserRepo) Create(ctx context.Context, u *domain.User) error {
	args := m.Called(ctx, u)
	if args.Error(0) == nil {
		u.ID = 1
	}
	return args.Error(0)
}

func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if u := args.Get(0); u != nil {
		return u.(*domain.User), args.Error(1)
	}
	return nil, args.Error(1)
}

type mockTokenIssuer struct {
	mock.Mock
}

func (m *mockTokenIssuer) GenerateToken(userID int64, role, name string) (string, error) {
	args := m.Called(userID, role, name)
	return args.String(0), args.Error(1)
}

func TestSignUp(t *testing.T) {
	repo := new(mockUserRepo)
	svc := NewService(repo, new(mockTokenIssuer))

	repo.On("GetByEmail", mock.Anything, "new@unilib.edu").Return(nil, gorm.ErrRecordNotFound)
	repo.On("Create", mock.Anything, mock.AnythingOfType("*domain.User")).Return(nil)

	u, err := svc.SignUp(context.Background(), SignUpRequest{
		Username: "newbie",
		Email:    "new@unilib.edu",
		Password: "secret123",
	})
	require.NoError(t, err)

	assert.Equal(t, domain.RoleUser, u.Role)
	assert.NotEqual(t, "secret123", u.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("secret123")))

	repo.AssertExpectations(t)
}

func TestSignUpEmailTaken(t *testing.T) {
	repo := new(mockUserRepo)
	svc := NewService(repo, new(mockTokenIssuer))

	repo.On("GetByEmail", mock.Anything, "taken@unilib.edu").
		Return(&domain.User{ID: 1, Email: "taken@unilib.edu"}, nil)

	_, err := svc.SignUp(context.Background(), SignUpRequest{
		Username: "newbie",
		Email:    "taken@unilib.edu",
		Password: "secret123",
	})
	assert.ErrorIs(t, err, ErrEmailTaken)

	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestSignIn(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.DefaultCost)
	require.NoError(t, err)

	repo := new(mockUserRepo)
	issuer := new(mockTokenIssuer)
	svc := NewService(repo, issuer)

	stored := &domain.User{
		ID:           42,
		Username:     "reader",
		Email:        "reader@unilib.edu",
		PasswordHash: string(hash),
		Role:         domain.RoleUser,
	}
	repo.On("GetByEmail", mock.Anything, "reader@unilib.edu").Return(stored, nil)
	issuer.On("GenerateToken", int64(42), "user", "reader").Return("signed-token", nil)

	res, err := svc.SignIn(context.Background(), SignInRequest{
		Email:    "reader@unilib.edu",
		Password: "secret123",
	})
	require.NoError(t, err)
	assert.Equal(t, "signed-token", res.Token)
	assert.Equal(t, int64(42), res.User.ID)

	issuer.AssertExpectations(t)
}

func TestSignInWrongPassword(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.DefaultCost)
	require.NoError(t, err)

	repo := new(mockUserRepo)
	issuer := new(mockTokenIssuer)
	svc := NewService(repo, issuer)

	repo.On("GetByEmail", mock.Anything, "reader@unilib.edu").
		Return(&domain.User{ID: 42, PasswordHash: string(hash)}, nil)

	_, err = svc.SignIn(context.Background(), SignInRequest{
		Email:    "reader@unilib.edu",
		Password: "wrong",
	})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	issuer.AssertNotCalled(t, "GenerateToken", mock.Anything, mock.Anything, mock.Anything)
}

func TestSignInUnknownEmail(t *testing.T) {
	repo := new(mockUserRepo)
	svc := NewService(repo, new(mockTokenIssuer))

	repo.On("GetByEmail", mock.Anything, "ghost@unilib.edu").Return(nil, gorm.ErrRecordNotFound)

	_, err := svc.SignIn(context.Background(), SignInRequest{
		Email:    "ghost@unilib.edu",
		Password: "whatever",
	})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}
