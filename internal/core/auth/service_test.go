package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/pietervz/ipfire-tray/internal/config"
	"github.com/pietervz/ipfire-tray/internal/domain"
)

type memUserRepo struct {
	users map[string]*domain.User
}

func (r *memUserRepo) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	if u, ok := r.users[email]; ok {
		return u, nil
	}
	return nil, domain.ErrUserNotFound
}

func (r *memUserRepo) CreateUser(ctx context.Context, user *domain.User) error {
	user.ID = int64(len(r.users) + 1)
	r.users[user.Email] = user
	return nil
}

func (r *memUserRepo) UpdateUserPassword(ctx context.Context, userID int64, hashed string) error {
	for _, u := range r.users {
		if u.ID == userID {
			u.Password = hashed
			return nil
		}
	}
	return domain.ErrUserNotFound
}

func testRepo(t *testing.T, email, password string) *memUserRepo {
	t.Helper()

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)

	return &memUserRepo{users: map[string]*domain.User{
		email: {ID: 1, Email: email, Password: string(hashed)},
	}}
}

func testConfig() *config.Config {
	return &config.Config{
		JWTSecret: "0123456789abcdef0123456789abcdef",
		JWTExpiry: time.Hour,
	}
}

func TestLoginIssuesVerifiableToken(t *testing.T) {
	repo := testRepo(t, "admin@example.com", "changeme1")
	svc := NewService(repo, testConfig())

	res, err := svc.Login(context.Background(), domain.LoginRequest{
		Email:    "admin@example.com",
		Password: "changeme1",
	})
	require.NoError(t, err)
	require.NotEmpty(t, res.AccessToken)
	require.Equal(t, "admin@example.com", res.User.Email)

	claims, err := domain.ValidateToken(res.AccessToken, testConfig().JWTSecret)
	require.NoError(t, err)
	require.Equal(t, "admin@example.com", claims["email"])
	require.NotEmpty(t, claims["jti"])
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	repo := testRepo(t, "admin@example.com", "changeme1")
	svc := NewService(repo, testConfig())

	_, err := svc.Login(context.Background(), domain.LoginRequest{
		Email:    "admin@example.com",
		Password: "wrong-password",
	})
	require.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestLoginRejectsUnknownUser(t *testing.T) {
	repo := testRepo(t, "admin@example.com", "changeme1")
	svc := NewService(repo, testConfig())

	_, err := svc.Login(context.Background(), domain.LoginRequest{
		Email:    "nobody@example.com",
		Password: "changeme1",
	})
	require.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestValidateTokenRejectsWrongSecret(t *testing.T) {
	repo := testRepo(t, "admin@example.com", "changeme1")
	svc := NewService(repo, testConfig())

	res, err := svc.Login(context.Background(), domain.LoginRequest{
		Email:    "admin@example.com",
		Password: "changeme1",
	})
	require.NoError(t, err)

	_, err = domain.ValidateToken(res.AccessToken, "another-secret-another-secret-xx")
	require.Error(t, err)
}
