package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agrisense/backend/internal/domain"
	"github.com/agrisense/backend/internal/repository/postgres"
)

func newTestAuthService() *AuthService {
	return NewAuthService(postgres.NewMockRepository(), "test-secret", time.Hour)
}

func TestSignupLoginRoundTrip(t *testing.T) {
	svc := newTestAuthService()
	ctx := context.Background()

	user, err := svc.Signup(ctx, SignupRequest{
		Email:    "ravi@example.com",
		Password: "harvest123",
		Name:     "Ravi",
		UserType: "farmer",
		Crop:     "cotton",
		Location: "Nagpur",
	})
	require.NoError(t, err)
	assert.NotZero(t, user.ID)
	assert.NotEqual(t, "harvest123", user.HashedPassword, "passwords are stored hashed")

	token, loggedIn, err := svc.Login(ctx, "ravi@example.com", "harvest123")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, user.ID, loggedIn.ID)

	resolved, err := svc.CurrentUser(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, "ravi@example.com", resolved.Email)
	assert.Equal(t, "Ravi", resolved.Name)
}

func TestSignupDuplicateEmail(t *testing.T) {
	svc := newTestAuthService()
	ctx := context.Background()

	_, err := svc.Signup(ctx, SignupRequest{Email: "dup@example.com", Password: "pw"})
	require.NoError(t, err)

	_, err = svc.Signup(ctx, SignupRequest{Email: "dup@example.com", Password: "other"})
	assert.ErrorIs(t, err, domain.ErrDuplicateEmail)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc := newTestAuthService()
	ctx := context.Background()

	_, err := svc.Signup(ctx, SignupRequest{Email: "ravi@example.com", Password: "harvest123"})
	require.NoError(t, err)

	_, _, err = svc.Login(ctx, "ravi@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, _, err = svc.Login(ctx, "nobody@example.com", "harvest123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestCurrentUserRejectsBadTokens(t *testing.T) {
	svc := newTestAuthService()
	ctx := context.Background()

	_, err := svc.Signup(ctx, SignupRequest{Email: "ravi@example.com", Password: "harvest123"})
	require.NoError(t, err)

	_, err = svc.CurrentUser(ctx, "not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)

	// Token signed with a different secret
	other := NewAuthService(postgres.NewMockRepository(), "other-secret", time.Hour)
	foreign, err := other.issueToken("ravi@example.com")
	require.NoError(t, err)
	_, err = svc.CurrentUser(ctx, foreign)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestCurrentUserRejectsExpiredToken(t *testing.T) {
	repo := postgres.NewMockRepository()
	svc := NewAuthService(repo, "test-secret", time.Hour)
	ctx := context.Background()

	_, err := svc.Signup(ctx, SignupRequest{Email: "ravi@example.com", Password: "harvest123"})
	require.NoError(t, err)

	expired := &AuthService{users: repo, secret: []byte("test-secret"), tokenTTL: -time.Minute}
	token, err := expired.issueToken("ravi@example.com")
	require.NoError(t, err)

	_, err = svc.CurrentUser(ctx, token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
