package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/agrisense/backend/internal/domain"
)

// ErrInvalidCredentials is returned for a bad email/password pair
var ErrInvalidCredentials = errors.New("incorrect email or password")

// ErrInvalidToken is returned for expired or malformed access tokens
var ErrInvalidToken = errors.New("could not validate credentials")

// AuthService issues and validates HS256 access tokens and manages
// user accounts.
type AuthService struct {
	users    domain.UserRepository
	secret   []byte
	tokenTTL time.Duration
}

// NewAuthService creates a new auth service
func NewAuthService(users domain.UserRepository, secret string, tokenTTL time.Duration) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = time.Hour
	}
	return &AuthService{
		users:    users,
		secret:   []byte(secret),
		tokenTTL: tokenTTL,
	}
}

// SignupRequest carries new-account fields
type SignupRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
	Phone    string `json:"phone"`
	UserType string `json:"userType"`
	Crop     string `json:"crop"`
	Location string `json:"location"`
}

// Signup registers a new user with a bcrypt-hashed password
func (s *AuthService) Signup(ctx context.Context, req SignupRequest) (domain.User, error) {
	if _, err := s.users.GetUserByEmail(ctx, req.Email); err == nil {
		return domain.User{}, domain.ErrDuplicateEmail
	} else if !errors.Is(err, domain.ErrNotFound) {
		return domain.User{}, fmt.Errorf("auth: signup lookup: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return domain.User{}, fmt.Errorf("auth: failed to hash password: %w", err)
	}

	user, err := s.users.CreateUser(ctx, domain.User{
		Email:          req.Email,
		Name:           req.Name,
		Phone:          req.Phone,
		UserType:       req.UserType,
		HashedPassword: string(hash),
		Crop:           req.Crop,
		Location:       req.Location,
		IsActive:       true,
		CreatedAt:      time.Now(),
	})
	if err != nil {
		return domain.User{}, fmt.Errorf("auth: failed to create user: %w", err)
	}
	return user, nil
}

// Login verifies credentials and returns a signed access token with
// the user record.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, domain.User, error) {
	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "", domain.User{}, ErrInvalidCredentials
		}
		return "", domain.User{}, fmt.Errorf("auth: login lookup: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(password)); err != nil {
		return "", domain.User{}, ErrInvalidCredentials
	}

	token, err := s.issueToken(user.Email)
	if err != nil {
		return "", domain.User{}, err
	}
	return token, user, nil
}

func (s *AuthService) issueToken(email string) (string, error) {
	claims := jwt.RegisteredClaims{
		Subject:   email,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(s.tokenTTL)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("auth: failed to sign token: %w", err)
	}
	return signed, nil
}

// CurrentUser resolves a bearer token into its user record
func (s *AuthService) CurrentUser(ctx context.Context, tokenString string) (domain.User, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !parsed.Valid {
		return domain.User{}, ErrInvalidToken
	}

	claims, ok := parsed.Claims.(*jwt.RegisteredClaims)
	if !ok || claims.Subject == "" {
		return domain.User{}, ErrInvalidToken
	}

	user, err := s.users.GetUserByEmail(ctx, claims.Subject)
	if err != nil {
		return domain.User{}, ErrInvalidToken
	}
	return user, nil
}
