package service

import (
	"github.com/agrisense/backend/internal/domain"
)

// Repository interfaces are re-exported from domain for convenience
type (
	UserRepository = domain.UserRepository
	PostRepository = domain.PostRepository
)
