package http

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/agrisense/backend/internal/domain"
	"github.com/agrisense/backend/internal/service"
)

const userLocalKey = "current_user"

// Signup registers a new account
func (h *Handler) Signup(c *fiber.Ctx) error {
	var req service.SignupRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if req.Email == "" || req.Password == "" {
		return fiber.NewError(fiber.StatusBadRequest, "Email and password are required")
	}

	user, err := h.authSvc.Signup(c.Context(), req)
	if err != nil {
		if errors.Is(err, domain.ErrDuplicateEmail) {
			return fiber.NewError(fiber.StatusBadRequest, "Email already registered")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to create account")
	}

	return c.Status(fiber.StatusCreated).JSON(user)
}

// Login authenticates and returns an access token with user info
func (h *Handler) Login(c *fiber.Ctx) error {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	token, user, err := h.authSvc.Login(c.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			return fiber.NewError(fiber.StatusBadRequest, "Incorrect email or password")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to log in")
	}

	return c.JSON(fiber.Map{
		"access_token": token,
		"token_type":   "bearer",
		"user":         user,
	})
}

// Me returns the current authenticated user
func (h *Handler) Me(c *fiber.Ctx) error {
	user := currentUser(c)
	return c.JSON(user)
}

// RequireAuth resolves the bearer token and stores the user in locals
func (h *Handler) RequireAuth(c *fiber.Ctx) error {
	header := c.Get(fiber.HeaderAuthorization)
	token, found := strings.CutPrefix(header, "Bearer ")
	if !found || token == "" {
		return fiber.NewError(fiber.StatusUnauthorized, "Could not validate credentials")
	}

	user, err := h.authSvc.CurrentUser(c.Context(), token)
	if err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, "Could not validate credentials")
	}

	c.Locals(userLocalKey, user)
	return c.Next()
}

func currentUser(c *fiber.Ctx) domain.User {
	user, _ := c.Locals(userLocalKey).(domain.User)
	return user
}
