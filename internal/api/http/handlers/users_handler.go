package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/job-portal/internal/api/dto"
	"github.com/spec-kit/job-portal/internal/auth"
	"github.com/spec-kit/job-portal/internal/service"
	"github.com/spec-kit/job-portal/internal/upload"
	apperrors "github.com/spec-kit/job-portal/pkg/util"
)

// UsersHandler exposes account endpoints.
type UsersHandler struct {
	accounts   *service.AccountService
	cookieName string
	sessionTTL time.Duration
}

// NewUsersHandler constructs handler.
func NewUsersHandler(accounts *service.AccountService, cookieName string, sessionTTL time.Duration) *UsersHandler {
	if cookieName == "" {
		cookieName = auth.DefaultCookieName
	}
	return &UsersHandler{accounts: accounts, cookieName: cookieName, sessionTTL: sessionTTL}
}

// Register handles POST /api/user/register (multipart).
func (h *UsersHandler) Register(c *fiber.Ctx) error {
	var req dto.UserRegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	user, err := h.accounts.Register(c.UserContext(), req.Input(), upload.PartsFromContext(c))
	if err != nil {
		return err
	}

	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": fmt.Sprintf("Account created successfully for %s", user.Fullname),
		"user":    dto.NewUserResponse(user),
	})
}

// Login handles POST /api/user/login and sets the session cookie.
func (h *UsersHandler) Login(c *fiber.Ctx) error {
	var req dto.UserLoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	session, err := h.accounts.Login(c.UserContext(), req.Email, req.Password, req.Role)
	if err != nil {
		return err
	}

	auth.SetSessionCookie(c, h.cookieName, session.Token, h.sessionTTL)
	return c.JSON(fiber.Map{
		"success": true,
		"message": fmt.Sprintf("Welcome back %s", session.User.Fullname),
		"user":    dto.NewUserResponse(session.User),
		"auth":    dto.AuthResponse{Token: session.Token, ExpiresAt: session.Claims.ExpiresAt},
	})
}

// Logout handles POST /api/user/logout. Tokens are stateless, so logging out
// only overwrites the cookie.
func (h *UsersHandler) Logout(c *fiber.Ctx) error {
	auth.ClearSessionCookie(c, h.cookieName)
	return c.JSON(fiber.Map{
		"success": true,
		"message": "Logged out successfully",
	})
}

// UpdateProfile handles POST /api/user/profile/update (multipart, authenticated).
func (h *UsersHandler) UpdateProfile(c *fiber.Ctx) error {
	identity, ok := auth.IdentityFromContext(c)
	if !ok {
		return apperrors.NewUnauthenticated("no token provided")
	}

	var req dto.ProfileUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	user, err := h.accounts.UpdateProfile(c.UserContext(), identity.SubjectID, req.Input(), upload.PartsFromContext(c))
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Profile updated successfully",
		"user":    dto.NewUserResponse(user),
	})
}
