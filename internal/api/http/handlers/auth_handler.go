package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/initiative-bkd/petition-service/internal/api/dto"
	"github.com/initiative-bkd/petition-service/internal/auth"
	"github.com/initiative-bkd/petition-service/internal/domain"
	"github.com/initiative-bkd/petition-service/internal/service"
	apperrors "github.com/initiative-bkd/petition-service/pkg/util"
)

// AuthHandler exposes admin sign-in endpoints.
type AuthHandler struct {
	auth        *service.AuthService
	defaultLang domain.Language
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService, defaultLang domain.Language) *AuthHandler {
	return &AuthHandler{auth: authService, defaultLang: defaultLang}
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}

	lang := requestLanguage(c, "", h.defaultLang)
	session, err := h.auth.SignIn(c.UserContext(), req.Email, req.Password, lang)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"data": dto.AuthResponse{
			Token:     session.Token,
			ExpiresAt: session.ExpiresAt,
			Email:     session.Identity.Email,
			Role:      session.Identity.Role,
		},
	})
}

// Logout handles POST /auth/logout.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	principal, _ := auth.PrincipalFromContext(c)
	if err := h.auth.SignOut(c.UserContext(), principal); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// Me handles GET /auth/me.
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("not signed in")
	}
	return c.JSON(fiber.Map{
		"data": dto.IdentityResponse{Email: principal.Email, Role: principal.Role},
	})
}
