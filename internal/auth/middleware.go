package auth

import (
	"context"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/initiative-bkd/petition-service/internal/domain"
	"github.com/initiative-bkd/petition-service/internal/i18n"
	apperrors "github.com/initiative-bkd/petition-service/pkg/util"
)

const principalKey = "auth_principal"

// Principal represents the authenticated admin.
type Principal struct {
	domain.AdminIdentity
	TokenID   string
	ExpiresAt time.Time
}

// RoleResolver maps an email to its admin role.
type RoleResolver interface {
	ResolveRole(ctx context.Context, email string) (domain.AdminRole, error)
}

// AuthMiddleware validates bearer tokens and resolves the caller's role.
type AuthMiddleware struct {
	tokens  *TokenManager
	revoked RevocationList
	roles   RoleResolver
}

// NewAuthMiddleware constructs middleware.
func NewAuthMiddleware(tokens *TokenManager, revoked RevocationList, roles RoleResolver) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens, revoked: revoked, roles: roles}
}

// Handle enforces authentication for protected routes.
func (m *AuthMiddleware) Handle(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return apperrors.NewUnauthorized("missing authorization header")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return apperrors.NewUnauthorized("invalid authorization header")
	}

	claims, err := m.tokens.ParseToken(strings.TrimSpace(parts[1]))
	if err != nil {
		return apperrors.NewUnauthorized("invalid token")
	}

	ctx := c.UserContext()
	revoked, err := m.revoked.IsRevoked(ctx, claims.ID)
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	if revoked {
		return apperrors.NewUnauthorized("token revoked")
	}

	role, err := m.roles.ResolveRole(ctx, claims.Email)
	if err != nil {
		return err
	}
	if role == domain.RoleNone {
		lang := domain.ParseLanguage(c.Get(fiber.HeaderAcceptLanguage), domain.LanguageDE)
		return apperrors.NewForbidden(i18n.For(lang).AccessDenied)
	}

	principal := &Principal{
		AdminIdentity: domain.AdminIdentity{Email: domain.EmailKey(claims.Email), Role: role},
		TokenID:       claims.ID,
	}
	if claims.ExpiresAt != nil {
		principal.ExpiresAt = claims.ExpiresAt.Time
	}
	c.Locals(principalKey, principal)
	return c.Next()
}

// PrincipalFromContext retrieves the authenticated admin.
func PrincipalFromContext(c *fiber.Ctx) (*Principal, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	principal, ok := val.(*Principal)
	return principal, ok
}
