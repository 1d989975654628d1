package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/initiative-bkd/petition-service/internal/auth"
	"github.com/initiative-bkd/petition-service/internal/domain"
	"github.com/initiative-bkd/petition-service/internal/i18n"
	"github.com/initiative-bkd/petition-service/internal/repository"
	apperrors "github.com/initiative-bkd/petition-service/pkg/util"
)

// Session is the result of a successful admin sign-in.
type Session struct {
	Token     string
	TokenID   string
	ExpiresAt time.Time
	Identity  domain.AdminIdentity
}

// AuthService coordinates admin sign-in and sign-out.
type AuthService struct {
	accounts repository.AccountRepository
	roles    auth.RoleResolver
	tokenMgr *auth.TokenManager
	revoked  auth.RevocationList
	logger   *zap.Logger
}

// AuthDependencies encapsulates requirements for the auth service.
type AuthDependencies struct {
	AccountRepo  repository.AccountRepository
	Roles        auth.RoleResolver
	TokenManager *auth.TokenManager
	Revocations  auth.RevocationList
	Logger       *zap.Logger
}

// NewAuthService builds the service.
func NewAuthService(deps AuthDependencies) *AuthService {
	return &AuthService{
		accounts: deps.AccountRepo,
		roles:    deps.Roles,
		tokenMgr: deps.TokenManager,
		revoked:  deps.Revocations,
		logger:   loggerOrNop(deps.Logger),
	}
}

// SignIn verifies credentials and issues a token. Valid credentials without
// an allowlist role are rejected with the localized access-denied message.
func (s *AuthService) SignIn(ctx context.Context, email, password string, lang domain.Language) (*Session, error) {
	msgs := i18n.For(lang)
	key := domain.EmailKey(email)

	account, err := s.accounts.GetByEmail(ctx, key)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewUnauthorized(msgs.LoginError)
		}
		return nil, apperrors.NewStoreUnavailable(err)
	}
	if err := auth.ComparePassword(account.PasswordHash, password); err != nil {
		return nil, apperrors.NewUnauthorized(msgs.LoginError)
	}

	role, err := s.roles.ResolveRole(ctx, key)
	if err != nil {
		return nil, err
	}
	if role == domain.RoleNone {
		s.logger.Info("sign-in without allowlist role", zap.String("email", key))
		return nil, apperrors.NewForbidden(msgs.AccessDenied)
	}

	issued, err := s.tokenMgr.GenerateToken(key)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return &Session{
		Token:     issued.Token,
		TokenID:   issued.ID,
		ExpiresAt: issued.ExpiresAt,
		Identity:  domain.AdminIdentity{Email: key, Role: role},
	}, nil
}

// SignOut revokes the token until it would have expired anyway.
func (s *AuthService) SignOut(ctx context.Context, principal *auth.Principal) error {
	if principal == nil || principal.TokenID == "" {
		return nil
	}
	if err := s.revoked.Revoke(ctx, principal.TokenID, principal.ExpiresAt); err != nil {
		return apperrors.NewInternalError(err)
	}
	return nil
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}
