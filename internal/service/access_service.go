package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/initiative-bkd/petition-service/internal/auth"
	"github.com/initiative-bkd/petition-service/internal/config"
	"github.com/initiative-bkd/petition-service/internal/domain"
	"github.com/initiative-bkd/petition-service/internal/events"
	"github.com/initiative-bkd/petition-service/internal/observability"
	"github.com/initiative-bkd/petition-service/internal/repository"
	"github.com/initiative-bkd/petition-service/internal/validation"
	apperrors "github.com/initiative-bkd/petition-service/pkg/util"
)

// AccessService resolves admin roles and manages the allowlist.
type AccessService struct {
	admins     repository.AdminRepository
	accounts   repository.AccountRepository
	dispatcher events.Dispatcher
	metrics    *observability.Metrics
	logger     *zap.Logger
	fallback   map[string]struct{}
	bcryptCost int
	now        func() time.Time
}

// AccessDependencies bundles collaborators for the access service.
type AccessDependencies struct {
	AdminRepo   repository.AdminRepository
	AccountRepo repository.AccountRepository
	Dispatcher  events.Dispatcher
	Metrics     *observability.Metrics
	Logger      *zap.Logger
	Now         func() time.Time
}

// AddAdminInput describes a new allowlist entry. A non-empty Password also
// creates sign-in credentials for the email.
type AddAdminInput struct {
	Email    string
	Role     domain.AdminRole
	Password string
}

// NewAccessService constructs the service.
func NewAccessService(cfg config.Config, deps AccessDependencies) *AccessService {
	fallback := make(map[string]struct{}, len(cfg.Admin.FallbackSuperAdmins))
	for _, email := range cfg.Admin.FallbackSuperAdmins {
		if key := domain.EmailKey(email); key != "" {
			fallback[key] = struct{}{}
		}
	}
	return &AccessService{
		admins:     deps.AdminRepo,
		accounts:   deps.AccountRepo,
		dispatcher: deps.Dispatcher,
		metrics:    deps.Metrics,
		logger:     loggerOrNop(deps.Logger),
		fallback:   fallback,
		bcryptCost: cfg.Auth.BcryptCost,
		now:        clockOrNow(deps.Now),
	}
}

// IsFallbackSuperAdmin reports whether email is in the configured fallback set.
func (s *AccessService) IsFallbackSuperAdmin(email string) bool {
	_, ok := s.fallback[domain.EmailKey(email)]
	return ok
}

// ResolveRole maps an email to its role. Fallback super-admins resolve
// without touching the allowlist store.
func (s *AccessService) ResolveRole(ctx context.Context, email string) (domain.AdminRole, error) {
	key := domain.EmailKey(email)
	if key == "" {
		return domain.RoleNone, nil
	}
	if _, ok := s.fallback[key]; ok {
		return domain.RoleSuperAdmin, nil
	}

	admin, err := s.admins.GetByEmail(ctx, key)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.RoleNone, nil
		}
		return domain.RoleNone, apperrors.NewStoreUnavailable(err)
	}
	if !admin.Role.Valid() {
		s.logger.Warn("allowlist entry has unknown role", zap.String("admin_id", admin.ID))
		return domain.RoleNone, nil
	}
	return admin.Role, nil
}

func requireRole(actor *domain.AdminIdentity) error {
	if actor == nil || !actor.Role.Valid() {
		return apperrors.NewForbidden("admin role required")
	}
	return nil
}

func requireSuperAdmin(actor *domain.AdminIdentity) error {
	if !actor.IsSuperAdmin() {
		return apperrors.NewForbidden("super_admin role required")
	}
	return nil
}

// ListAdmins returns the allowlist.
func (s *AccessService) ListAdmins(ctx context.Context, actor *domain.AdminIdentity) ([]domain.AdminUser, error) {
	if err := requireSuperAdmin(actor); err != nil {
		return nil, err
	}
	admins, err := s.admins.List(ctx)
	if err != nil {
		return nil, err
	}
	if admins == nil {
		admins = []domain.AdminUser{}
	}
	return admins, nil
}

// AddAdmin adds an allowlist entry.
func (s *AccessService) AddAdmin(ctx context.Context, actor *domain.AdminIdentity, input AddAdminInput) (*domain.AdminUser, error) {
	if err := requireSuperAdmin(actor); err != nil {
		return nil, err
	}

	email := domain.EmailKey(input.Email)
	details := map[string]any{}
	if !validation.ValidEmail(email) {
		details["email"] = string(validation.CodeInvalidEmail)
	}
	if !input.Role.Valid() {
		details["role"] = string(validation.CodeRequired)
	}
	if len(input.Password) > auth.MaxPasswordBytes {
		details["password"] = "max"
	}
	if len(details) > 0 {
		return nil, apperrors.NewValidationError("invalid admin entry", details)
	}

	var hash string
	if input.Password != "" {
		var err error
		if hash, err = auth.HashPassword(input.Password, s.bcryptCost); err != nil {
			return nil, apperrors.NewInternalError(err)
		}
	}

	admin := &domain.AdminUser{Email: email, Role: input.Role, AddedAt: s.now().UTC()}
	if err := s.admins.Create(ctx, admin); err != nil {
		if errors.Is(err, repository.ErrDuplicateEntry) {
			return nil, apperrors.NewConflict("admin already exists", map[string]any{"email": email})
		}
		return nil, err
	}

	if hash != "" {
		if err := s.storeAccount(ctx, email, hash); err != nil {
			if delErr := s.admins.Delete(ctx, admin.ID); delErr != nil {
				s.logger.Error("rollback of allowlist entry failed", zap.String("admin_id", admin.ID), zap.Error(delErr))
			}
			return nil, err
		}
	}

	s.metrics.AdminAction("add_admin")
	publish(ctx, s.dispatcher, events.New(events.EventAdminAdded, admin.ID, actor.Email, s.now(),
		events.AdminChangedPayload{Email: admin.Email, Role: admin.Role}))
	return admin, nil
}

// RemoveAdmin hard-removes an allowlist entry. Fallback super-admins keep
// their access regardless.
func (s *AccessService) RemoveAdmin(ctx context.Context, actor *domain.AdminIdentity, id string) error {
	if err := requireSuperAdmin(actor); err != nil {
		return err
	}
	if err := s.admins.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.NewNotFound("admin", map[string]any{"id": id})
		}
		return err
	}
	s.metrics.AdminAction("remove_admin")
	publish(ctx, s.dispatcher, events.New(events.EventAdminRemoved, id, actor.Email, s.now(), nil))
	return nil
}

// SeedFallbackAccounts gives every fallback super-admin sign-in credentials
// with password, skipping emails that already have an account.
func (s *AccessService) SeedFallbackAccounts(ctx context.Context, password string) (int, error) {
	if password == "" {
		return 0, nil
	}
	created := 0
	for email := range s.fallback {
		_, err := s.accounts.GetByEmail(ctx, email)
		if err == nil {
			continue
		}
		if !errors.Is(err, repository.ErrNotFound) {
			return created, err
		}
		if err := s.createAccount(ctx, email, password); err != nil {
			return created, err
		}
		created++
	}
	return created, nil
}

func (s *AccessService) createAccount(ctx context.Context, email, password string) error {
	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return err
	}
	return s.storeAccount(ctx, email, hash)
}

func (s *AccessService) storeAccount(ctx context.Context, email, hash string) error {
	err := s.accounts.Create(ctx, &domain.AdminAccount{Email: email, PasswordHash: hash})
	if errors.Is(err, repository.ErrDuplicateEntry) {
		s.logger.Info("admin account already exists; keeping existing credentials", zap.String("email", email))
		return nil
	}
	return err
}
