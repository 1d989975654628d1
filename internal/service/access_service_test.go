package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
	"golang.org/x/crypto/bcrypt"

	"github.com/initiative-bkd/petition-service/internal/config"
	"github.com/initiative-bkd/petition-service/internal/domain"
	"github.com/initiative-bkd/petition-service/internal/events"
	"github.com/initiative-bkd/petition-service/internal/repository"
	"github.com/initiative-bkd/petition-service/internal/repository/memory"
	"github.com/initiative-bkd/petition-service/internal/repository/mocks"
	apperrors "github.com/initiative-bkd/petition-service/pkg/util"
)

type AccessServiceSuite struct {
	suite.Suite
	ctrl     *gomock.Controller
	admins   *mocks.MockAdminRepository
	accounts *mocks.MockAccountRepository
	svc      *AccessService
	now      time.Time
}

func TestAccessServiceSuite(t *testing.T) {
	suite.Run(t, new(AccessServiceSuite))
}

func (s *AccessServiceSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.admins = mocks.NewMockAdminRepository(s.ctrl)
	s.accounts = mocks.NewMockAccountRepository(s.ctrl)
	s.now = time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

	cfg := config.Config{
		Admin: config.AdminConfig{FallbackSuperAdmins: []string{" Root@Example.com "}},
		Auth:  config.AuthConfig{BcryptCost: bcrypt.MinCost},
	}
	s.svc = NewAccessService(cfg, AccessDependencies{
		AdminRepo:   s.admins,
		AccountRepo: s.accounts,
		Dispatcher:  events.NewInMemoryDispatcher(nil),
		Now:         func() time.Time { return s.now },
	})
}

func (s *AccessServiceSuite) TestFallbackSuperAdminBypassesStore() {
	// No expectations: any store call fails the test.
	role, err := s.svc.ResolveRole(context.Background(), "ROOT@example.com")
	s.Require().NoError(err)
	s.Equal(domain.RoleSuperAdmin, role)
	s.True(s.svc.IsFallbackSuperAdmin("root@example.com"))
}

func (s *AccessServiceSuite) TestResolveRoleFromAllowlist() {
	s.admins.EXPECT().GetByEmail(gomock.Any(), "mod@example.com").
		Return(&domain.AdminUser{ID: "a1", Email: "mod@example.com", Role: domain.RoleAdmin}, nil)

	role, err := s.svc.ResolveRole(context.Background(), " Mod@Example.com")
	s.Require().NoError(err)
	s.Equal(domain.RoleAdmin, role)
}

func (s *AccessServiceSuite) TestResolveRoleUnknownEmail() {
	s.admins.EXPECT().GetByEmail(gomock.Any(), "ghost@example.com").Return(nil, repository.ErrNotFound)

	role, err := s.svc.ResolveRole(context.Background(), "ghost@example.com")
	s.Require().NoError(err)
	s.Equal(domain.RoleNone, role)

	role, err = s.svc.ResolveRole(context.Background(), "  ")
	s.Require().NoError(err)
	s.Equal(domain.RoleNone, role)
}

func (s *AccessServiceSuite) TestResolveRoleStoreFailure() {
	s.admins.EXPECT().GetByEmail(gomock.Any(), gomock.Any()).Return(nil, errors.New("connection refused"))

	_, err := s.svc.ResolveRole(context.Background(), "mod@example.com")
	s.True(apperrors.IsCode(err, apperrors.CodeStoreUnavailable))
}

func (s *AccessServiceSuite) TestAdminCannotManageAllowlist() {
	admin := &domain.AdminIdentity{Email: "mod@example.com", Role: domain.RoleAdmin}
	ctx := context.Background()

	_, err := s.svc.ListAdmins(ctx, admin)
	s.True(apperrors.IsCode(err, apperrors.CodeForbidden))

	_, err = s.svc.AddAdmin(ctx, admin, AddAdminInput{Email: "new@example.com", Role: domain.RoleAdmin})
	s.True(apperrors.IsCode(err, apperrors.CodeForbidden))

	err = s.svc.RemoveAdmin(ctx, admin, "a1")
	s.True(apperrors.IsCode(err, apperrors.CodeForbidden))

	_, err = s.svc.ListAdmins(ctx, nil)
	s.True(apperrors.IsCode(err, apperrors.CodeForbidden))
}

func (s *AccessServiceSuite) TestAddAdminNormalizesAndStamps() {
	super := &domain.AdminIdentity{Email: "root@example.com", Role: domain.RoleSuperAdmin}
	s.admins.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, a *domain.AdminUser) error {
		s.Equal("new@example.com", a.Email)
		s.Equal(s.now, a.AddedAt)
		a.ID = "a2"
		return nil
	})
	s.accounts.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, acc *domain.AdminAccount) error {
		s.Equal("new@example.com", acc.Email)
		s.NoError(bcrypt.CompareHashAndPassword([]byte(acc.PasswordHash), []byte("s3cret-pass")))
		return nil
	})

	admin, err := s.svc.AddAdmin(context.Background(), super, AddAdminInput{
		Email: " New@Example.com ", Role: domain.RoleAdmin, Password: "s3cret-pass",
	})
	s.Require().NoError(err)
	s.Equal("a2", admin.ID)
}

func (s *AccessServiceSuite) TestAddAdminRejectsDuplicate() {
	super := &domain.AdminIdentity{Email: "root@example.com", Role: domain.RoleSuperAdmin}
	s.admins.EXPECT().Create(gomock.Any(), gomock.Any()).Return(repository.ErrDuplicateEntry)

	_, err := s.svc.AddAdmin(context.Background(), super, AddAdminInput{Email: "mod@example.com", Role: domain.RoleAdmin})
	s.True(apperrors.IsCode(err, apperrors.CodeConflict))
}

func (s *AccessServiceSuite) TestAddAdminValidatesInput() {
	super := &domain.AdminIdentity{Email: "root@example.com", Role: domain.RoleSuperAdmin}

	_, err := s.svc.AddAdmin(context.Background(), super, AddAdminInput{Email: "not-an-email", Role: "owner"})
	s.Require().True(apperrors.IsCode(err, apperrors.CodeValidationFailed))
	details := apperrors.ToDomainError(err).Details
	s.Contains(details, "email")
	s.Contains(details, "role")
}

func (s *AccessServiceSuite) TestRemoveAdminNotFound() {
	super := &domain.AdminIdentity{Email: "root@example.com", Role: domain.RoleSuperAdmin}
	s.admins.EXPECT().Delete(gomock.Any(), "missing").Return(repository.ErrNotFound)

	err := s.svc.RemoveAdmin(context.Background(), super, "missing")
	s.True(apperrors.IsCode(err, apperrors.CodeNotFound))
}

func (s *AccessServiceSuite) TestSeedFallbackAccounts() {
	s.accounts.EXPECT().GetByEmail(gomock.Any(), "root@example.com").Return(nil, repository.ErrNotFound)
	s.accounts.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)

	n, err := s.svc.SeedFallbackAccounts(context.Background(), "bootstrap-pass")
	s.Require().NoError(err)
	s.Equal(1, n)

	n, err = s.svc.SeedFallbackAccounts(context.Background(), "")
	s.Require().NoError(err)
	s.Zero(n)
}

func (s *AccessServiceSuite) TestAddAdminRejectsOverlongPasswordBeforeWriting() {
	super := &domain.AdminIdentity{Email: "root@example.com", Role: domain.RoleSuperAdmin}

	_, err := s.svc.AddAdmin(context.Background(), super, AddAdminInput{
		Email: "new@example.com", Role: domain.RoleAdmin, Password: strings.Repeat("x", 73),
	})
	s.Require().True(apperrors.IsCode(err, apperrors.CodeValidationFailed))
	s.Contains(apperrors.ToDomainError(err).Details, "password")
}

func (s *AccessServiceSuite) TestAddAdminRemovesEntryWhenAccountFails() {
	super := &domain.AdminIdentity{Email: "root@example.com", Role: domain.RoleSuperAdmin}
	gomock.InOrder(
		s.admins.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, a *domain.AdminUser) error {
			a.ID = "a3"
			return nil
		}),
		s.accounts.EXPECT().Create(gomock.Any(), gomock.Any()).Return(errors.New("connection reset")),
		s.admins.EXPECT().Delete(gomock.Any(), "a3").Return(nil),
	)

	_, err := s.svc.AddAdmin(context.Background(), super, AddAdminInput{
		Email: "new@example.com", Role: domain.RoleAdmin, Password: "s3cret-pass",
	})
	s.Error(err)
}

func TestAddAdminFailureLeavesNoAllowlistEntry(t *testing.T) {
	ctx := context.Background()
	admins := memory.NewAdminStore()
	svc := NewAccessService(config.Config{Auth: config.AuthConfig{BcryptCost: bcrypt.MinCost}}, AccessDependencies{
		AdminRepo:   admins,
		AccountRepo: failingAccounts{AccountRepository: memory.NewAccountStore()},
	})
	super := &domain.AdminIdentity{Email: "root@example.com", Role: domain.RoleSuperAdmin}
	input := AddAdminInput{Email: "new@example.com", Role: domain.RoleAdmin, Password: "s3cret-pass"}

	_, err := svc.AddAdmin(ctx, super, input)
	require.Error(t, err)

	list, err := admins.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)

	input.Password = ""
	_, err = svc.AddAdmin(ctx, super, input)
	assert.NoError(t, err)
}

type failingAccounts struct {
	repository.AccountRepository
}

func (failingAccounts) Create(context.Context, *domain.AdminAccount) error {
	return errors.New("accounts table unavailable")
}
