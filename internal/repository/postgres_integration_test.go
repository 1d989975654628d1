//go:build integration

package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/initiative-bkd/petition-service/internal/domain"
	"github.com/initiative-bkd/petition-service/internal/repository"
	"github.com/initiative-bkd/petition-service/migrations"
)

type PostgresSuite struct {
	suite.Suite
	container *postgres.PostgresContainer
	pool      *pgxpool.Pool

	signatures repository.SignatureRepository
	admins     repository.AdminRepository
	accounts   repository.AccountRepository
	visits     repository.VisitRepository
}

func TestPostgresSuite(t *testing.T) {
	suite.Run(t, new(PostgresSuite))
}

func (s *PostgresSuite) SetupSuite() {
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("petition_test"),
		postgres.WithUsername("petition"),
		postgres.WithPassword("petition_test_password"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	s.Require().NoError(err)
	s.container = container

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	s.Require().NoError(err)

	pool, err := pgxpool.New(ctx, dsn)
	s.Require().NoError(err)
	s.pool = pool

	db := stdlib.OpenDBFromPool(pool)
	defer db.Close()
	_, err = migrations.Up(ctx, db, goose.DialectPostgres)
	s.Require().NoError(err)

	s.signatures = repository.NewSignatureRepository(pool)
	s.admins = repository.NewAdminRepository(pool)
	s.accounts = repository.NewAccountRepository(pool)
	s.visits = repository.NewVisitRepository(pool)
}

func (s *PostgresSuite) TearDownSuite() {
	if s.pool != nil {
		s.pool.Close()
	}
	if s.container != nil {
		_ = s.container.Terminate(context.Background())
	}
}

func (s *PostgresSuite) SetupTest() {
	_, err := s.pool.Exec(context.Background(), "TRUNCATE TABLE signatures, visits, admin_users, admin_accounts")
	s.Require().NoError(err)
}

func (s *PostgresSuite) TestUniqueIndexSurfacesDuplicate() {
	ctx := context.Background()
	rec := &domain.SignatureRecord{
		Type:        domain.SignerTypeDriver,
		SubmittedAt: time.Now().UTC(),
		Status:      domain.StatusNew,
		Data:        &domain.DriverForm{FullName: "Jane Doe", Email: "x@y.com", LicenseClass: []string{"B"}},
	}
	s.Require().NoError(s.signatures.Create(ctx, rec))
	s.NotEmpty(rec.ID)

	again := &domain.SignatureRecord{
		Type:        domain.SignerTypeDriver,
		SubmittedAt: time.Now().UTC(),
		Status:      domain.StatusNew,
		Data:        &domain.DriverForm{FullName: "Jane", Email: " X@Y.com"},
	}
	s.ErrorIs(s.signatures.Create(ctx, again), repository.ErrDuplicateEntry)

	company := &domain.SignatureRecord{
		Type:        domain.SignerTypeCompany,
		SubmittedAt: time.Now().UTC(),
		Status:      domain.StatusNew,
		Data:        &domain.CompanyForm{CompanyName: "ACME", Email: "x@y.com"},
	}
	s.NoError(s.signatures.Create(ctx, company))

	got, err := s.signatures.GetByID(ctx, rec.ID)
	s.Require().NoError(err)
	driver, ok := got.Driver()
	s.Require().True(ok)
	s.Equal([]string{"B"}, driver.LicenseClass)
}

func (s *PostgresSuite) TestSoftDeleteThenPurge() {
	ctx := context.Background()
	rec := &domain.SignatureRecord{
		Type:        domain.SignerTypeCompany,
		SubmittedAt: time.Now().UTC(),
		Status:      domain.StatusNew,
		Data:        &domain.CompanyForm{CompanyName: "ACME", Email: "a@acme.de"},
	}
	s.Require().NoError(s.signatures.Create(ctx, rec))
	s.Require().NoError(s.signatures.UpdateStatus(ctx, rec.ID, domain.StatusDeleted))

	count, err := s.signatures.CountActive(ctx)
	s.Require().NoError(err)
	s.Zero(count)

	purged, err := s.signatures.PurgeDeleted(ctx)
	s.Require().NoError(err)
	s.EqualValues(1, purged)

	_, err = s.signatures.GetByID(ctx, rec.ID)
	s.ErrorIs(err, repository.ErrNotFound)
}

func (s *PostgresSuite) TestAllowlistAndAccounts() {
	ctx := context.Background()
	admin := &domain.AdminUser{Email: "Mod@Example.com", Role: domain.RoleAdmin, AddedAt: time.Now().UTC()}
	s.Require().NoError(s.admins.Create(ctx, admin))
	s.ErrorIs(s.admins.Create(ctx, &domain.AdminUser{Email: "mod@example.com", Role: domain.RoleAdmin, AddedAt: time.Now()}), repository.ErrDuplicateEntry)

	got, err := s.admins.GetByEmail(ctx, "MOD@example.com")
	s.Require().NoError(err)
	s.Equal(domain.RoleAdmin, got.Role)
	s.Require().NoError(s.admins.Delete(ctx, admin.ID))

	s.Require().NoError(s.accounts.Create(ctx, &domain.AdminAccount{Email: "root@example.com", PasswordHash: "h"}))
	acc, err := s.accounts.GetByEmail(ctx, "root@example.com")
	s.Require().NoError(err)
	s.Equal("h", acc.PasswordHash)

	s.Require().NoError(s.visits.Create(ctx, &domain.VisitRecord{Timestamp: time.Now().UTC(), Source: "direct", Country: "Unknown", City: "Unknown"}))
	n, err := s.visits.Count(ctx)
	require.NoError(s.T(), err)
	s.Equal(1, n)
}

func (s *PostgresSuite) TestMalformedIDIsNotFound() {
	ctx := context.Background()
	_, err := s.signatures.GetByID(ctx, "not-a-uuid")
	s.ErrorIs(err, repository.ErrNotFound)
	s.ErrorIs(s.signatures.UpdateStatus(ctx, "not-a-uuid", domain.StatusVerified), repository.ErrNotFound)
	s.ErrorIs(s.admins.Delete(ctx, "not-a-uuid"), repository.ErrNotFound)
}
