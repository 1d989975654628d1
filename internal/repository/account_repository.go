package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/initiative-bkd/petition-service/internal/domain"
)

// AccountRepository stores admin sign-in credentials.
type AccountRepository interface {
	Create(ctx context.Context, account *domain.AdminAccount) error
	GetByEmail(ctx context.Context, email string) (*domain.AdminAccount, error)
}

type accountRepository struct {
	pool *pgxpool.Pool
}

// NewAccountRepository returns a Postgres-backed implementation.
func NewAccountRepository(pool *pgxpool.Pool) AccountRepository {
	return &accountRepository{pool: pool}
}

func (r *accountRepository) Create(ctx context.Context, account *domain.AdminAccount) error {
	const query = `
        INSERT INTO admin_accounts (email, password_hash)
        VALUES ($1, $2)
        RETURNING id, created_at`

	err := r.pool.QueryRow(ctx, query,
		domain.EmailKey(account.Email),
		account.PasswordHash,
	).Scan(&account.ID, &account.CreatedAt)
	return mapPgError(err)
}

func (r *accountRepository) GetByEmail(ctx context.Context, email string) (*domain.AdminAccount, error) {
	const query = `
        SELECT id, email, password_hash, created_at
        FROM admin_accounts WHERE email=$1`

	var account domain.AdminAccount
	if err := r.pool.QueryRow(ctx, query, domain.EmailKey(email)).Scan(
		&account.ID,
		&account.Email,
		&account.PasswordHash,
		&account.CreatedAt,
	); err != nil {
		return nil, mapPgError(err)
	}
	return &account, nil
}
