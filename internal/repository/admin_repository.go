package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/initiative-bkd/petition-service/internal/domain"
)

// AdminRepository manages the admin allowlist.
type AdminRepository interface {
	// Create adds an entry; an existing normalized email fails with ErrDuplicateEntry.
	Create(ctx context.Context, admin *domain.AdminUser) error
	GetByEmail(ctx context.Context, email string) (*domain.AdminUser, error)
	List(ctx context.Context) ([]domain.AdminUser, error)
	Delete(ctx context.Context, id string) error
}

type adminRepository struct {
	pool *pgxpool.Pool
}

// NewAdminRepository returns a Postgres-backed implementation.
func NewAdminRepository(pool *pgxpool.Pool) AdminRepository {
	return &adminRepository{pool: pool}
}

func (r *adminRepository) Create(ctx context.Context, admin *domain.AdminUser) error {
	const query = `
        INSERT INTO admin_users (email, role, added_at)
        VALUES ($1, $2, $3)
        RETURNING id`

	err := r.pool.QueryRow(ctx, query,
		domain.EmailKey(admin.Email),
		admin.Role,
		admin.AddedAt,
	).Scan(&admin.ID)
	return mapPgError(err)
}

func (r *adminRepository) GetByEmail(ctx context.Context, email string) (*domain.AdminUser, error) {
	const query = `
        SELECT id, email, role, added_at
        FROM admin_users WHERE email=$1`

	var admin domain.AdminUser
	if err := r.pool.QueryRow(ctx, query, domain.EmailKey(email)).Scan(
		&admin.ID,
		&admin.Email,
		&admin.Role,
		&admin.AddedAt,
	); err != nil {
		return nil, mapPgError(err)
	}
	return &admin, nil
}

func (r *adminRepository) List(ctx context.Context) ([]domain.AdminUser, error) {
	const query = `
        SELECT id, email, role, added_at
        FROM admin_users
        ORDER BY added_at DESC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var admins []domain.AdminUser
	for rows.Next() {
		var a domain.AdminUser
		if err := rows.Scan(&a.ID, &a.Email, &a.Role, &a.AddedAt); err != nil {
			return nil, err
		}
		admins = append(admins, a)
	}
	return admins, rows.Err()
}

func (r *adminRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM admin_users WHERE id=$1`, id)
	if err != nil {
		return mapPgError(err)
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
