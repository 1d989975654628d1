package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/initiative-bkd/petition-service/internal/domain"
	"github.com/initiative-bkd/petition-service/internal/repository"
)

type AdminStore struct {
	db *sql.DB
}

func NewAdminStore(db *sql.DB) *AdminStore {
	return &AdminStore{db: db}
}

func (s *AdminStore) Create(ctx context.Context, admin *domain.AdminUser) error {
	id := uuid.NewString()
	email := domain.EmailKey(admin.Email)
	if _, err := s.db.ExecContext(ctx, `
INSERT INTO admin_users(id, email, role, added_at_ms) VALUES (?, ?, ?, ?);
`, id, email, string(admin.Role), toMillis(admin.AddedAt)); err != nil {
		return mapError(err)
	}
	admin.ID = id
	admin.Email = email
	return nil
}

func (s *AdminStore) GetByEmail(ctx context.Context, email string) (*domain.AdminUser, error) {
	var (
		admin   domain.AdminUser
		role    string
		addedMs int64
	)
	err := s.db.QueryRowContext(ctx, `
SELECT id, email, role, added_at_ms FROM admin_users WHERE email = ?;
`, domain.EmailKey(email)).Scan(&admin.ID, &admin.Email, &role, &addedMs)
	if err != nil {
		return nil, mapError(err)
	}
	admin.Role = domain.AdminRole(role)
	admin.AddedAt = fromMillis(addedMs)
	return &admin, nil
}

func (s *AdminStore) List(ctx context.Context) ([]domain.AdminUser, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT id, email, role, added_at_ms FROM admin_users ORDER BY added_at_ms DESC;
`)
	if err != nil {
		return nil, fmt.Errorf("List query: %w", err)
	}
	defer rows.Close()

	var out []domain.AdminUser
	for rows.Next() {
		var (
			a       domain.AdminUser
			role    string
			addedMs int64
		)
		if err := rows.Scan(&a.ID, &a.Email, &role, &addedMs); err != nil {
			return nil, err
		}
		a.Role = domain.AdminRole(role)
		a.AddedAt = fromMillis(addedMs)
		out = append(out, a)
	}
	return out, rows.Err()
}

func (s *AdminStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM admin_users WHERE id = ?;`, id)
	if err != nil {
		return fmt.Errorf("Delete: %w", err)
	}
	return requireAffected(res)
}

type AccountStore struct {
	db  *sql.DB
	now func() time.Time
}

func NewAccountStore(db *sql.DB) *AccountStore {
	return &AccountStore{db: db, now: time.Now}
}

func (s *AccountStore) Create(ctx context.Context, account *domain.AdminAccount) error {
	id := uuid.NewString()
	email := domain.EmailKey(account.Email)
	created := s.now().UTC()
	if _, err := s.db.ExecContext(ctx, `
INSERT INTO admin_accounts(id, email, password_hash, created_at_ms) VALUES (?, ?, ?, ?);
`, id, email, account.PasswordHash, toMillis(created)); err != nil {
		return mapError(err)
	}
	account.ID = id
	account.Email = email
	account.CreatedAt = created
	return nil
}

func (s *AccountStore) GetByEmail(ctx context.Context, email string) (*domain.AdminAccount, error) {
	var (
		account   domain.AdminAccount
		createdMs int64
	)
	err := s.db.QueryRowContext(ctx, `
SELECT id, email, password_hash, created_at_ms FROM admin_accounts WHERE email = ?;
`, domain.EmailKey(email)).Scan(&account.ID, &account.Email, &account.PasswordHash, &createdMs)
	if err != nil {
		return nil, mapError(err)
	}
	account.CreatedAt = fromMillis(createdMs)
	return &account, nil
}

var (
	_ repository.AdminRepository   = (*AdminStore)(nil)
	_ repository.AccountRepository = (*AccountStore)(nil)
)
