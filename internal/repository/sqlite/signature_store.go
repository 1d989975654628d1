package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/initiative-bkd/petition-service/internal/domain"
	"github.com/initiative-bkd/petition-service/internal/repository"
)

type SignatureStore struct {
	db *sql.DB
}

func NewSignatureStore(db *sql.DB) *SignatureStore {
	return &SignatureStore{db: db}
}

func (s *SignatureStore) Create(ctx context.Context, rec *domain.SignatureRecord) error {
	payload, err := json.Marshal(rec.Data)
	if err != nil {
		return fmt.Errorf("Create encode: %w", err)
	}
	id := uuid.NewString()

	_, err = s.db.ExecContext(ctx, `
INSERT INTO signatures(id, signer_type, email_key, status, submitted_at_ms, data)
VALUES (?, ?, ?, ?, ?, ?);
`, id, string(rec.Type), domain.EmailKey(rec.Data.ContactEmail()), string(rec.Status), toMillis(rec.SubmittedAt), string(payload))
	if err != nil {
		return mapError(err)
	}
	rec.ID = id
	return nil
}

func (s *SignatureStore) ExistsByEmail(ctx context.Context, email string, signerType domain.SignerType) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `
SELECT COUNT(*) FROM signatures WHERE email_key = ? AND signer_type = ?;
`, domain.EmailKey(email), string(signerType)).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("ExistsByEmail: %w", err)
	}
	return n > 0, nil
}

func (s *SignatureStore) List(ctx context.Context) ([]domain.SignatureRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT id, signer_type, status, submitted_at_ms, data
FROM signatures
ORDER BY submitted_at_ms DESC;
`)
	if err != nil {
		return nil, fmt.Errorf("List query: %w", err)
	}
	defer rows.Close()

	var out []domain.SignatureRecord
	for rows.Next() {
		rec, err := scanSignature(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *rec)
	}
	return out, rows.Err()
}

func (s *SignatureStore) GetByID(ctx context.Context, id string) (*domain.SignatureRecord, error) {
	row := s.db.QueryRowContext(ctx, `
SELECT id, signer_type, status, submitted_at_ms, data
FROM signatures WHERE id = ?;
`, id)
	rec, err := scanSignature(row)
	if err != nil {
		return nil, mapError(err)
	}
	return rec, nil
}

func (s *SignatureStore) UpdateStatus(ctx context.Context, id string, status domain.SignatureStatus) error {
	res, err := s.db.ExecContext(ctx, `UPDATE signatures SET status = ? WHERE id = ?;`, string(status), id)
	if err != nil {
		return fmt.Errorf("UpdateStatus: %w", err)
	}
	return requireAffected(res)
}

func (s *SignatureStore) PurgeDeleted(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM signatures WHERE status = ?;`, string(domain.StatusDeleted))
	if err != nil {
		return 0, fmt.Errorf("PurgeDeleted: %w", err)
	}
	return res.RowsAffected()
}

func (s *SignatureStore) CountActive(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM signatures WHERE status <> ?;`, string(domain.StatusDeleted)).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("CountActive: %w", err)
	}
	return n, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSignature(row rowScanner) (*domain.SignatureRecord, error) {
	var (
		rec         domain.SignatureRecord
		signerType  string
		status      string
		submittedMs int64
		payload     string
	)
	if err := row.Scan(&rec.ID, &signerType, &status, &submittedMs, &payload); err != nil {
		return nil, err
	}
	rec.Type = domain.SignerType(signerType)
	rec.Status = domain.SignatureStatus(status)
	rec.SubmittedAt = fromMillis(submittedMs)

	data, err := domain.DecodeSignatureData(rec.Type, []byte(payload))
	if err != nil {
		return nil, err
	}
	rec.Data = data
	return &rec, nil
}

var _ repository.SignatureRepository = (*SignatureStore)(nil)
