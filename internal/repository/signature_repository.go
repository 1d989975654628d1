package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/initiative-bkd/petition-service/internal/domain"
)

// SignatureRepository persists petition signatures.
type SignatureRepository interface {
	// Create stores rec and fills in its ID. A second record with the same
	// normalized email and signer type fails with ErrDuplicateEntry.
	Create(ctx context.Context, rec *domain.SignatureRecord) error
	ExistsByEmail(ctx context.Context, email string, signerType domain.SignerType) (bool, error)
	// List returns every record, newest first.
	List(ctx context.Context) ([]domain.SignatureRecord, error)
	GetByID(ctx context.Context, id string) (*domain.SignatureRecord, error)
	UpdateStatus(ctx context.Context, id string, status domain.SignatureStatus) error
	// PurgeDeleted hard-removes records whose status is deleted.
	PurgeDeleted(ctx context.Context) (int64, error)
	// CountActive counts records whose status is not deleted.
	CountActive(ctx context.Context) (int, error)
}

type signatureRepository struct {
	pool *pgxpool.Pool
}

// NewSignatureRepository returns a Postgres-backed implementation.
func NewSignatureRepository(pool *pgxpool.Pool) SignatureRepository {
	return &signatureRepository{pool: pool}
}

func (r *signatureRepository) Create(ctx context.Context, rec *domain.SignatureRecord) error {
	payload, err := json.Marshal(rec.Data)
	if err != nil {
		return fmt.Errorf("encode signature payload: %w", err)
	}

	const query = `
        INSERT INTO signatures (signer_type, email_key, status, submitted_at, data)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id`

	err = r.pool.QueryRow(ctx, query,
		rec.Type,
		domain.EmailKey(rec.Data.ContactEmail()),
		rec.Status,
		rec.SubmittedAt,
		payload,
	).Scan(&rec.ID)
	return mapPgError(err)
}

func (r *signatureRepository) ExistsByEmail(ctx context.Context, email string, signerType domain.SignerType) (bool, error) {
	const query = `
        SELECT EXISTS (SELECT 1 FROM signatures WHERE email_key=$1 AND signer_type=$2)`

	var exists bool
	if err := r.pool.QueryRow(ctx, query, domain.EmailKey(email), signerType).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *signatureRepository) List(ctx context.Context) ([]domain.SignatureRecord, error) {
	const query = `
        SELECT id, signer_type, status, submitted_at, data
        FROM signatures
        ORDER BY submitted_at DESC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []domain.SignatureRecord
	for rows.Next() {
		rec, err := scanSignature(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, *rec)
	}
	return records, rows.Err()
}

func (r *signatureRepository) GetByID(ctx context.Context, id string) (*domain.SignatureRecord, error) {
	const query = `
        SELECT id, signer_type, status, submitted_at, data
        FROM signatures WHERE id=$1`

	rec, err := scanSignature(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		return nil, mapPgError(err)
	}
	return rec, nil
}

func (r *signatureRepository) UpdateStatus(ctx context.Context, id string, status domain.SignatureStatus) error {
	const query = `UPDATE signatures SET status=$1 WHERE id=$2`

	cmd, err := r.pool.Exec(ctx, query, status, id)
	if err != nil {
		return mapPgError(err)
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *signatureRepository) PurgeDeleted(ctx context.Context) (int64, error) {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM signatures WHERE status=$1`, domain.StatusDeleted)
	if err != nil {
		return 0, err
	}
	return cmd.RowsAffected(), nil
}

func (r *signatureRepository) CountActive(ctx context.Context) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM signatures WHERE status<>$1`, domain.StatusDeleted).Scan(&count)
	return count, err
}

func scanSignature(row pgx.Row) (*domain.SignatureRecord, error) {
	var (
		rec     domain.SignatureRecord
		payload []byte
	)
	if err := row.Scan(&rec.ID, &rec.Type, &rec.Status, &rec.SubmittedAt, &payload); err != nil {
		return nil, err
	}
	data, err := domain.DecodeSignatureData(rec.Type, payload)
	if err != nil {
		return nil, err
	}
	rec.Data = data
	rec.SubmittedAt = rec.SubmittedAt.UTC()
	return &rec, nil
}
