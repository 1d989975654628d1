package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/initiative-bkd/petition-service/internal/domain"
)

// VisitRepository appends and reads analytics rows.
type VisitRepository interface {
	Create(ctx context.Context, visit *domain.VisitRecord) error
	// List returns visits, newest first.
	List(ctx context.Context) ([]domain.VisitRecord, error)
	Count(ctx context.Context) (int, error)
}

type visitRepository struct {
	pool *pgxpool.Pool
}

// NewVisitRepository returns a Postgres-backed implementation.
func NewVisitRepository(pool *pgxpool.Pool) VisitRepository {
	return &visitRepository{pool: pool}
}

func (r *visitRepository) Create(ctx context.Context, visit *domain.VisitRecord) error {
	const query = `
        INSERT INTO visits (visited_at, source, country, city)
        VALUES ($1, $2, $3, $4)
        RETURNING id`

	return r.pool.QueryRow(ctx, query,
		visit.Timestamp,
		visit.Source,
		visit.Country,
		visit.City,
	).Scan(&visit.ID)
}

func (r *visitRepository) List(ctx context.Context) ([]domain.VisitRecord, error) {
	const query = `
        SELECT id, visited_at, source, country, city
        FROM visits
        ORDER BY visited_at DESC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var visits []domain.VisitRecord
	for rows.Next() {
		var v domain.VisitRecord
		if err := rows.Scan(&v.ID, &v.Timestamp, &v.Source, &v.Country, &v.City); err != nil {
			return nil, err
		}
		v.Timestamp = v.Timestamp.UTC()
		visits = append(visits, v)
	}
	return visits, rows.Err()
}

func (r *visitRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM visits`).Scan(&count)
	return count, err
}
