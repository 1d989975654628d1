package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/initiative-bkd/petition-service/internal/domain"
	"github.com/initiative-bkd/petition-service/internal/repository"
)

type VisitStore struct {
	db *sql.DB
}

func NewVisitStore(db *sql.DB) *VisitStore {
	return &VisitStore{db: db}
}

func (s *VisitStore) Create(ctx context.Context, visit *domain.VisitRecord) error {
	id := uuid.NewString()
	if _, err := s.db.ExecContext(ctx, `
INSERT INTO visits(id, visited_at_ms, source, country, city) VALUES (?, ?, ?, ?, ?);
`, id, toMillis(visit.Timestamp), visit.Source, visit.Country, visit.City); err != nil {
		return fmt.Errorf("Create visit: %w", err)
	}
	visit.ID = id
	return nil
}

func (s *VisitStore) List(ctx context.Context) ([]domain.VisitRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT id, visited_at_ms, source, country, city FROM visits ORDER BY visited_at_ms DESC;
`)
	if err != nil {
		return nil, fmt.Errorf("List query: %w", err)
	}
	defer rows.Close()

	var out []domain.VisitRecord
	for rows.Next() {
		var (
			v  domain.VisitRecord
			ms int64
		)
		if err := rows.Scan(&v.ID, &ms, &v.Source, &v.Country, &v.City); err != nil {
			return nil, err
		}
		v.Timestamp = fromMillis(ms)
		out = append(out, v)
	}
	return out, rows.Err()
}

func (s *VisitStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM visits;`).Scan(&n); err != nil {
		return 0, fmt.Errorf("Count: %w", err)
	}
	return n, nil
}

var _ repository.VisitRepository = (*VisitStore)(nil)
