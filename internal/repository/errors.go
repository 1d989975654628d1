package repository

//go:generate mockgen -destination=mocks/repository_mock.go -package=mocks . SignatureRepository,VisitRepository,AdminRepository,AccountRepository

import (
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	// ErrNotFound is returned when the addressed row does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicateEntry is returned when a write violates a uniqueness rule.
	ErrDuplicateEntry = errors.New("duplicate entry")
)

const (
	pgUniqueViolation = "23505"
	// pgInvalidText is raised when an id is not a valid uuid.
	pgInvalidText = "22P02"
)

func mapPgError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return ErrDuplicateEntry
		case pgInvalidText:
			return ErrNotFound
		}
	}
	return err
}
