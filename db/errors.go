package db

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Storage error taxonomy. Services and handlers branch on these with
// errors.Is instead of matching vendor SQLSTATE strings.
var (
	ErrNotFound            = errors.New("not found")
	ErrUniqueViolation     = errors.New("unique violation")
	ErrForeignKeyViolation = errors.New("foreign key violation")
)

const (
	sqlstateUniqueViolation     = "23505"
	sqlstateForeignKeyViolation = "23503"
)

// Classify maps a pgx error onto the taxonomy above. Errors outside the
// taxonomy pass through unchanged.
func Classify(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case sqlstateUniqueViolation:
			return fmt.Errorf("%w (%s)", ErrUniqueViolation, pgErr.ConstraintName)
		case sqlstateForeignKeyViolation:
			return fmt.Errorf("%w (%s)", ErrForeignKeyViolation, pgErr.ConstraintName)
		}
	}
	return err
}
