package repository

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// Postgres unique_violation
const uniqueViolationCode = "23505"

// IsDuplicateKey reports whether err is a storage-layer unique constraint
// violation. This is the authoritative signal for conflicts: a pre-check in
// application code can always lose a race, the index cannot.
func IsDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode
}
