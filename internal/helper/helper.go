package helper

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// IsUniqueViolation reports whether err is a postgres unique-constraint
// failure. The store enforces email/token uniqueness, so concurrent requests
// racing on the same natural key surface here instead of as duplicate rows.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}
