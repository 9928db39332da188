package postgres

import (
	"database/sql"
	"errors"
)

// isNotFound unwraps because sqlx helpers may wrap sql.ErrNoRows.
func isNotFound(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}
