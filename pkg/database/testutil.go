package database

import (
	pgxmock "github.com/pashagolub/pgxmock/v4"
)

// NewMockPool creates a pgxmock pool for store tests. The returned pool
// satisfies DBTX, so it drops into any constructor that takes one. Tests
// should finish with ExpectationsWereMet to catch unexecuted expectations.
func NewMockPool() (pgxmock.PgxPoolIface, error) {
	return pgxmock.NewPool()
}
