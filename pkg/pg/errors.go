package pg

import (
	"errors"

	"github.com/jackc/pgx/v5"
)

var (
	ErrEmptyConnectionString    = errors.New("pg: PG_CONN_URL is empty")
	ErrFailedToParseDBConfig    = errors.New("pg: invalid connection string")
	ErrFailedToOpenDBConnection = errors.New("pg: could not open connection pool")
	ErrHealthcheckFailed        = errors.New("pg: health probe failed")
	ErrMigrationsNotProvided    = errors.New("pg: nil migrations filesystem")
	ErrFailedToApplyMigrations  = errors.New("pg: migrations failed")
)

// IsNotFoundError reports whether err wraps pgx.ErrNoRows.
func IsNotFoundError(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}
