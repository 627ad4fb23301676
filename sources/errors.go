package sources

import "errors"

var (
	// ErrAuthTokenIsRequired is returned if you are trying to
	// initialize a source which cannot work without an auth token.
	ErrAuthTokenIsRequired = errors.New("auth token is required")

	// ErrDatabasePathIsRequired is returned if a database-backed source
	// was initialized without a path to its database file.
	ErrDatabasePathIsRequired = errors.New("database path is required")
)
