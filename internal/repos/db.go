package repos

import (
	"strings"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

// OpenDB opens the SQLite database behind dsn and brings the schema up to
// date. Foreign-key enforcement is requested per connection through the DSN
// so every pooled connection rejects dangling references, not just the one
// that happened to run a PRAGMA.
func OpenDB(dsn string) (*sqlx.DB, error) {
	db, err := sqlx.Open("sqlite", withConnPragmas(dsn))
	if err != nil {
		return nil, err
	}
	if err = db.Ping(); err != nil {
		return nil, err
	}

	if err := MigrateUp(db); err != nil {
		return nil, err
	}

	return db, nil
}

func withConnPragmas(dsn string) string {
	const pragmas = "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"

	if !strings.HasPrefix(dsn, "file:") {
		// Plain file path; lift it into URI form so query parameters apply.
		return "file:" + dsn + "?" + pragmas
	}
	if strings.Contains(dsn, "?") {
		return dsn + "&" + pragmas
	}
	return dsn + "?" + pragmas
}
