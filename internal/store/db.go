package store

import (
	"database/sql"
	"fmt"
	"os"

	_ "github.com/mattn/go-sqlite3"
)

// DB wraps a SQLite connection to a msgstore-shaped database.
type DB struct {
	*sql.DB
}

// Open creates a new SQLite connection with WAL mode and recommended
// pragmas. fresh reports whether the database file did not exist
// beforehand, which decides how the identifier allocator seeds itself.
func Open(path string) (db *DB, fresh bool, err error) {
	_, statErr := os.Stat(path)
	fresh = os.IsNotExist(statErr)

	d, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return nil, false, fmt.Errorf("open db: %w", err)
	}
	// Verify connection.
	if err := d.Ping(); err != nil {
		_ = d.Close()
		return nil, false, fmt.Errorf("ping db: %w", err)
	}
	return &DB{d}, fresh, nil
}
