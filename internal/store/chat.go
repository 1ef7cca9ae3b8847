package store

import (
	"database/sql"
	"fmt"
)

// InsertChat writes the identity (jid) row and the chat row for a new
// conversation inside tx. Both rows share the same id: one chat binds
// to exactly one identity in this store, so a single allocated
// identifier covers the pair. Returns the chat's composed address.
func InsertChat(tx *sql.Tx, id int64, contact, server string) (string, error) {
	raw := contact + "@" + server
	if _, err := tx.Exec(
		`INSERT INTO jid (_id, user, server, raw_string) VALUES (?, ?, ?, ?)`,
		id, contact, server, raw); err != nil {
		return "", fmt.Errorf("insert jid %q: %w", raw, err)
	}
	if _, err := tx.Exec(
		`INSERT INTO chat (_id, jid_row_id, hidden) VALUES (?, ?, ?)`,
		id, id, 0); err != nil {
		return "", fmt.Errorf("insert chat %q: %w", raw, err)
	}
	return raw, nil
}

// ChatCount returns the total number of chats.
func (db *DB) ChatCount() (int64, error) {
	var count int64
	err := db.QueryRow(`SELECT COUNT(*) FROM chat`).Scan(&count)
	return count, err
}
