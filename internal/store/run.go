package store

import "fmt"

// RecordRun writes one import_runs bookkeeping row.
func (db *DB) RecordRun(r *Run) error {
	_, err := db.Exec(`
		INSERT INTO import_runs (id, started_at, finished_at, chats, messages, sources)
		VALUES (?, ?, ?, ?, ?, ?)`,
		r.ID, r.StartedAt, r.FinishedAt, r.Chats, r.Messages, r.Sources)
	if err != nil {
		return fmt.Errorf("record run %s: %w", r.ID, err)
	}
	return nil
}

// Stats returns chat, message and run counts.
func (db *DB) Stats() (*Stats, error) {
	var s Stats
	var err error
	if s.Chats, err = db.ChatCount(); err != nil {
		return nil, fmt.Errorf("count chats: %w", err)
	}
	if s.Messages, err = db.MessageCount(); err != nil {
		return nil, fmt.Errorf("count messages: %w", err)
	}
	if err = db.QueryRow(`SELECT COUNT(*) FROM import_runs`).Scan(&s.Runs); err != nil {
		return nil, fmt.Errorf("count runs: %w", err)
	}
	return &s, nil
}
