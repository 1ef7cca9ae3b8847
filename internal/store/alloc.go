package store

import (
	"database/sql"
	"errors"
	"fmt"
)

// ErrCorrupt is returned when identifier seeding finds an existing
// store in an inconsistent state.
var ErrCorrupt = errors.New("store corrupt")

// Allocator issues chat and message identifiers for one import
// session. Identifiers are monotonically increasing, never reused and
// never reassigned once returned, even when the insert they were
// allocated for fails; gaps are legal in the schema's id space.
// Not safe for concurrent use; the importer is single-writer.
type Allocator struct {
	nextChat int64
	nextMsg  int64
}

// NewAllocator seeds an allocator from the store. fresh indicates a
// just-bootstrapped store, where both counters start at 1; otherwise
// each counter continues past the maximum id already present, so
// repeated imports never collide with earlier rows.
func NewAllocator(db *DB, fresh bool) (*Allocator, error) {
	if fresh {
		return &Allocator{nextChat: 1, nextMsg: 1}, nil
	}
	nextChat, err := nextID(db, "chat")
	if err != nil {
		return nil, err
	}
	nextMsg, err := nextID(db, "legacy_available_messages_view")
	if err != nil {
		return nil, err
	}
	return &Allocator{nextChat: nextChat, nextMsg: nextMsg}, nil
}

// AllocateChat returns the next free chat identifier.
func (a *Allocator) AllocateChat() int64 {
	id := a.nextChat
	a.nextChat++
	return id
}

// AllocateMessages returns the first of count consecutive free
// message identifiers and advances past all of them.
func (a *Allocator) AllocateMessages(count int) int64 {
	id := a.nextMsg
	a.nextMsg += int64(count)
	return id
}

func nextID(db *DB, table string) (int64, error) {
	var max sql.NullInt64
	if err := db.QueryRow("SELECT MAX(_id) FROM " + table).Scan(&max); err != nil {
		return 0, fmt.Errorf("%w: seeding ids from %s: %v", ErrCorrupt, table, err)
	}
	if !max.Valid {
		// MAX over an empty table is NULL; anything else with a NULL
		// max means the table contents are unreadable.
		var count int64
		if err := db.QueryRow("SELECT COUNT(*) FROM " + table).Scan(&count); err != nil {
			return 0, fmt.Errorf("%w: counting %s: %v", ErrCorrupt, table, err)
		}
		if count != 0 {
			return 0, fmt.Errorf("%w: %s has %d rows but no usable ids", ErrCorrupt, table, count)
		}
		return 1, nil
	}
	return max.Int64 + 1, nil
}
