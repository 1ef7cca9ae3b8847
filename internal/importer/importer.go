package importer

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/matheus3301/waimport/internal/store"
	"github.com/matheus3301/waimport/internal/transcript"
	"go.uber.org/zap"
)

// chatFile extracts the contact name from an export filename. Older
// exports carry a "WhatsApp " prefix; both forms import.
var chatFile = regexp.MustCompile(`^(?:WhatsApp )?Chat with (.+)\.txt$`)

// ErrNotTranscript is returned for a path that does not look like an
// exported chat file.
var ErrNotTranscript = errors.New("not a chat export filename")

// Importer converts chat export transcripts into store rows.
type Importer struct {
	db      *store.DB
	alloc   *store.Allocator
	ownName string
	server  string
	logger  *zap.Logger
}

// New creates an Importer. ownName is the importing user's display
// name exactly as it appears in the transcripts; it decides the
// key_from_me direction flag.
func New(db *store.DB, alloc *store.Allocator, ownName, server string, logger *zap.Logger) *Importer {
	return &Importer{
		db:      db,
		alloc:   alloc,
		ownName: ownName,
		server:  server,
		logger:  logger,
	}
}

// ChatResult reports one committed chat import.
type ChatResult struct {
	Contact  string `json:"contact"`
	ChatID   int64  `json:"chat_id"`
	JID      string `json:"jid"`
	Messages int64  `json:"messages"`
}

// Summary reports one importer invocation.
type Summary struct {
	RunID    string       `json:"run_id"`
	Chats    []ChatResult `json:"chats"`
	Messages int64        `json:"messages"`
}

// ContactFromFilename derives the contact display name from a
// transcript path.
func ContactFromFilename(path string) (string, error) {
	m := chatFile.FindStringSubmatch(filepath.Base(path))
	if m == nil {
		return "", fmt.Errorf("%w: %s", ErrNotTranscript, filepath.Base(path))
	}
	return m[1], nil
}

// ImportFile imports one transcript as a new chat. All rows for the
// chat commit in a single transaction; any failure rolls the whole
// chat back. Identifiers handed out before a failed insert stay
// consumed, leaving gaps, which the id space permits.
func (imp *Importer) ImportFile(path string) (*ChatResult, error) {
	contact, err := ContactFromFilename(path)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open transcript: %w", err)
	}
	defer func() { _ = f.Close() }()

	chatID := imp.alloc.AllocateChat()

	tx, err := imp.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	jid, err := store.InsertChat(tx, chatID, contact, imp.server)
	if err != nil {
		return nil, err
	}

	sc := transcript.NewScanner(f)
	dir := filepath.Dir(path)
	pos := 0
	for sc.Scan() {
		msg, err := transcript.Classify(sc.Entry(), dir)
		if err != nil {
			return nil, err
		}
		msg.Meta().FromMe = imp.ownName != "" && transcript.SenderName(msg) == imp.ownName

		id := imp.alloc.AllocateMessages(1)
		if err := store.InsertMessage(tx, mapRow(msg, id, jid, chatID, pos)); err != nil {
			return nil, err
		}
		pos++
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit chat %q: %w", jid, err)
	}

	imp.logger.Info("chat imported",
		zap.String("contact", contact),
		zap.Int64("chat_id", chatID),
		zap.Int("messages", pos),
	)

	return &ChatResult{
		Contact:  contact,
		ChatID:   chatID,
		JID:      jid,
		Messages: int64(pos),
	}, nil
}

// ImportAll imports each transcript in order. A chat whose
// attachments cannot be read is rolled back and skipped; any other
// failure stops the run with earlier commits left intact.
func (imp *Importer) ImportAll(paths []string) (*Summary, error) {
	started := time.Now()
	sum := &Summary{RunID: uuid.NewString()}

	var runErr error
	for _, path := range paths {
		res, err := imp.ImportFile(path)
		if err != nil {
			if errors.Is(err, transcript.ErrAttachmentRead) {
				imp.logger.Warn("chat skipped, attachment unreadable",
					zap.String("transcript", path),
					zap.Error(err),
				)
				continue
			}
			runErr = fmt.Errorf("import %s: %w", path, err)
			break
		}
		sum.Chats = append(sum.Chats, *res)
		sum.Messages += res.Messages
	}

	run := &store.Run{
		ID:         sum.RunID,
		StartedAt:  started.UnixMilli(),
		FinishedAt: time.Now().UnixMilli(),
		Chats:      int64(len(sum.Chats)),
		Messages:   sum.Messages,
		Sources:    strings.Join(paths, "\n"),
	}
	if err := imp.db.RecordRun(run); err != nil {
		imp.logger.Warn("could not record run", zap.Error(err))
	}

	if runErr != nil {
		return sum, runErr
	}

	imp.logger.Info("run finished",
		zap.String("run_id", sum.RunID),
		zap.Int("chats", len(sum.Chats)),
		zap.Int64("messages", sum.Messages),
		zap.Duration("elapsed", time.Since(started)),
	)
	return sum, nil
}
