package importer

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/matheus3301/waimport/internal/store"
	"github.com/matheus3301/waimport/internal/transcript"
	"go.uber.org/zap"
)

func testStore(t *testing.T) (*store.DB, *store.Allocator) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "messages.db")
	db, fresh, err := store.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := db.Migrate(); err != nil {
		t.Fatal(err)
	}
	alloc, err := store.NewAllocator(db, fresh)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db, alloc
}

func writeTranscript(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestContactFromFilename(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"Chat with Alice.txt", "Alice", false},
		{"WhatsApp Chat with First Last.txt", "First Last", false},
		{"/some/dir/Chat with Bob.txt", "Bob", false},
		{"notes.txt", "", true},
		{"Chat with .txt", "", true},
	}
	for _, tt := range tests {
		got, err := ContactFromFilename(tt.in)
		if tt.wantErr {
			if !errors.Is(err, ErrNotTranscript) {
				t.Errorf("ContactFromFilename(%q) error = %v, want ErrNotTranscript", tt.in, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("ContactFromFilename(%q) error = %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ContactFromFilename(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestImportFile(t *testing.T) {
	db, alloc := testStore(t)
	dir := t.TempDir()

	if err := os.WriteFile(filepath.Join(dir, "photo.jpg"), []byte{0xca, 0xfe}, 0600); err != nil {
		t.Fatal(err)
	}
	path := writeTranscript(t, dir, "Chat with Alice.txt",
		"5/12/17, 17:48 - First Last: This is a test message\n"+
			"5/12/17, 17:49 - Alice: reply\nwith a second line\n"+
			"5/12/17, 17:50 - Your security code with Alice changed. Tap to learn more.\n"+
			"5/12/17, 17:51 - Alice: photo.jpg (file attached)\nnice pic\n"+
			"5/12/17, 17:52 - Alice: <Media omitted>\n"+
			"5/12/17, 17:53 - Alice: Missed voice call\n")

	imp := New(db, alloc, "First Last", "s.whatsapp.net", zap.NewNop())
	res, err := imp.ImportFile(path)
	if err != nil {
		t.Fatalf("ImportFile() error = %v", err)
	}

	if res.Contact != "Alice" || res.ChatID != 1 || res.Messages != 6 {
		t.Errorf("result = %+v", res)
	}
	if res.JID != "Alice@s.whatsapp.net" {
		t.Errorf("jid = %q", res.JID)
	}

	var count int64
	if err := db.QueryRow(`SELECT COUNT(*) FROM messages WHERE key_remote_jid = ?`, res.JID).Scan(&count); err != nil {
		t.Fatal(err)
	}
	if count != 6 {
		t.Errorf("stored %d messages, want 6", count)
	}

	// Direction flag follows the configured own name.
	var fromMe int64
	if err := db.QueryRow(`SELECT key_from_me FROM messages WHERE _id = 1`).Scan(&fromMe); err != nil {
		t.Fatal(err)
	}
	if fromMe != 1 {
		t.Errorf("key_from_me = %d for own message, want 1", fromMe)
	}
	if err := db.QueryRow(`SELECT key_from_me FROM messages WHERE _id = 2`).Scan(&fromMe); err != nil {
		t.Fatal(err)
	}
	if fromMe != 0 {
		t.Errorf("key_from_me = %d for Alice's message, want 0", fromMe)
	}

	// Key id combines chat id and position, zero-padded.
	var keyID string
	if err := db.QueryRow(`SELECT key_id FROM messages WHERE _id = 3`).Scan(&keyID); err != nil {
		t.Fatal(err)
	}
	if keyID != "keyId-0001-0002" {
		t.Errorf("key_id = %q, want keyId-0001-0002", keyID)
	}

	// Media row carries hex payload, name and caption.
	var name, caption string
	var raw []byte
	if err := db.QueryRow(`SELECT media_name, media_caption, raw_data FROM messages WHERE _id = 4`).
		Scan(&name, &caption, &raw); err != nil {
		t.Fatal(err)
	}
	if name != "photo.jpg" || caption != "nice pic" {
		t.Errorf("media name/caption = %q/%q", name, caption)
	}
	if string(raw) != "cafe" {
		t.Errorf("raw_data = %q, want cafe", raw)
	}

	// Multi-line body survives as one row.
	var body string
	if err := db.QueryRow(`SELECT data FROM messages WHERE _id = 2`).Scan(&body); err != nil {
		t.Fatal(err)
	}
	if body != "reply\nwith a second line" {
		t.Errorf("body = %q", body)
	}
}

func TestImportTwiceNeverCollides(t *testing.T) {
	dir := t.TempDir()
	storePath := filepath.Join(dir, "messages.db")
	transcriptPath := writeTranscript(t, dir, "Chat with Alice.txt",
		"5/12/17, 17:48 - Alice: one\n5/12/17, 17:49 - Alice: two\n")

	runImport := func() {
		db, fresh, err := store.Open(storePath)
		if err != nil {
			t.Fatal(err)
		}
		defer func() { _ = db.Close() }()
		if _, err := db.Migrate(); err != nil {
			t.Fatal(err)
		}
		alloc, err := store.NewAllocator(db, fresh)
		if err != nil {
			t.Fatal(err)
		}
		imp := New(db, alloc, "Alice", "s.whatsapp.net", zap.NewNop())
		if _, err := imp.ImportFile(transcriptPath); err != nil {
			t.Fatal(err)
		}
	}

	runImport()
	runImport()

	db, _, err := store.Open(storePath)
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = db.Close() }()

	var total, distinct int64
	if err := db.QueryRow(`SELECT COUNT(*), COUNT(DISTINCT _id) FROM messages`).Scan(&total, &distinct); err != nil {
		t.Fatal(err)
	}
	if total != 4 {
		t.Errorf("total messages = %d, want 4", total)
	}
	if distinct != total {
		t.Errorf("duplicate message ids across imports: %d rows, %d distinct", total, distinct)
	}

	var chats int64
	if err := db.QueryRow(`SELECT COUNT(DISTINCT _id) FROM chat`).Scan(&chats); err != nil {
		t.Fatal(err)
	}
	if chats != 2 {
		t.Errorf("chat ids = %d distinct, want 2", chats)
	}
}

func TestImportFailureRollsBackWholeChat(t *testing.T) {
	db, alloc := testStore(t)
	dir := t.TempDir()

	// A directory where an attachment file should be: exists, but
	// reading it fails partway through the chat.
	if err := os.Mkdir(filepath.Join(dir, "broken.jpg"), 0700); err != nil {
		t.Fatal(err)
	}

	good := writeTranscript(t, dir, "Chat with Alice.txt",
		"5/12/17, 17:48 - Alice: fine\n")
	bad := writeTranscript(t, dir, "Chat with Bob.txt",
		"5/12/17, 17:48 - Bob: one\n"+
			"5/12/17, 17:49 - Bob: two\n"+
			"5/12/17, 17:50 - Bob: broken.jpg (file attached)\n")

	imp := New(db, alloc, "Me", "s.whatsapp.net", zap.NewNop())
	if _, err := imp.ImportFile(good); err != nil {
		t.Fatal(err)
	}
	if _, err := imp.ImportFile(bad); !errors.Is(err, transcript.ErrAttachmentRead) {
		t.Fatalf("error = %v, want ErrAttachmentRead", err)
	}

	// The failed chat left nothing behind; the earlier chat stays.
	var bobRows int64
	if err := db.QueryRow(`SELECT COUNT(*) FROM messages WHERE key_remote_jid LIKE 'Bob@%'`).Scan(&bobRows); err != nil {
		t.Fatal(err)
	}
	if bobRows != 0 {
		t.Errorf("rolled-back chat has %d rows, want 0", bobRows)
	}
	var bobChats int64
	if err := db.QueryRow(`SELECT COUNT(*) FROM jid WHERE user = 'Bob'`).Scan(&bobChats); err != nil {
		t.Fatal(err)
	}
	if bobChats != 0 {
		t.Errorf("rolled-back chat left %d jid rows, want 0", bobChats)
	}

	var aliceRows int64
	if err := db.QueryRow(`SELECT COUNT(*) FROM messages WHERE key_remote_jid LIKE 'Alice@%'`).Scan(&aliceRows); err != nil {
		t.Fatal(err)
	}
	if aliceRows != 1 {
		t.Errorf("prior chat has %d rows, want 1", aliceRows)
	}
}

func TestImportAllSkipsUnreadableAttachmentChat(t *testing.T) {
	db, alloc := testStore(t)
	dir := t.TempDir()

	if err := os.Mkdir(filepath.Join(dir, "broken.jpg"), 0700); err != nil {
		t.Fatal(err)
	}
	bad := writeTranscript(t, dir, "Chat with Bob.txt",
		"5/12/17, 17:48 - Bob: broken.jpg (file attached)\n")
	good := writeTranscript(t, dir, "Chat with Carol.txt",
		"5/12/17, 17:48 - Carol: hi\n")

	imp := New(db, alloc, "Me", "s.whatsapp.net", zap.NewNop())
	sum, err := imp.ImportAll([]string{bad, good})
	if err != nil {
		t.Fatalf("ImportAll() error = %v (unreadable attachment should only skip that chat)", err)
	}
	if len(sum.Chats) != 1 || sum.Chats[0].Contact != "Carol" {
		t.Errorf("summary chats = %+v, want just Carol", sum.Chats)
	}
	if sum.Messages != 1 {
		t.Errorf("messages = %d, want 1", sum.Messages)
	}
}

func TestImportAllStopsOnFatalError(t *testing.T) {
	db, alloc := testStore(t)
	dir := t.TempDir()

	bad := writeTranscript(t, dir, "Chat with Bob.txt",
		"5/12/17, 17:48 - Messages you send to this chat are now secured\n")
	after := writeTranscript(t, dir, "Chat with Carol.txt",
		"5/12/17, 17:48 - Carol: hi\n")

	imp := New(db, alloc, "Me", "s.whatsapp.net", zap.NewNop())
	_, err := imp.ImportAll([]string{bad, after})
	if !errors.Is(err, transcript.ErrUnrecognizedSystem) {
		t.Fatalf("error = %v, want ErrUnrecognizedSystem", err)
	}

	// The run stopped before Carol's transcript.
	var carolRows int64
	if err := db.QueryRow(`SELECT COUNT(*) FROM jid WHERE user = 'Carol'`).Scan(&carolRows); err != nil {
		t.Fatal(err)
	}
	if carolRows != 0 {
		t.Errorf("run continued past a fatal error: %d Carol rows", carolRows)
	}
}

func TestImportAllRecordsRun(t *testing.T) {
	db, alloc := testStore(t)
	dir := t.TempDir()
	path := writeTranscript(t, dir, "Chat with Alice.txt",
		"5/12/17, 17:48 - Alice: hello\n")

	imp := New(db, alloc, "Me", "s.whatsapp.net", zap.NewNop())
	sum, err := imp.ImportAll([]string{path})
	if err != nil {
		t.Fatal(err)
	}
	if sum.RunID == "" {
		t.Error("run id is empty")
	}

	var chats, messages int64
	if err := db.QueryRow(`SELECT chats, messages FROM import_runs WHERE id = ?`, sum.RunID).
		Scan(&chats, &messages); err != nil {
		t.Fatal(err)
	}
	if chats != 1 || messages != 1 {
		t.Errorf("recorded run = %d chats, %d messages, want 1/1", chats, messages)
	}
}
