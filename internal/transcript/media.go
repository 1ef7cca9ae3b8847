package transcript

import (
	"encoding/hex"
	"errors"
	"fmt"
	"os"
)

// ErrAttachmentRead is returned when a referenced attachment exists
// but cannot be read. It aborts the enclosing chat's transaction
// without stopping the run.
var ErrAttachmentRead = errors.New("attachment unreadable")

// EncodeMediaFile reads an attachment file and returns its contents
// as lowercase hex text, two characters per byte. The store keeps
// media as a text-rendered blob rather than native binary, so the hex
// string itself is the payload.
func EncodeMediaFile(path string) ([]byte, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrAttachmentRead, path, err)
	}
	out := make([]byte, hex.EncodedLen(len(raw)))
	hex.Encode(out, raw)
	return out, nil
}
