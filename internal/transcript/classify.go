package transcript

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// ErrUnrecognizedSystem is returned when an entry has no sender
// separator but matches none of the known system-notice phrasings.
var ErrUnrecognizedSystem = errors.New("unrecognized system line")

const (
	senderSep        = ": "
	attachmentMarker = " (file attached)"
	omittedMarker    = "<Media omitted>"
)

// systemNotices are the system-event phrasings this importer accepts.
// Exports disagree on "changed" vs "has changed", so both pass.
var systemNotices = []*regexp.Regexp{
	regexp.MustCompile(`^Your security code with .+ (?:has )?changed\. Tap to learn more\.$`),
}

// callMarkers are the exact bodies that mark a missed call.
var callMarkers = map[string]bool{
	"Missed voice call": true,
	"Missed video call": true,
}

// Classify turns one tokenized entry into a typed message. dir is the
// directory containing the transcript, used to resolve attachment
// filenames. The decision order matters: the patterns are not
// mutually exclusive, and the first match wins.
func Classify(e Entry, dir string) (Message, error) {
	meta := Meta{Timestamp: e.Timestamp, Lines: e.Lines}

	// No "sender: body" separator means a system notice or garbage.
	sender, body, ok := strings.Cut(e.Content, senderSep)
	if !ok {
		for _, re := range systemNotices {
			if re.MatchString(e.Content) {
				return &SystemMessage{Info: meta, Text: e.Content}, nil
			}
		}
		return nil, fmt.Errorf("%w: %q", ErrUnrecognizedSystem, e.Content)
	}

	if callMarkers[body] {
		return &CallMessage{Info: meta, Sender: sender}, nil
	}

	if name, caption, ok := cutAttachment(body); ok {
		payload, err := loadAttachment(dir, name)
		if err != nil {
			return nil, err
		}
		return &MediaMessage{
			Info:     meta,
			Sender:   sender,
			Filename: name,
			Caption:  caption,
			Payload:  payload,
		}, nil
	}

	if body == omittedMarker {
		return &MediaMessage{Info: meta, Sender: sender}, nil
	}

	return &TextMessage{Info: meta, Sender: sender, Body: body}, nil
}

// cutAttachment splits "<filename> (file attached)<caption>" into its
// parts. The filename sits on the entry's first line; the caption is
// whatever follows the marker, trimmed, and may span joined
// continuation lines. Exports reference attachments by bare filename
// only, so anything with a path separator is not treated as a
// reference; this also keeps a crafted transcript from reaching
// outside its own directory.
func cutAttachment(body string) (name, caption string, ok bool) {
	idx := strings.Index(body, attachmentMarker)
	if idx <= 0 {
		return "", "", false
	}
	name = body[:idx]
	if strings.ContainsAny(name, "\n/\\") {
		return "", "", false
	}
	return name, strings.TrimSpace(body[idx+len(attachmentMarker):]), true
}

// loadAttachment hex-encodes the referenced file. A missing file is
// not an error: exports are commonly shared without media, and the
// row is stored with an empty payload.
func loadAttachment(dir, name string) ([]byte, error) {
	path := filepath.Join(dir, name)
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: stat %s: %v", ErrAttachmentRead, path, err)
	}
	return EncodeMediaFile(path)
}
