package transcript

import (
	"bufio"
	"io"
	"regexp"
	"strings"
)

// Entry is one timestamped logical unit of transcript content,
// possibly spanning multiple raw lines.
type Entry struct {
	Timestamp int64  // epoch milliseconds
	Content   string // joined multi-line content after "<ts> - "
	Lines     int    // raw line count
}

// entryStart matches a line that opens a new entry:
// "M/D/YY, H:MM - <rest>".
var entryStart = regexp.MustCompile(`^(\d{1,2}/\d{1,2}/\d{2}, \d{1,2}:\d{2}) - (.*)$`)

// Scanner streams entries out of a raw transcript in a single forward
// pass, joining continuation lines onto the current entry. Usage
// mirrors bufio.Scanner:
//
//	sc := transcript.NewScanner(f)
//	for sc.Scan() {
//		e := sc.Entry()
//		...
//	}
//	if err := sc.Err(); err != nil { ... }
//
// Content before the first entry-start line has no entry to attach to
// and is dropped.
type Scanner struct {
	sc   *bufio.Scanner
	cur  Entry
	next *openEntry // start line consumed while finishing the previous entry
	err  error
	done bool
}

type openEntry struct {
	ts    int64
	lines []string
}

// NewScanner returns a Scanner reading raw transcript lines from r.
func NewScanner(r io.Reader) *Scanner {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	return &Scanner{sc: sc}
}

// Scan advances to the next entry. It returns false at end of input
// or on error; Err disambiguates.
func (s *Scanner) Scan() bool {
	if s.err != nil || s.done {
		return false
	}

	open := s.next
	s.next = nil

	for s.sc.Scan() {
		line := s.sc.Text()
		m := entryStart.FindStringSubmatch(line)
		if m == nil {
			if open != nil {
				open.lines = append(open.lines, line)
			}
			continue
		}
		ts, err := NormalizeTimestamp(m[1])
		if err != nil {
			s.err = err
			return false
		}
		if open != nil {
			s.next = &openEntry{ts: ts, lines: []string{m[2]}}
			s.cur = open.entry()
			return true
		}
		open = &openEntry{ts: ts, lines: []string{m[2]}}
	}
	if err := s.sc.Err(); err != nil {
		s.err = err
		return false
	}

	s.done = true
	if open != nil {
		s.cur = open.entry()
		return true
	}
	return false
}

// Entry returns the entry produced by the last successful Scan.
func (s *Scanner) Entry() Entry { return s.cur }

// Err returns the first error encountered while scanning.
func (s *Scanner) Err() error { return s.err }

func (o *openEntry) entry() Entry {
	return Entry{
		Timestamp: o.ts,
		Content:   strings.Join(o.lines, "\n"),
		Lines:     len(o.lines),
	}
}
