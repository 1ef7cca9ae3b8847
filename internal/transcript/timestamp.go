package transcript

import (
	"errors"
	"fmt"
	"time"
)

// ErrFormat is returned when a timestamp or entry-start line does not
// match the export format.
var ErrFormat = errors.New("malformed transcript timestamp")

// tsLayout matches the export's "M/D/YY, H:MM" form. The reference
// layout accepts both padded and unpadded month, day and hour.
const tsLayout = "1/2/06, 15:04"

// NormalizeTimestamp parses an export timestamp as local wall-clock
// time and returns epoch milliseconds. The source format carries no
// timezone; the exporting device's zone is implicitly assumed, so the
// importer's local zone stands in for it.
func NormalizeTimestamp(s string) (int64, error) {
	t, err := time.ParseInLocation(tsLayout, s, time.Local)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrFormat, s)
	}
	return t.Unix() * 1000, nil
}
