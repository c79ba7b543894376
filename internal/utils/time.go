package utils

import (
	"fmt"
	"sync"
	"time"

	"github.com/stridehq/stride/internal/constants"
)

// Today returns today's date string (YYYY-MM-DD) in the local timezone.
func Today() string {
	return time.Now().Format(constants.DateFormat)
}

// ParseDate parses a date string in the standard format (YYYY-MM-DD).
func ParseDate(dateStr string) (time.Time, error) {
	t, err := time.Parse(constants.DateFormat, dateStr)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date format: %s (expected YYYY-MM-DD)", dateStr)
	}
	return t, nil
}

// ValidDate checks if the string matches the standard date format.
func ValidDate(dateStr string) bool {
	_, err := time.Parse(constants.DateFormat, dateStr)
	return err == nil
}

// ValidTimestamp checks if the string matches the standard timestamp format.
func ValidTimestamp(ts string) bool {
	_, err := time.Parse(constants.TimestampFormat, ts)
	return err == nil
}

// DaysBetween returns the number of whole days from a to b, where both are
// YYYY-MM-DD strings. Negative when b is before a.
func DaysBetween(a, b string) (int, error) {
	ta, err := ParseDate(a)
	if err != nil {
		return 0, err
	}
	tb, err := ParseDate(b)
	if err != nil {
		return 0, err
	}
	return int(tb.Sub(ta).Hours() / 24), nil
}

// AddDays returns the date n days after the given YYYY-MM-DD date.
func AddDays(dateStr string, n int) (string, error) {
	t, err := ParseDate(dateStr)
	if err != nil {
		return "", err
	}
	return t.AddDate(0, 0, n).Format(constants.DateFormat), nil
}

// Stamper issues updatedAt timestamps that are strictly increasing even
// when consecutive writes land inside the same millisecond. Last-write-wins
// compares stamps lexicographically, so two local writes must never share a
// stamp or the later one could be silently lost in a merge.
type Stamper struct {
	mu   sync.Mutex
	last time.Time
}

// NewStamper creates a Stamper.
func NewStamper() *Stamper {
	return &Stamper{}
}

// Next returns a fixed-width UTC timestamp later than any previously issued.
func (s *Stamper) Next() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC().Truncate(time.Millisecond)
	if !now.After(s.last) {
		now = s.last.Add(time.Millisecond)
	}
	s.last = now
	return now.Format(constants.TimestampFormat)
}
