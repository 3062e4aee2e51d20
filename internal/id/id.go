// Package id formats and parses journal entry identifiers of the form
// YYYY-MM-NNN with a trailing leg letter.
package id

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// FormatEntryID returns an entry ID like "2025-01-001". Undated entries
// use year and month zero: "0000-00-001".
func FormatEntryID(year, month, seq int) string {
	return fmt.Sprintf("%04d-%02d-%03d", year, month, seq)
}

// FormatLegID returns a leg ID like "2025-01-001a" (leg 0='a', 1='b', etc.).
func FormatLegID(entryID string, leg int) string {
	return entryID + string(rune('a'+leg))
}

// ParseEntryID parses "2025-01-001" into year, month, seq.
func ParseEntryID(id string) (year, month, seq int, err error) {
	// Strip any leg suffix (trailing lowercase letters).
	base := EntryGroup(id)

	parts := strings.SplitN(base, "-", 3)
	if len(parts) != 3 {
		return 0, 0, 0, fmt.Errorf("invalid entry ID format: %q", id)
	}

	year, err = strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, 0, fmt.Errorf("invalid year in entry ID %q: %w", id, err)
	}

	month, err = strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, 0, fmt.Errorf("invalid month in entry ID %q: %w", id, err)
	}
	if month < 0 || month > 12 || (month == 0) != (year == 0) {
		return 0, 0, 0, fmt.Errorf("invalid month in entry ID %q", id)
	}

	seq, err = strconv.Atoi(parts[2])
	if err != nil {
		return 0, 0, 0, fmt.Errorf("invalid sequence in entry ID %q: %w", id, err)
	}
	if seq < 1 {
		return 0, 0, 0, fmt.Errorf("sequence must be positive in entry ID %q", id)
	}

	return year, month, seq, nil
}

// EntryGroup strips the leg suffix from a leg ID.
// "2025-01-001a" -> "2025-01-001"
func EntryGroup(legID string) string {
	if len(legID) == 0 {
		return ""
	}
	i := len(legID)
	for i > 0 && legID[i-1] >= 'a' && legID[i-1] <= 'z' {
		i--
	}
	return legID[:i]
}

// Sequencer hands out entry IDs numbered per calendar month in call order.
type Sequencer struct {
	next map[[2]int]int
}

// NewSequencer returns a Sequencer with every month starting at 1.
func NewSequencer() *Sequencer {
	return &Sequencer{next: make(map[[2]int]int)}
}

// Next returns the next entry ID for date's month. A zero date draws from
// the undated sequence.
func (s *Sequencer) Next(date time.Time) string {
	var k [2]int
	if !date.IsZero() {
		k = [2]int{date.Year(), int(date.Month())}
	}
	s.next[k]++
	return FormatEntryID(k[0], k[1], s.next[k])
}
