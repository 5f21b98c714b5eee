package ingest

import (
	"fmt"
	"strings"
	"time"
)

// Timestamp layouts accepted by ParseTimestamp, tried in order.
const (
	layoutOffset = "2006-01-02T15:04:05-0700"
	layoutNaive  = "2006-01-02T15:04:05"
)

// ParseError reports a timestamp string that matched none of the supported
// layouts.
type ParseError struct {
	Input string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("cannot parse time_stamp: %q", e.Input)
}

// ParseTimestamp normalizes the timestamp grammars found in the source files:
// an explicit numeric UTC offset (2025-11-01T07:31:56+0000), an offset-naive
// form treated as UTC, and the naive form with a trailing Z. Input is trimmed
// before matching; no zone conversion is performed beyond the literal offset.
func ParseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, &ParseError{Input: s}
	}

	if t, err := time.Parse(layoutOffset, s); err == nil {
		return t, nil
	}
	if t, err := time.Parse(layoutNaive, s); err == nil {
		return t, nil
	}
	if trimmed, ok := strings.CutSuffix(s, "Z"); ok {
		if t, err := time.Parse(layoutNaive, trimmed); err == nil {
			return t, nil
		}
	}

	return time.Time{}, &ParseError{Input: s}
}

// DateOf returns the calendar date implied by t in its own offset, normalized
// to a UTC midnight so dates compare and hash consistently.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
