// Package watermark encodes and decodes the persisted watermark: a single
// round-trip ISO-8601 timestamp per (container, key) record.
//
// The layout carries seven fractional digits and an explicit zone designator
// so values written by other producers of the same record format parse back
// to the identical instant:
//
//	2024-03-01T10:00:00.0000000Z
//	2024-03-01T11:00:00.0000000+01:00
package watermark

import (
	"fmt"
	"strings"
	"time"
)

// Layout is the round-trip timestamp layout used for persisted watermarks.
const Layout = "2006-01-02T15:04:05.0000000Z07:00"

// Resolution is the finest instant the layout can represent. Cycle
// boundaries are truncated to it so a persisted end parses back unchanged.
const Resolution = 100 * time.Nanosecond

// ParseError reports watermark contents that are not a valid timestamp.
type ParseError struct {
	Contents string
	Err      error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("unparsable watermark %q: %v", e.Contents, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Format renders t in the persisted layout. Times are normalized to UTC.
func Format(t time.Time) string {
	return t.UTC().Format(Layout)
}

// Parse decodes persisted watermark contents. Surrounding whitespace is
// ignored. Any RFC 3339 timestamp is accepted, with or without fractional
// seconds. The returned time is in UTC.
func Parse(contents string) (time.Time, error) {
	s := strings.TrimSpace(contents)
	if s == "" {
		return time.Time{}, &ParseError{Contents: contents, Err: fmt.Errorf("empty value")}
	}

	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, &ParseError{Contents: contents, Err: err}
	}
	return t.UTC(), nil
}
