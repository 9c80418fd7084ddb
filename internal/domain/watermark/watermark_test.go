package watermark_test

import (
	"errors"
	"testing"
	"time"

	"github.com/jsamuelsen11/go-job-core/internal/domain/watermark"
)

func TestFormat_RoundTripLayout(t *testing.T) {
	t.Parallel()

	ts := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	if got, want := watermark.Format(ts), "2024-03-01T10:00:00.0000000Z"; got != want {
		t.Errorf("Format() = %q, want %q", got, want)
	}
}

func TestFormat_NormalizesToUTC(t *testing.T) {
	t.Parallel()

	loc := time.FixedZone("CET", 3600)
	ts := time.Date(2024, 3, 1, 11, 0, 0, 123456700, loc)
	if got, want := watermark.Format(ts), "2024-03-01T10:00:00.1234567Z"; got != want {
		t.Errorf("Format() = %q, want %q", got, want)
	}
}

func TestParse(t *testing.T) {
	t.Parallel()

	want := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		contents string
		want     time.Time
	}{
		{name: "round-trip layout", contents: "2024-03-01T10:00:00.0000000Z", want: want},
		{name: "offset", contents: "2024-03-01T11:00:00.0000000+01:00", want: want},
		{name: "no fraction", contents: "2024-03-01T10:00:00Z", want: want},
		{name: "trailing newline", contents: "2024-03-01T10:00:00.0000000Z\n", want: want},
		{name: "fraction kept", contents: "2024-03-01T10:00:00.5Z", want: want.Add(500 * time.Millisecond)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := watermark.Parse(tt.contents)
			if err != nil {
				t.Fatalf("Parse(%q) error = %v", tt.contents, err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("Parse(%q) = %v, want %v", tt.contents, got, tt.want)
			}
			if got.Location() != time.UTC {
				t.Errorf("Parse(%q) location = %v, want UTC", tt.contents, got.Location())
			}
		})
	}
}

func TestParse_Invalid(t *testing.T) {
	t.Parallel()

	for _, contents := range []string{"", "   ", "not a timestamp", "2024-13-01T00:00:00Z", "03/01/2024 10:00"} {
		_, err := watermark.Parse(contents)
		if err == nil {
			t.Errorf("Parse(%q) returned nil error, want error", contents)
			continue
		}

		var perr *watermark.ParseError
		if !errors.As(err, &perr) {
			t.Errorf("Parse(%q) error type = %T, want *watermark.ParseError", contents, err)
		}
	}
}

func TestFormatParse_Tiles(t *testing.T) {
	t.Parallel()

	ts := time.Date(2025, 12, 31, 23, 59, 59, 999999900, time.UTC)
	got, err := watermark.Parse(watermark.Format(ts))
	if err != nil {
		t.Fatalf("Parse(Format()) error = %v", err)
	}
	if !got.Equal(ts) {
		t.Errorf("Parse(Format(%v)) = %v", ts, got)
	}
}
