// Package transcript models timed caption segments of a video and the
// operations the pipelines need on them: timestamp parsing, clean-text
// extraction, and splitting a timeline into bounded chunks.
package transcript

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
)

// ErrNoTranscript indicates no caption track exists for the video in any
// supported language variant. This is a user-facing input condition, not
// an internal failure.
var ErrNoTranscript = errors.New("no transcript available for this video")

// Segment is a captioned unit of a video transcript. Start and End keep
// the raw timestamp strings from the caption source; use ParseTimestamp
// for numeric offsets.
//
// Upstream sources produce segments in non-decreasing start order, but
// concurrent processing does not preserve that order downstream.
type Segment struct {
	Start string // Raw start timestamp, e.g. "00:01:02.500".
	End   string // Raw end timestamp.
	Text  string // Caption content.
}

// ParseTimestamp converts a caption timestamp to seconds from media start.
//
// Supported formats: "HH:MM:SS.mmm", "MM:SS.mmm", and bare seconds
// ("45" or "45.5"). A comma decimal separator (SRT style) is accepted.
// Unparsable input returns 0 rather than an error: a segment with a
// broken timestamp is anchored at the track start instead of failing the
// whole dub.
func ParseTimestamp(ts string) float64 {
	ts = strings.ReplaceAll(strings.TrimSpace(ts), ",", ".")
	if ts == "" {
		return 0
	}

	parts := strings.Split(ts, ":")
	switch len(parts) {
	case 3: // HH:MM:SS.mmm
		h, err1 := strconv.Atoi(parts[0])
		m, err2 := strconv.Atoi(parts[1])
		s, err3 := strconv.ParseFloat(parts[2], 64)
		if err1 != nil || err2 != nil || err3 != nil {
			return 0
		}
		return float64(h)*3600 + float64(m)*60 + s
	case 2: // MM:SS.mmm
		m, err1 := strconv.Atoi(parts[0])
		s, err2 := strconv.ParseFloat(parts[1], 64)
		if err1 != nil || err2 != nil {
			return 0
		}
		return float64(m)*60 + s
	default: // Bare seconds.
		s, err := strconv.ParseFloat(ts, 64)
		if err != nil {
			return 0
		}
		return s
	}
}

// Clean-text extraction limits. Very long transcripts are truncated to
// head and tail, which carry the introduction and conclusion.
const (
	maxCleanTextChars = 50000
	cleanHeadChars    = 40000
	cleanTailChars    = 10000
)

var (
	digitsRe     = regexp.MustCompile(`\d+`)
	nonTextRe    = regexp.MustCompile(`[^\w\s.,!?]`)
	whitespaceRe = regexp.MustCompile(`\s+`)
)

// CleanText flattens timestamped segments into one plain-text string
// suitable for the text pipeline: caption artifacts (digits, symbols)
// are stripped and whitespace collapsed. Inputs above 50k characters are
// truncated to the first 40k plus the last 10k.
func CleanText(segments []Segment) string {
	if len(segments) == 0 {
		return ""
	}

	parts := make([]string, 0, len(segments))
	for _, seg := range segments {
		text := digitsRe.ReplaceAllString(seg.Text, "")
		text = nonTextRe.ReplaceAllString(text, "")
		text = strings.TrimSpace(whitespaceRe.ReplaceAllString(text, " "))
		if text != "" {
			parts = append(parts, text)
		}
	}

	full := strings.Join(parts, " ")
	if len(full) > maxCleanTextChars {
		full = full[:cleanHeadChars] + " [...] " + full[len(full)-cleanTailChars:]
	}
	return full
}
