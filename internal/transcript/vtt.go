package transcript

import (
	"bufio"
	"io"
	"regexp"
	"strings"
)

// WebVTT cue timing lines, with or without an hour component:
//
//	00:01:02.500 --> 00:01:05.000
//	01:02.500 --> 01:05.000
var (
	cueFullRe   = regexp.MustCompile(`(\d+:\d+:\d+\.\d+)\s*-->\s*(\d+:\d+:\d+\.\d+)`)
	cueSimpleRe = regexp.MustCompile(`(\d+:\d+\.\d+)\s*-->\s*(\d+:\d+\.\d+)`)

	cueIndexRe   = regexp.MustCompile(`^\d+$`)
	leadingNumRe = regexp.MustCompile(`^\d+\s*`)
	leadingSymRe = regexp.MustCompile(`^[^a-zA-Z0-9]+`)
)

// ParseVTT parses a WebVTT caption payload into ordered segments.
//
// Header lines (WEBVTT, NOTE, X-TIMESTAMP-MAP, Kind:), cue index lines,
// and blank lines are skipped; multi-line cue text is joined with
// spaces. Cues with no text are dropped. Malformed lines are ignored
// rather than erroring: caption files in the wild are messy and a
// best-effort parse of the valid cues is more useful than a rejection.
func ParseVTT(r io.Reader) []Segment {
	var (
		segments []Segment
		block    []string
		start    string
		end      string
	)

	flush := func() {
		text := strings.TrimSpace(strings.Join(block, " "))
		if text != "" && start != "" && end != "" {
			segments = append(segments, Segment{Start: start, End: end, Text: text})
		}
		block = nil
	}

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		if line == "" ||
			strings.HasPrefix(line, "WEBVTT") ||
			strings.HasPrefix(line, "NOTE") ||
			strings.HasPrefix(line, "X-TIMESTAMP-MAP") ||
			strings.HasPrefix(line, "Kind:") {
			continue
		}

		if m := cueFullRe.FindStringSubmatch(line); m != nil {
			flush()
			start, end = m[1], m[2]
			continue
		}
		if m := cueSimpleRe.FindStringSubmatch(line); m != nil {
			flush()
			start, end = m[1], m[2]
			continue
		}

		if cueIndexRe.MatchString(line) || strings.Contains(line, "-->") {
			continue
		}

		cleaned := leadingNumRe.ReplaceAllString(line, "")
		cleaned = leadingSymRe.ReplaceAllString(cleaned, "")
		if cleaned = strings.TrimSpace(cleaned); cleaned != "" {
			block = append(block, cleaned)
		}
	}

	flush()
	return segments
}
