// Package parse converts marker-delimited generation-service output into
// structured fields. The model is asked to label its output with section
// headers ("SUMMARY:", "KEY POINTS:", "QUESTIONS:", "ANSWERS:"); this
// package treats that as a small line-oriented grammar: a recognized
// header starts a section, subsequent non-header lines append to it.
//
// Models do not always comply. Unrecognized or malformed input degrades
// to the raw text in a single field rather than erroring; a caller must
// always get something displayable back.
package parse

import "strings"

// Section header markers recognized in model output.
const (
	summaryMarker   = "SUMMARY:"
	keyPointsMarker = "KEY POINTS:"
	questionsMarker = "QUESTIONS:"
	answersMarker   = "ANSWERS:"
)

// Summary is the structured form of a summarize-operation response.
type Summary struct {
	Text      string   // Main summary body.
	KeyPoints []string // Bullet points, if the model emitted any.
	Raw       string   // Unmodified model output.
}

// QuestionSet is the structured form of a question-generation response.
// Questions and Answers are paired by index and truncated to equal
// length.
type QuestionSet struct {
	Questions []string
	Answers   []string
	Raw       string
}

// ParseSummary parses a summary response into sections.
// Input without recognized markers comes back with the whole text in
// Text and no key points.
func ParseSummary(text string) Summary {
	out := Summary{Raw: text}
	var body []string
	section := ""

	for line := range strings.SplitSeq(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		switch {
		case strings.Contains(line, summaryMarker):
			section = "summary"
			if rest := strings.TrimSpace(after(line, summaryMarker)); rest != "" {
				body = append(body, rest)
			}
		case strings.Contains(line, keyPointsMarker):
			section = "keypoints"
		case section == "keypoints" && isBullet(line):
			if point := trimBullet(line); point != "" {
				out.KeyPoints = append(out.KeyPoints, point)
			}
		case section == "summary" || section == "":
			body = append(body, line)
		}
	}

	out.Text = strings.Join(body, " ")
	if out.Text == "" {
		// Degrade gracefully: no recognizable structure means the whole
		// response is the summary.
		out.Text = strings.TrimSpace(text)
	}
	return out
}

// ParseQuestions parses a question-generation response into paired
// question and answer lists. Only numbered or bulleted lines inside the
// QUESTIONS/ANSWERS sections count; the lists are truncated to matching
// length. Input without recognized markers yields empty lists and the
// raw text.
func ParseQuestions(text string) QuestionSet {
	out := QuestionSet{Raw: text}
	section := ""

	for line := range strings.SplitSeq(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		switch {
		case strings.Contains(line, questionsMarker):
			section = "questions"
		case strings.Contains(line, answersMarker):
			section = "answers"
		case section == "questions" && isListItem(line):
			if q := trimListItem(line); q != "" {
				out.Questions = append(out.Questions, q)
			}
		case section == "answers" && isListItem(line):
			if a := trimListItem(line); a != "" {
				out.Answers = append(out.Answers, a)
			}
		}
	}

	// Keep questions and answers paired.
	n := min(len(out.Questions), len(out.Answers))
	if len(out.Answers) > 0 || len(out.Questions) > 0 {
		if n == 0 && len(out.Answers) == 0 {
			// Questions without an answers section are still usable.
			return out
		}
		out.Questions = out.Questions[:n]
		out.Answers = out.Answers[:n]
	}
	return out
}

func after(line, marker string) string {
	if idx := strings.Index(line, marker); idx != -1 {
		return line[idx+len(marker):]
	}
	return ""
}

func isBullet(line string) bool {
	return strings.HasPrefix(line, "-") || strings.HasPrefix(line, "•")
}

func trimBullet(line string) string {
	return strings.TrimSpace(strings.TrimLeft(line, "-• "))
}

// isListItem reports whether a line looks like a numbered or bulleted
// list entry ("1. ...", "- ...", "• ...").
func isListItem(line string) bool {
	if line == "" {
		return false
	}
	return line[0] >= '0' && line[0] <= '9' || isBullet(line)
}

func trimListItem(line string) string {
	return strings.TrimSpace(strings.TrimLeft(line, "0123456789.-• "))
}
