package transcript

import (
	"strings"
	"time"
)

// Chunking thresholds for the call-site selection policy.
//
// Size-based chunking optimizes for API payload limits on very long
// transcripts; time-based chunking keeps topical coherence in the middle
// range; short transcripts go through as a single unit.
const (
	sizeChunkingThreshold = 8000 // Above this, chunk by character budget.
	timeChunkingThreshold = 3000 // Above this, chunk by wall-clock duration.

	// DefaultSizeBudget is the character budget for size-based chunks.
	DefaultSizeBudget = 6000

	// DefaultChunkDuration is the wall-clock span of a time-based chunk.
	DefaultChunkDuration = 5 * time.Minute
)

// SplitByTime groups consecutive segments into chunks spanning at most
// chunkDur of media time. Segment texts within a chunk are joined with
// spaces. A segment whose start exceeds the current chunk's window
// closes the chunk and anchors a new one at its own start time.
func SplitByTime(segments []Segment, chunkDur time.Duration) []string {
	if len(segments) == 0 {
		return nil
	}

	window := chunkDur.Seconds()
	var chunks []string
	var current []string
	chunkStart := -1.0

	for _, seg := range segments {
		start := ParseTimestamp(seg.Start)
		if chunkStart < 0 {
			chunkStart = start
		}

		if start-chunkStart > window && len(current) > 0 {
			chunks = append(chunks, strings.Join(current, " "))
			current = []string{seg.Text}
			chunkStart = start
			continue
		}
		current = append(current, seg.Text)
	}

	if len(current) > 0 {
		chunks = append(chunks, strings.Join(current, " "))
	}
	return chunks
}

// SplitBySize splits text into chunks of at most maxChars characters,
// accumulating whole words. A single word longer than the budget is
// hard-truncated to fit, with the remainder carried into the next chunk.
func SplitBySize(text string, maxChars int) []string {
	if maxChars <= 0 || len(text) <= maxChars {
		if text == "" {
			return nil
		}
		return []string{text}
	}

	var chunks []string
	var current []string
	size := 0

	words := strings.Fields(text)
	for i := 0; i < len(words); i++ {
		word := words[i]

		if len(current) == 0 {
			if len(word) <= maxChars {
				current = append(current, word)
				size = len(word)
				continue
			}
			// Single word over budget: hard-truncate and fold the
			// remainder into the next chunk.
			chunks = append(chunks, word[:maxChars])
			words[i] = word[maxChars:]
			i--
			continue
		}

		if size+len(word)+1 <= maxChars { // +1 for the joining space.
			current = append(current, word)
			size += len(word) + 1
			continue
		}

		chunks = append(chunks, strings.Join(current, " "))
		current = nil
		size = 0
		i-- // Re-place this word in the fresh chunk.
	}

	if len(current) > 0 {
		chunks = append(chunks, strings.Join(current, " "))
	}
	return chunks
}

// SelectChunks applies the chunking policy for a transcript: size-based
// above 8000 clean-text characters, time-based above 3000, and a single
// chunk below that.
func SelectChunks(segments []Segment, cleanText string, chunkDur time.Duration) []string {
	switch {
	case len(cleanText) > sizeChunkingThreshold:
		return SplitBySize(cleanText, DefaultSizeBudget)
	case len(cleanText) > timeChunkingThreshold:
		return SplitByTime(segments, chunkDur)
	case cleanText == "":
		return nil
	default:
		return []string{cleanText}
	}
}
