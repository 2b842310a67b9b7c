// Package chunk splits raw text into ordered, size-bounded chunks and
// samples representative subsets of them. Chunks exist to satisfy the
// per-request size limits of external generation services: no single
// call can carry a whole document, so the map-reduce pipeline processes
// chunks independently and recombines the results.
package chunk

import (
	"fmt"
	"io"
	"strings"
)

// Chunk is an ordered unit of text bounded by a size budget.
// Concatenating all chunks in index order reconstructs the source text
// modulo whitespace normalization at paragraph boundaries.
type Chunk struct {
	Index int    // Zero-based position in the source text.
	Text  string // Chunk content, trimmed.
}

// Size returns the chunk length in bytes.
func (c Chunk) Size() int {
	return len(c.Text)
}

// String returns a human-readable representation for logging.
func (c Chunk) String() string {
	return fmt.Sprintf("chunk %d: %d chars", c.Index, len(c.Text))
}

// Chunker splits text into size-bounded chunks at natural boundaries.
// The zero value is not usable; create with NewChunker.
type Chunker struct {
	budget int
	warn   io.Writer // Destination for oversize-sentence warnings.
}

// DefaultBudget is the default chunk size budget in characters.
// It matches the per-call payload the generation service accepts with
// headroom for the operation prompt.
const DefaultBudget = 2000

// ChunkerOption configures a Chunker.
type ChunkerOption func(*Chunker)

// WithBudget sets the chunk size budget in characters.
func WithBudget(n int) ChunkerOption {
	return func(c *Chunker) {
		if n > 0 {
			c.budget = n
		}
	}
}

// WithWarnWriter sets the destination for oversize-sentence warnings.
// Default: io.Discard.
func WithWarnWriter(w io.Writer) ChunkerOption {
	return func(c *Chunker) {
		if w != nil {
			c.warn = w
		}
	}
}

// NewChunker creates a Chunker with the given options.
func NewChunker(opts ...ChunkerOption) *Chunker {
	c := &Chunker{
		budget: DefaultBudget,
		warn:   io.Discard,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Split divides text into chunks of at most the configured budget.
//
// Paragraphs (blank-line-delimited) are greedily accumulated into the
// current chunk; when adding one would overflow the budget, the chunk is
// closed and a new one started. A paragraph that alone exceeds the
// budget falls back to sentence-level accumulation. A single sentence
// longer than the budget is never split mid-sentence: it becomes an
// oversize chunk and a warning is logged.
//
// Empty or blank input yields an empty slice, not an error. Split never
// fails and is deterministic: the same input and budget always produce
// the same chunk sequence.
func (c *Chunker) Split(text string) []Chunk {
	var chunks []Chunk
	var current strings.Builder

	flush := func() {
		trimmed := strings.TrimSpace(current.String())
		if trimmed != "" {
			chunks = append(chunks, Chunk{Index: len(chunks), Text: trimmed})
		}
		current.Reset()
	}

	for _, para := range strings.Split(text, "\n\n") {
		para = strings.TrimSpace(para)
		if para == "" {
			continue
		}

		// Oversize paragraph: close the current chunk and fall back to
		// sentence-level accumulation.
		if len(para) > c.budget {
			flush()
			c.splitSentences(para, &current, flush)
			continue
		}

		if current.Len() > 0 && current.Len()+len(para)+2 > c.budget {
			flush()
		}
		if current.Len() > 0 {
			current.WriteString("\n\n")
		}
		current.WriteString(para)
	}

	flush()
	return chunks
}

// splitSentences accumulates period-delimited sentences into chunks.
// Sentences lacking a trailing period get one synthesized so that
// rejoining chunks reads naturally.
func (c *Chunker) splitSentences(para string, current *strings.Builder, flush func()) {
	for _, sentence := range strings.Split(para, ". ") {
		sentence = strings.TrimSpace(sentence)
		if sentence == "" {
			continue
		}
		if !strings.HasSuffix(sentence, ".") {
			sentence += "."
		}

		if len(sentence) > c.budget {
			// A single unsplittable sentence over budget is allowed as
			// an oversize chunk; mid-sentence cuts break coherence.
			fmt.Fprintf(c.warn, "Warning: sentence of %d chars exceeds chunk budget %d\n",
				len(sentence), c.budget)
			flush()
			current.WriteString(sentence)
			flush()
			continue
		}

		if current.Len() > 0 && current.Len()+len(sentence)+1 > c.budget {
			flush()
		}
		if current.Len() > 0 {
			current.WriteString(" ")
		}
		current.WriteString(sentence)
	}
}
