// Package mapreduce runs chunked text through a text-generation service
// in two phases: a sequential map phase that processes each chunk
// independently, and a single reduce call that combines the labeled
// partial outputs. Individual map failures degrade to a placeholder and
// never abort the run; only empty input and reduce failure are fatal.
package mapreduce

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/time/rate"

	"github.com/alnah/go-studyflow/internal/chunk"
	"github.com/alnah/go-studyflow/internal/textgen"
)

// Sentinel errors for pipeline-fatal conditions.
var (
	// ErrNoChunks means there was no content to process at all.
	ErrNoChunks = errors.New("no content to process")

	// ErrUnknownOperation means the requested operation is not supported.
	ErrUnknownOperation = errors.New("unknown operation")
)

const (
	// maxMapChunks is the chunk count above which the input is sampled
	// down before mapping, bounding cost on very long documents.
	maxMapChunks = 10

	// sampleBudget is the number of representative chunks kept when
	// sampling kicks in.
	sampleBudget = 8

	// mapContentLimit caps the content sent in a single map call, in
	// characters. Chunks usually fit well under this; it is a hard
	// backstop against oversize chunks the chunker had to keep whole.
	mapContentLimit = 5000

	// unavailablePlaceholder stands in for a chunk whose map call
	// failed. The reduce prompt tells the model to skip it.
	unavailablePlaceholder = "[segment unavailable]"

	// defaultNumQuestions is how many questions the Questions operation
	// asks for in its final output.
	defaultNumQuestions = 10
)

// Pipeline executes map-reduce runs over chunked text.
type Pipeline struct {
	completer    textgen.Completer
	sampler      *chunk.Sampler
	limiter      *rate.Limiter
	numQuestions int
	onProgress   func(phase string, current, total int)
}

// PipelineOption configures a Pipeline.
type PipelineOption func(*Pipeline)

// WithLimiter overrides the pacing limiter applied between map calls.
func WithLimiter(l *rate.Limiter) PipelineOption {
	return func(p *Pipeline) {
		if l != nil {
			p.limiter = l
		}
	}
}

// WithSampler overrides the large-input sampler.
func WithSampler(s *chunk.Sampler) PipelineOption {
	return func(p *Pipeline) {
		if s != nil {
			p.sampler = s
		}
	}
}

// WithNumQuestions sets how many questions the Questions operation
// requests.
func WithNumQuestions(n int) PipelineOption {
	return func(p *Pipeline) {
		if n > 0 {
			p.numQuestions = n
		}
	}
}

// WithProgress sets a progress callback. Phase is "map" or "reduce".
func WithProgress(fn func(phase string, current, total int)) PipelineOption {
	return func(p *Pipeline) {
		p.onProgress = fn
	}
}

// NewPipeline creates a Pipeline over the given completer.
// The default limiter paces map calls at one per second.
func NewPipeline(c textgen.Completer, opts ...PipelineOption) *Pipeline {
	p := &Pipeline{
		completer:    c,
		sampler:      chunk.NewSampler(nil),
		limiter:      rate.NewLimiter(rate.Limit(1), 1),
		numQuestions: defaultNumQuestions,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Process runs op over the chunks and returns the combined output.
//
// A failed map call contributes a placeholder instead of aborting; the
// reduce phase runs even if every map call failed. Zero chunks, an
// unknown operation, context cancellation, and reduce failure are the
// only fatal conditions.
func (p *Pipeline) Process(ctx context.Context, chunks []chunk.Chunk, op Operation) (string, error) {
	if err := op.Validate(); err != nil {
		return "", err
	}
	if len(chunks) == 0 {
		return "", ErrNoChunks
	}

	// One chunk needs no map phase.
	if len(chunks) == 1 {
		out, err := p.completer.Complete(ctx, op.singlePrompt(p.numQuestions), capContent(chunks[0].Text))
		if err != nil {
			return "", fmt.Errorf("processing content: %w", err)
		}
		return out, nil
	}

	if len(chunks) > maxMapChunks {
		chunks = p.sampler.Sample(chunks, sampleBudget)
	}

	partials := p.mapPhase(ctx, chunks, op)
	if err := ctx.Err(); err != nil {
		return "", err
	}

	if p.onProgress != nil {
		p.onProgress("reduce", 1, 1)
	}
	out, err := p.reduce(ctx, partials, op)
	if err != nil {
		return "", fmt.Errorf("combining %d parts: %w", len(partials), err)
	}
	return out, nil
}

// mapPhase processes chunks sequentially, pacing calls through the
// limiter. Failures produce placeholders, not errors; cancellation
// surfaces through ctx and is checked by the caller.
func (p *Pipeline) mapPhase(ctx context.Context, chunks []chunk.Chunk, op Operation) []string {
	partials := make([]string, len(chunks))
	total := len(chunks)

	for i, c := range chunks {
		if ctx.Err() != nil {
			fillUnavailable(partials, i)
			return partials
		}
		if p.onProgress != nil {
			p.onProgress("map", i+1, total)
		}
		if err := p.limiter.Wait(ctx); err != nil {
			fillUnavailable(partials, i)
			return partials
		}

		out, err := p.completer.Complete(ctx, op.mapPrompt(i, total), capContent(c.Text))
		if err != nil {
			partials[i] = unavailablePlaceholder
			continue
		}
		partials[i] = out
	}
	return partials
}

// fillUnavailable marks chunks the map phase never reached as
// unavailable, so an early exit hands the reduce prompt placeholders
// it knows to skip instead of empty parts.
func fillUnavailable(partials []string, from int) {
	for i := from; i < len(partials); i++ {
		partials[i] = unavailablePlaceholder
	}
}

// reduce combines labeled partial outputs in one call.
func (p *Pipeline) reduce(ctx context.Context, partials []string, op Operation) (string, error) {
	var input strings.Builder
	for i, part := range partials {
		if i > 0 {
			input.WriteString("\n\n")
		}
		fmt.Fprintf(&input, "PART %d:\n%s", i+1, part)
	}
	return p.completer.Complete(ctx, op.reducePrompt(p.numQuestions), input.String())
}

func capContent(text string) string {
	if len(text) > mapContentLimit {
		return text[:mapContentLimit]
	}
	return text
}
