package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/alnah/go-studyflow/internal/chunk"
	"github.com/alnah/go-studyflow/internal/config"
	"github.com/alnah/go-studyflow/internal/extract"
	"github.com/alnah/go-studyflow/internal/mapreduce"
	"github.com/alnah/go-studyflow/internal/transcript"
)

// textOptions configures one document-processing run.
type textOptions struct {
	// Output file path ("" prints to stdout).
	Output string
	// Default output file name used when only output-dir is configured.
	DefaultName string
	// Extra pipeline options (e.g. question count).
	PipelineOpts []mapreduce.PipelineOption
	// Transform post-processes the model output before delivery.
	Transform func(string) string
}

// runTextOperation is the shared body of the document commands:
// load and chunk the input, run the map-reduce pipeline, deliver the
// result. Input is either a local file or a caption URL.
func runTextOperation(ctx context.Context, env *Env, input string, op mapreduce.Operation, opts textOptions) (string, error) {
	apiKey := env.Getenv(EnvOpenAIAPIKey)
	if apiKey == "" {
		return "", fmt.Errorf("%w (set it with: export %s=sk-...)", ErrAPIKeyMissing, EnvOpenAIAPIKey)
	}

	chunks, err := loadChunks(ctx, env, input)
	if err != nil {
		return "", err
	}

	pipeline := newTextPipeline(env, apiKey, opts.PipelineOpts...)
	result, err := pipeline.Process(ctx, chunks, op)
	if err != nil {
		return "", err
	}
	if opts.Transform != nil {
		result = opts.Transform(result)
	}

	return result, deliverResult(env, result, opts)
}

// isCaptionURL reports whether input names a remote caption track
// rather than a local file.
func isCaptionURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

// loadChunks produces pipeline chunks from the input. Caption URLs are
// fetched and split along the media timeline; local files are chunked
// by paragraph and sentence structure.
func loadChunks(ctx context.Context, env *Env, input string) ([]chunk.Chunk, error) {
	if isCaptionURL(input) {
		segs, err := env.SourceFactory.NewSource().Fetch(ctx, input)
		if err != nil {
			return nil, err
		}
		clean := transcript.CleanText(segs)
		parts := transcript.SelectChunks(segs, clean, transcript.DefaultChunkDuration)
		chunks := make([]chunk.Chunk, len(parts))
		for i, p := range parts {
			chunks[i] = chunk.Chunk{Index: i, Text: p}
		}
		return chunks, nil
	}

	if _, err := os.Stat(input); err != nil {
		return nil, fmt.Errorf("%s: %w", input, ErrFileNotFound)
	}
	return extract.ExtractChunked(extract.TextExtractor{}, input, chunk.NewChunker(chunk.WithWarnWriter(env.Stderr)))
}

// deliverResult writes the result to the resolved output path, or to
// stdout when no output was requested.
func deliverResult(env *Env, result string, opts textOptions) error {
	cfg, err := env.ConfigLoader.Load()
	if err != nil {
		return err
	}

	// No explicit output and no configured output dir: print and done.
	if opts.Output == "" && cfg.OutputDir == "" {
		_, err := fmt.Fprintln(env.Stdout, result)
		return err
	}

	path := config.ResolveOutputPath(opts.Output, config.ExpandPath(cfg.OutputDir), opts.DefaultName)
	warnNonMarkdownExtension(env.Stderr, path)
	if err := writeFileAtomic(path, result+"\n"); err != nil {
		return err
	}
	_, err = fmt.Fprintf(env.Stderr, "Saved to %s\n", path)
	return err
}
