// Package cli implements the studyflow commands. Commands receive all
// external dependencies through an Env so tests can run them against
// mocks without touching the network or the user's config.
package cli

import (
	"io"
	"os"

	openai "github.com/sashabaranov/go-openai"

	"github.com/alnah/go-studyflow/internal/config"
	"github.com/alnah/go-studyflow/internal/mapreduce"
	"github.com/alnah/go-studyflow/internal/speech"
	"github.com/alnah/go-studyflow/internal/textgen"
	"github.com/alnah/go-studyflow/internal/transcript"
)

// Environment variable names read by commands.
const (
	EnvOpenAIAPIKey     = "OPENAI_API_KEY"
	EnvElevenLabsAPIKey = "ELEVENLABS_API_KEY"
	EnvUserID           = "STUDYFLOW_USER_ID"
)

// Env holds injectable dependencies for CLI commands.
// This is the central injection point for testing CLI commands in
// isolation. All fields have production defaults via DefaultEnv().
type Env struct {
	// I/O and environment
	Stdout io.Writer
	Stderr io.Writer
	Getenv func(string) string

	// Factories for domain objects
	ConfigLoader       ConfigLoader
	CompleterFactory   CompleterFactory
	SynthesizerFactory SynthesizerFactory
	SourceFactory      SourceFactory
}

// ConfigLoader loads and provides access to configuration.
type ConfigLoader interface {
	Load() (config.Config, error)
}

// CompleterFactory creates text-generation completers.
type CompleterFactory interface {
	NewCompleter(apiKey string) textgen.Completer
}

// SynthesizerFactory creates text-to-speech synthesizers.
type SynthesizerFactory interface {
	NewSynthesizer(apiKey, voiceID string) speech.Synthesizer
}

// SourceFactory creates transcript sources.
type SourceFactory interface {
	NewSource() transcript.Source
}

// EnvOption configures an Env.
type EnvOption func(*Env)

// WithStdout sets the stdout writer.
func WithStdout(w io.Writer) EnvOption {
	return func(e *Env) {
		e.Stdout = w
	}
}

// WithStderr sets the stderr writer.
func WithStderr(w io.Writer) EnvOption {
	return func(e *Env) {
		e.Stderr = w
	}
}

// WithGetenv sets the environment variable getter.
func WithGetenv(fn func(string) string) EnvOption {
	return func(e *Env) {
		e.Getenv = fn
	}
}

// WithConfigLoader sets the config loader.
func WithConfigLoader(l ConfigLoader) EnvOption {
	return func(e *Env) {
		e.ConfigLoader = l
	}
}

// WithCompleterFactory sets the completer factory.
func WithCompleterFactory(f CompleterFactory) EnvOption {
	return func(e *Env) {
		e.CompleterFactory = f
	}
}

// WithSynthesizerFactory sets the synthesizer factory.
func WithSynthesizerFactory(f SynthesizerFactory) EnvOption {
	return func(e *Env) {
		e.SynthesizerFactory = f
	}
}

// WithSourceFactory sets the transcript source factory.
func WithSourceFactory(f SourceFactory) EnvOption {
	return func(e *Env) {
		e.SourceFactory = f
	}
}

// DefaultEnv returns an Env with production defaults.
func DefaultEnv() *Env {
	return &Env{
		Stdout:             os.Stdout,
		Stderr:             os.Stderr,
		Getenv:             os.Getenv,
		ConfigLoader:       &defaultConfigLoader{},
		CompleterFactory:   &defaultCompleterFactory{},
		SynthesizerFactory: &defaultSynthesizerFactory{},
		SourceFactory:      &defaultSourceFactory{},
	}
}

// NewEnv creates an Env with the given options applied to defaults.
func NewEnv(opts ...EnvOption) *Env {
	env := DefaultEnv()
	for _, opt := range opts {
		opt(env)
	}
	return env
}

// ---------------------------------------------------------------------------
// Default implementations - delegate to real packages
// ---------------------------------------------------------------------------

// defaultConfigLoader implements ConfigLoader using the config package.
type defaultConfigLoader struct{}

func (defaultConfigLoader) Load() (config.Config, error) {
	return config.Load()
}

// defaultCompleterFactory implements CompleterFactory using OpenAI.
type defaultCompleterFactory struct{}

func (defaultCompleterFactory) NewCompleter(apiKey string) textgen.Completer {
	client := openai.NewClient(apiKey)
	return textgen.NewOpenAICompleter(client)
}

// defaultSynthesizerFactory implements SynthesizerFactory using ElevenLabs.
type defaultSynthesizerFactory struct{}

func (defaultSynthesizerFactory) NewSynthesizer(apiKey, voiceID string) speech.Synthesizer {
	var opts []speech.SynthOption
	if voiceID != "" {
		opts = append(opts, speech.WithVoice(voiceID))
	}
	return speech.NewElevenLabsSynthesizer(apiKey, opts...)
}

// defaultSourceFactory implements SourceFactory using the VTT source.
type defaultSourceFactory struct{}

func (defaultSourceFactory) NewSource() transcript.Source {
	return transcript.NewVTTSource()
}

// Compile-time interface verification.
var (
	_ ConfigLoader       = (*defaultConfigLoader)(nil)
	_ CompleterFactory   = (*defaultCompleterFactory)(nil)
	_ SynthesizerFactory = (*defaultSynthesizerFactory)(nil)
	_ SourceFactory      = (*defaultSourceFactory)(nil)
)

// newTextPipeline builds a map-reduce pipeline with command-level
// progress reporting.
func newTextPipeline(env *Env, apiKey string, opts ...mapreduce.PipelineOption) *mapreduce.Pipeline {
	completer := env.CompleterFactory.NewCompleter(apiKey)
	opts = append([]mapreduce.PipelineOption{
		mapreduce.WithProgress(defaultProgressCallback(env.Stderr)),
	}, opts...)
	return mapreduce.NewPipeline(completer, opts...)
}
