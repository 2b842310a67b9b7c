package cli

import (
	"bytes"
	"context"
	"sync"

	"github.com/alnah/go-studyflow/internal/config"
	"github.com/alnah/go-studyflow/internal/speech"
	"github.com/alnah/go-studyflow/internal/textgen"
	"github.com/alnah/go-studyflow/internal/transcript"
)

// mockCompleter returns a fixed reply and records calls.
type mockCompleter struct {
	mu    sync.Mutex
	reply string
	err   error
	calls int
}

func (m *mockCompleter) Complete(_ context.Context, _, _ string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.err != nil {
		return "", m.err
	}
	return m.reply, nil
}

type mockCompleterFactory struct {
	completer textgen.Completer
}

func (f *mockCompleterFactory) NewCompleter(string) textgen.Completer {
	return f.completer
}

// mockSynthesizer returns one second of PCM silence per call.
type mockSynthesizer struct {
	err error
}

func (m *mockSynthesizer) Synthesize(_ context.Context, _ string) ([]byte, error) {
	if m.err != nil {
		return nil, m.err
	}
	return make([]byte, 1000*2), nil
}

func (m *mockSynthesizer) SampleRate() int { return 1000 }

type mockSynthesizerFactory struct {
	synth speech.Synthesizer
}

func (f *mockSynthesizerFactory) NewSynthesizer(_, _ string) speech.Synthesizer {
	return f.synth
}

// mockSource serves a canned transcript.
type mockSource struct {
	segs []transcript.Segment
	err  error
}

func (m *mockSource) Fetch(_ context.Context, _ string) ([]transcript.Segment, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.segs, nil
}

type mockSourceFactory struct {
	source transcript.Source
}

func (f *mockSourceFactory) NewSource() transcript.Source {
	return f.source
}

// mockConfigLoader returns a fixed config.
type mockConfigLoader struct {
	cfg config.Config
	err error
}

func (m *mockConfigLoader) Load() (config.Config, error) {
	return m.cfg, m.err
}

// testEnv bundles an Env with its captured output buffers.
type testEnv struct {
	env    *Env
	stdout *bytes.Buffer
	stderr *bytes.Buffer
}

// newTestEnv creates an Env wired to mocks. envVars backs Getenv.
func newTestEnv(envVars map[string]string, opts ...EnvOption) *testEnv {
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}

	base := []EnvOption{
		WithStdout(stdout),
		WithStderr(stderr),
		WithGetenv(func(key string) string { return envVars[key] }),
		WithConfigLoader(&mockConfigLoader{}),
		WithCompleterFactory(&mockCompleterFactory{completer: &mockCompleter{reply: "generated"}}),
		WithSynthesizerFactory(&mockSynthesizerFactory{synth: &mockSynthesizer{}}),
		WithSourceFactory(&mockSourceFactory{source: &mockSource{}}),
	}
	env := NewEnv(append(base, opts...)...)
	return &testEnv{env: env, stdout: stdout, stderr: stderr}
}
