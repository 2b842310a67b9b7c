package cli

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alnah/go-studyflow/internal/config"
	"github.com/alnah/go-studyflow/internal/lang"
	"github.com/alnah/go-studyflow/internal/transcript"
)

func dubEnvVars() map[string]string {
	return map[string]string{
		EnvOpenAIAPIKey:     "sk-test",
		EnvElevenLabsAPIKey: "el-test",
		EnvUserID:           "user-1",
	}
}

func dubSegments() []transcript.Segment {
	return []transcript.Segment{
		{Start: "00:00.000", End: "00:02.000", Text: "first caption segment with text"},
		{Start: "00:04.000", End: "00:06.000", Text: "second caption segment with text"},
	}
}

func TestDub_ProducesTrack(t *testing.T) {
	t.Parallel()

	outDir := t.TempDir()
	te := newTestEnv(dubEnvVars(),
		WithSourceFactory(&mockSourceFactory{source: &mockSource{segs: dubSegments()}}))

	err := execute(t, DubCmd(te.env), "https://captions.example/abc.vtt", "--output-dir", outDir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	trackPath := strings.TrimSpace(te.stdout.String())
	if trackPath == "" {
		t.Fatal("no track path on stdout")
	}
	if !strings.HasPrefix(trackPath, outDir) {
		t.Errorf("track %q outside output dir %q", trackPath, outDir)
	}
	if _, err := os.Stat(trackPath); err != nil {
		t.Errorf("track file missing: %v", err)
	}

	// Phase transitions are echoed as the pipeline reports them, so all
	// three appear in order no matter how fast the job finishes.
	stderr := te.stderr.String()
	extracting := strings.Index(stderr, "extracting_transcript (10%)")
	creating := strings.Index(stderr, "creating_audio (50%)")
	completed := strings.Index(stderr, "completed (100%)")
	if extracting < 0 || creating < 0 || completed < 0 {
		t.Fatalf("phase transitions not echoed:\n%s", stderr)
	}
	if !(extracting < creating && creating < completed) {
		t.Errorf("phase transitions out of order:\n%s", stderr)
	}
}

func TestDub_MissingKeys(t *testing.T) {
	t.Parallel()

	te := newTestEnv(map[string]string{EnvElevenLabsAPIKey: "el"})
	err := execute(t, DubCmd(te.env), "url")
	if !errors.Is(err, ErrAPIKeyMissing) {
		t.Errorf("error = %v, want ErrAPIKeyMissing", err)
	}

	te = newTestEnv(map[string]string{EnvOpenAIAPIKey: "sk"})
	err = execute(t, DubCmd(te.env), "url")
	if !errors.Is(err, ErrTTSKeyMissing) {
		t.Errorf("error = %v, want ErrTTSKeyMissing", err)
	}
}

func TestDub_InvalidLanguage(t *testing.T) {
	t.Parallel()

	te := newTestEnv(dubEnvVars())
	err := execute(t, DubCmd(te.env), "url", "--lang", "zz")
	if !errors.Is(err, lang.ErrInvalid) {
		t.Errorf("error = %v, want lang.ErrInvalid", err)
	}
}

func TestDub_ConfigDefaultsApply(t *testing.T) {
	t.Parallel()

	outDir := t.TempDir()
	te := newTestEnv(dubEnvVars(),
		WithConfigLoader(&mockConfigLoader{cfg: config.Config{OutputDir: outDir, TargetLang: "hi"}}),
		WithSourceFactory(&mockSourceFactory{source: &mockSource{segs: dubSegments()}}))

	if err := execute(t, DubCmd(te.env), "url"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(te.stderr.String(), "Hindi") {
		t.Errorf("configured language not used:\n%s", te.stderr.String())
	}
	if !strings.HasPrefix(strings.TrimSpace(te.stdout.String()), outDir) {
		t.Errorf("configured output dir not used: %q", te.stdout.String())
	}
}

func TestDub_TranscriptFailureSurfaces(t *testing.T) {
	t.Parallel()

	te := newTestEnv(dubEnvVars(),
		WithSourceFactory(&mockSourceFactory{source: &mockSource{err: transcript.ErrNoTranscript}}))

	err := execute(t, DubCmd(te.env), "url", "--output-dir", t.TempDir())
	if err == nil || !strings.Contains(err.Error(), "dubbing failed") {
		t.Errorf("error = %v, want dubbing failure", err)
	}
}

func TestDub_PartialSegmentFailureStillSucceeds(t *testing.T) {
	t.Parallel()

	segs := append(dubSegments(), transcript.Segment{Start: "00:08.000", End: "00:09.000", Text: "tiny"})
	te := newTestEnv(dubEnvVars(),
		WithSourceFactory(&mockSourceFactory{source: &mockSource{segs: segs}}))

	outDir := t.TempDir()
	if err := execute(t, DubCmd(te.env), "url", "--output-dir", outDir); err != nil {
		t.Fatalf("short segment must be skipped, not fatal: %v", err)
	}

	trackPath := strings.TrimSpace(te.stdout.String())
	if filepath.Dir(trackPath) != outDir {
		t.Errorf("track path = %q", trackPath)
	}
}
