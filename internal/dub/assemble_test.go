package dub

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alnah/go-studyflow/internal/speech"
)

// writeSegment creates a rendered segment file of the given length and
// returns its Result placed at [start, end] on the source timeline.
func writeSegment(t *testing.T, dir string, idx int, start, end, renderedSeconds float64) Result {
	t.Helper()

	pcm := make([]byte, int(renderedSeconds*testSampleRate)*2)
	path := filepath.Join(dir, fmt.Sprintf("segment_%03d.wav", idx))
	if err := os.WriteFile(path, speech.EncodeWAV(pcm, testSampleRate), 0o644); err != nil {
		t.Fatal(err)
	}
	return Result{Index: idx, Start: start, End: end, AudioPath: path}
}

func assembleTrack(t *testing.T, results []Result) (Track, []byte) {
	t.Helper()

	outPath := filepath.Join(t.TempDir(), "final.wav")
	track, err := NewAssembler(testSampleRate).Assemble(results, outPath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	data, err := os.ReadFile(track.Path)
	if err != nil {
		t.Fatalf("read track: %v", err)
	}
	pcm, rate, err := speech.DecodeWAV(data)
	if err != nil {
		t.Fatalf("decode track: %v", err)
	}
	if rate != testSampleRate {
		t.Fatalf("track sample rate = %d", rate)
	}
	return track, pcm
}

func TestAssemble_PlacesSegmentsAtSourceOffsets(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	// Out of order on purpose: starts 5, 0, 10, each rendered 2s.
	results := []Result{
		writeSegment(t, dir, 0, 5, 7, 2),
		writeSegment(t, dir, 1, 0, 2, 2),
		writeSegment(t, dir, 2, 10, 12, 2),
	}

	track, pcm := assembleTrack(t, results)

	if track.Duration != 12*time.Second {
		t.Errorf("duration = %v, want 12s", track.Duration)
	}
	if track.Drift != 0 {
		t.Errorf("drift = %v, want 0", track.Drift)
	}
	if track.Segments != 3 {
		t.Errorf("segments = %d, want 3", track.Segments)
	}

	// Timeline: audio 0-2s, silence 2-5s, audio 5-7s, silence 7-10s,
	// audio 10-12s.
	if len(pcm) != 12*testSampleRate*2 {
		t.Errorf("pcm length = %d, want %d", len(pcm), 12*testSampleRate*2)
	}
}

func TestAssemble_PushesOverlappingSegmentsLater(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	// First segment renders 2s but its source slot is only 1s; the
	// second segment starts at source t=1 and must be pushed to t=2.
	results := []Result{
		writeSegment(t, dir, 0, 0, 1, 2),
		writeSegment(t, dir, 1, 1, 3, 2),
	}

	track, pcm := assembleTrack(t, results)

	if len(pcm) != 4*testSampleRate*2 {
		t.Errorf("pcm length = %d, want 4s of audio with no gap", len(pcm))
	}
	if track.Drift != time.Second {
		t.Errorf("drift = %v, want 1s", track.Drift)
	}
}

func TestAssemble_AllFailed(t *testing.T) {
	t.Parallel()

	results := []Result{
		{Index: 0, Err: errors.New("failed")},
		{Index: 1, Err: ErrTextTooShort},
	}

	_, err := NewAssembler(testSampleRate).Assemble(results, filepath.Join(t.TempDir(), "out.wav"))
	if !errors.Is(err, ErrAllSegmentsFailed) {
		t.Errorf("error = %v, want ErrAllSegmentsFailed", err)
	}
}

func TestAssemble_CleansUpSegmentFiles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	results := []Result{
		writeSegment(t, dir, 0, 0, 2, 2),
		writeSegment(t, dir, 1, 2, 4, 2),
	}

	_, _ = assembleTrack(t, results)

	for _, r := range results {
		if _, err := os.Stat(r.AudioPath); !errors.Is(err, os.ErrNotExist) {
			t.Errorf("segment file %s not cleaned up", r.AudioPath)
		}
	}
}

func TestAssemble_SkipsUnreadableSegment(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	results := []Result{
		writeSegment(t, dir, 0, 0, 2, 2),
		{Index: 1, Start: 2, End: 4, AudioPath: filepath.Join(dir, "gone.wav")},
	}

	track, _ := assembleTrack(t, results)
	if track.Segments != 1 {
		t.Errorf("segments = %d, want 1 after skipping unreadable file", track.Segments)
	}
}
