package dub

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alnah/go-studyflow/internal/transcript"
)

const testSampleRate = 1000

// stubTranslator prefixes text so tests can see translation happened.
type stubTranslator struct {
	err   error
	calls atomic.Int32
}

func (s *stubTranslator) Translate(_ context.Context, text, _ string) (string, error) {
	s.calls.Add(1)
	if s.err != nil {
		return "", s.err
	}
	return "translated: " + text, nil
}

// stubSynthesizer returns pcmSeconds of silence per call and can fail
// selected segment texts.
type stubSynthesizer struct {
	mu         sync.Mutex
	pcmSeconds float64
	failWhen   func(text string) bool
	delay      time.Duration
	inFlight   int32
	maxSeen    int32
	calls      int
}

func (s *stubSynthesizer) Synthesize(_ context.Context, text string) ([]byte, error) {
	cur := atomic.AddInt32(&s.inFlight, 1)
	defer atomic.AddInt32(&s.inFlight, -1)
	for {
		prev := atomic.LoadInt32(&s.maxSeen)
		if cur <= prev || atomic.CompareAndSwapInt32(&s.maxSeen, prev, cur) {
			break
		}
	}
	if s.delay > 0 {
		time.Sleep(s.delay)
	}

	s.mu.Lock()
	s.calls++
	s.mu.Unlock()

	if s.failWhen != nil && s.failWhen(text) {
		return nil, errors.New("synthesis refused")
	}
	n := int(s.pcmSeconds * testSampleRate)
	if n == 0 {
		n = testSampleRate // default 1s
	}
	return make([]byte, n*2), nil
}

func (s *stubSynthesizer) SampleRate() int { return testSampleRate }

func seg(start, end, text string) transcript.Segment {
	return transcript.Segment{Start: start, End: end, Text: text}
}

func TestDub_Success(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	d := NewSegmentDubber(&stubTranslator{}, &stubSynthesizer{}, "ur", dir)

	res := d.Dub(context.Background(), 7, seg("00:05.000", "00:08.500", "a segment long enough to dub"))
	if !res.OK() {
		t.Fatalf("unexpected error: %v", res.Err)
	}
	if res.Start != 5 || res.End != 8.5 {
		t.Errorf("offsets = %v..%v, want 5..8.5", res.Start, res.End)
	}
	if res.Translated != "translated: a segment long enough to dub" {
		t.Errorf("translated = %q", res.Translated)
	}

	wantPath := filepath.Join(dir, "segment_007.wav")
	if res.AudioPath != wantPath {
		t.Errorf("path = %q, want %q", res.AudioPath, wantPath)
	}
	if _, err := os.Stat(wantPath); err != nil {
		t.Errorf("segment file missing: %v", err)
	}
}

func TestDub_SkipsShortText(t *testing.T) {
	t.Parallel()

	tr := &stubTranslator{}
	d := NewSegmentDubber(tr, &stubSynthesizer{}, "ur", t.TempDir())

	res := d.Dub(context.Background(), 0, seg("0", "1", "  hi  "))
	if !errors.Is(res.Err, ErrTextTooShort) {
		t.Errorf("error = %v, want ErrTextTooShort", res.Err)
	}
	if res.AudioPath != "" {
		t.Errorf("skipped segment produced audio: %q", res.AudioPath)
	}
	if tr.calls.Load() != 0 {
		t.Error("translator called for a skipped segment")
	}
}

func TestDub_TranslateFailure(t *testing.T) {
	t.Parallel()

	boom := errors.New("translation service down")
	d := NewSegmentDubber(&stubTranslator{err: boom}, &stubSynthesizer{}, "ur", t.TempDir())

	res := d.Dub(context.Background(), 0, seg("0", "1", "long enough text here"))
	if !errors.Is(res.Err, boom) {
		t.Errorf("error = %v, want translation failure", res.Err)
	}
	if res.AudioPath != "" {
		t.Error("failed segment produced audio")
	}
}

func TestDub_SynthesisFailure(t *testing.T) {
	t.Parallel()

	synth := &stubSynthesizer{failWhen: func(string) bool { return true }}
	d := NewSegmentDubber(&stubTranslator{}, synth, "ur", t.TempDir())

	res := d.Dub(context.Background(), 0, seg("0", "1", "long enough text here"))
	if res.OK() {
		t.Fatal("expected failure")
	}
	if res.AudioPath != "" {
		t.Error("failed segment produced audio")
	}
}

func TestDubAll_CollectsFailuresWithoutAborting(t *testing.T) {
	t.Parallel()

	synth := &stubSynthesizer{failWhen: func(text string) bool {
		return text == "translated: segment number two is the broken one"
	}}
	d := NewSegmentDubber(&stubTranslator{}, synth, "ur", t.TempDir())

	segs := []transcript.Segment{
		seg("0", "1", "segment number zero has plenty of text"),
		seg("1", "2", "segment number one has plenty of text"),
		seg("2", "3", "segment number two is the broken one"),
		seg("3", "4", "segment number three has plenty of text"),
	}

	results := d.DubAll(context.Background(), segs)
	if len(results) != len(segs) {
		t.Fatalf("%d results, want %d", len(results), len(segs))
	}
	for i, r := range results {
		if r.Index != i {
			t.Errorf("result %d has index %d", i, r.Index)
		}
	}
	if results[2].OK() {
		t.Error("broken segment reported success")
	}
	for _, i := range []int{0, 1, 3} {
		if !results[i].OK() {
			t.Errorf("segment %d failed: %v", i, results[i].Err)
		}
	}
}

func TestDubAll_BoundedConcurrency(t *testing.T) {
	t.Parallel()

	synth := &stubSynthesizer{delay: 20 * time.Millisecond}
	d := NewSegmentDubber(&stubTranslator{}, synth, "ur", t.TempDir())

	segs := make([]transcript.Segment, 8)
	for i := range segs {
		segs[i] = seg(fmt.Sprintf("%d", i), fmt.Sprintf("%d", i+1),
			fmt.Sprintf("segment %d with enough text to dub", i))
	}

	d.DubAll(context.Background(), segs)
	if max := atomic.LoadInt32(&synth.maxSeen); max > maxConcurrentSegments {
		t.Errorf("observed %d concurrent syntheses, limit is %d", max, maxConcurrentSegments)
	}
}
