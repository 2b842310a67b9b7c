// Package dub renders a timestamped transcript as a dubbed audio track:
// each segment is translated and synthesized independently, then the
// assembler splices the rendered segments back onto the source timeline.
// Per-segment failures are recorded and reported, never fatal; only a
// run where every segment failed aborts.
package dub

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/alnah/go-studyflow/internal/speech"
	"github.com/alnah/go-studyflow/internal/textgen"
	"github.com/alnah/go-studyflow/internal/transcript"
)

var (
	// ErrTextTooShort marks segments skipped for having no dubbable
	// content.
	ErrTextTooShort = errors.New("text too short")

	// ErrAllSegmentsFailed means not a single segment produced audio.
	ErrAllSegmentsFailed = errors.New("no segments were processed successfully")
)

const (
	// minSegmentChars is the minimum trimmed text length worth dubbing.
	// Shorter segments are interjections and caption artifacts.
	minSegmentChars = 10

	// maxConcurrentSegments bounds in-flight translate+synthesize work.
	// Both upstream services rate-limit aggressively.
	maxConcurrentSegments = 2
)

// Result is the outcome of dubbing one segment. Err is set for skipped
// and failed segments; such Results carry no audio.
type Result struct {
	Index      int
	Start      float64 // Source start offset in seconds.
	End        float64 // Source end offset in seconds.
	AudioPath  string  // Rendered WAV, empty on failure.
	Translated string
	Err        error
}

// OK reports whether the segment produced audio.
func (r Result) OK() bool { return r.Err == nil }

// SegmentDubber translates and synthesizes individual segments.
type SegmentDubber struct {
	translator textgen.Translator
	synth      speech.Synthesizer
	targetLang string
	segmentDir string
}

// NewSegmentDubber creates a dubber writing per-segment WAV files into
// segmentDir.
func NewSegmentDubber(tr textgen.Translator, synth speech.Synthesizer, targetLang, segmentDir string) *SegmentDubber {
	return &SegmentDubber{
		translator: tr,
		synth:      synth,
		targetLang: targetLang,
		segmentDir: segmentDir,
	}
}

// Dub processes one segment: translate, synthesize, persist. Any
// failure is captured on the Result; Dub never panics past this
// boundary.
func (d *SegmentDubber) Dub(ctx context.Context, idx int, seg transcript.Segment) (res Result) {
	res = Result{
		Index: idx,
		Start: transcript.ParseTimestamp(seg.Start),
		End:   transcript.ParseTimestamp(seg.End),
	}
	defer func() {
		if r := recover(); r != nil {
			res.Err = fmt.Errorf("segment %d panicked: %v", idx, r)
			res.AudioPath = ""
		}
	}()

	if len(strings.TrimSpace(seg.Text)) < minSegmentChars {
		res.Err = fmt.Errorf("segment %d: %w", idx, ErrTextTooShort)
		return res
	}

	translated, err := d.translator.Translate(ctx, seg.Text, d.targetLang)
	if err != nil {
		res.Err = fmt.Errorf("segment %d: %w", idx, err)
		return res
	}
	res.Translated = translated

	pcm, err := d.synth.Synthesize(ctx, translated)
	if err != nil {
		res.Err = fmt.Errorf("segment %d: %w", idx, err)
		return res
	}

	path := filepath.Join(d.segmentDir, fmt.Sprintf("segment_%03d.wav", idx))
	wav := speech.EncodeWAV(pcm, d.synth.SampleRate())
	if err := speech.SaveAudio(path, wav); err != nil {
		res.Err = fmt.Errorf("segment %d: %w", idx, err)
		return res
	}

	res.AudioPath = path
	return res
}

// DubAll dubs every segment with bounded concurrency and returns one
// Result per segment, failures included, in segment order.
func (d *SegmentDubber) DubAll(ctx context.Context, segs []transcript.Segment) []Result {
	results := make([]Result, len(segs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentSegments)

	for i, seg := range segs {
		g.Go(func() error {
			results[i] = d.Dub(ctx, i, seg)
			return nil // Failures live on the Result, not the group.
		})
	}
	_ = g.Wait()

	return results
}
