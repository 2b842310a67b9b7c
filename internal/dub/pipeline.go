package dub

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/alnah/go-studyflow/internal/job"
	"github.com/alnah/go-studyflow/internal/speech"
	"github.com/alnah/go-studyflow/internal/textgen"
	"github.com/alnah/go-studyflow/internal/transcript"
)

// maxDubSegments caps how many transcript segments one job dubs. Every
// segment costs a translation call and a synthesis call.
const maxDubSegments = 20

// Reporter receives job lifecycle updates from the pipeline.
// *job.Registry implements this interface.
type Reporter interface {
	SetPhase(id string, status job.Status, progress int) error
	Complete(id, audioPath string, drift time.Duration) error
	Fail(id string, cause error) error
}

// Compile-time interface compliance check.
var _ Reporter = (*job.Registry)(nil)

// Pipeline runs a dubbing job end to end: fetch transcript, dub
// segments, assemble the track, and report phases along the way.
type Pipeline struct {
	source     transcript.Source
	translator textgen.Translator
	synth      speech.Synthesizer
	reporter   Reporter
	outDir     string
}

// NewPipeline wires a dubbing pipeline. outDir receives both the
// per-job segment directories and the final tracks.
func NewPipeline(src transcript.Source, tr textgen.Translator, synth speech.Synthesizer, rep Reporter, outDir string) *Pipeline {
	return &Pipeline{
		source:     src,
		translator: tr,
		synth:      synth,
		reporter:   rep,
		outDir:     outDir,
	}
}

// Run executes one job. All failures are reported through the Reporter;
// Run itself returns nothing because it executes detached from the
// submitter. Partial segment failures do not fail the job.
func (p *Pipeline) Run(ctx context.Context, j job.Job) {
	_ = p.reporter.SetPhase(j.ID, job.StatusExtracting, job.ProgressExtracting)

	segs, err := p.source.Fetch(ctx, j.VideoRef)
	if err != nil {
		_ = p.reporter.Fail(j.ID, fmt.Errorf("fetching transcript: %w", err))
		return
	}
	if len(segs) > maxDubSegments {
		segs = segs[:maxDubSegments]
	}

	_ = p.reporter.SetPhase(j.ID, job.StatusCreatingAudio, job.ProgressAudio)

	segmentDir := filepath.Join(p.outDir, "audio_segments", j.ID)
	dubber := NewSegmentDubber(p.translator, p.synth, j.TargetLang, segmentDir)
	results := dubber.DubAll(ctx, segs)

	outPath := filepath.Join(p.outDir, fmt.Sprintf("final_dubbed_audio_%s.wav", j.ID))
	track, err := NewAssembler(p.synth.SampleRate()).Assemble(results, outPath)
	if err != nil {
		_ = p.reporter.Fail(j.ID, err)
		return
	}

	_ = p.reporter.Complete(j.ID, track.Path, track.Drift)
}
