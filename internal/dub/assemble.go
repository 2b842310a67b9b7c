package dub

import (
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/alnah/go-studyflow/internal/speech"
)

// Track describes the assembled output audio.
type Track struct {
	Path     string
	Duration time.Duration
	// Drift is how far the rendered track runs past the end of the
	// source timeline. Rendered speech longer than its source slot
	// pushes everything after it later; that push accumulates here
	// instead of being hidden by overlapping or truncating segments.
	Drift    time.Duration
	Segments int // Segments that made it into the track.
}

// Assembler splices rendered segments onto the source timeline.
type Assembler struct {
	sampleRate int
}

// NewAssembler creates an Assembler for segment audio at the given
// sample rate.
func NewAssembler(sampleRate int) *Assembler {
	return &Assembler{sampleRate: sampleRate}
}

// Assemble builds the final track from dub results and writes it to
// outPath as mono PCM16 WAV.
//
// Successful segments are sorted by source start time and placed at
// their source offsets, with silence filling the gaps. A segment that
// would overlap the previous one (because earlier speech ran long) is
// appended immediately after it instead; nothing is ever truncated.
// Intermediate segment files are removed once the track is written,
// and best-effort on failure.
func (a *Assembler) Assemble(results []Result, outPath string) (Track, error) {
	var successes []Result
	for _, r := range results {
		if r.OK() {
			successes = append(successes, r)
		}
	}
	if len(successes) == 0 {
		cleanupSegments(results)
		return Track{}, ErrAllSegmentsFailed
	}

	sort.SliceStable(successes, func(i, j int) bool {
		return successes[i].Start < successes[j].Start
	})

	var track []byte
	position := 0.0  // Seconds of audio emitted so far.
	sourceEnd := 0.0 // Where the source timeline ends.
	spliced := 0

	for _, seg := range successes {
		data, err := os.ReadFile(seg.AudioPath)
		if err != nil {
			continue // Lost intermediate; the rest still assembles.
		}
		pcm, _, err := speech.DecodeWAV(data)
		if err != nil {
			continue
		}

		if gap := seg.Start - position; gap > 0 {
			track = append(track, speech.Silence(secondsToDuration(gap), a.sampleRate)...)
			position += gap
		}

		track = append(track, pcm...)
		position += speech.PCMDuration(pcm, a.sampleRate).Seconds()
		if seg.End > sourceEnd {
			sourceEnd = seg.End
		}
		spliced++
	}

	if spliced == 0 {
		cleanupSegments(results)
		return Track{}, fmt.Errorf("all segment files unreadable: %w", ErrAllSegmentsFailed)
	}

	if err := speech.SaveAudio(outPath, speech.EncodeWAV(track, a.sampleRate)); err != nil {
		cleanupSegments(results)
		return Track{}, fmt.Errorf("writing final track: %w", err)
	}
	cleanupSegments(results)

	drift := position - sourceEnd
	if drift < 0 {
		drift = 0
	}
	return Track{
		Path:     outPath,
		Duration: secondsToDuration(position),
		Drift:    secondsToDuration(drift),
		Segments: spliced,
	}, nil
}

// cleanupSegments removes intermediate segment files. Best effort; a
// leftover temp file is not worth failing the job over.
func cleanupSegments(results []Result) {
	for _, r := range results {
		if r.AudioPath != "" {
			_ = os.Remove(r.AudioPath)
		}
	}
}

func secondsToDuration(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}
