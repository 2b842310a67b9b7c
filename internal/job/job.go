// Package job tracks long-running dubbing jobs. A Registry holds job
// state for status polling while a Runner moves queued jobs through
// worker goroutines. Submission and execution are decoupled: enqueueing
// returns immediately and the caller polls for progress.
package job

import "time"

// Status is the lifecycle state of a job.
type Status string

// Job lifecycle. Processing states advance in order; Completed and
// Failed are terminal and written exactly once.
const (
	StatusProcessing    Status = "processing"
	StatusExtracting    Status = "extracting_transcript"
	StatusCreatingAudio Status = "creating_audio"
	StatusCompleted     Status = "completed"
	StatusFailed        Status = "error"
)

// Terminal reports whether the status is an end state.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// Progress checkpoints reported at each phase transition.
const (
	ProgressQueued     = 0
	ProgressExtracting = 10
	ProgressAudio      = 50
	ProgressDone       = 100
)

// Job is the tracked state of one dubbing request.
type Job struct {
	ID         string
	Status     Status
	Progress   int
	VideoRef   string
	UserID     string
	TargetLang string
	Err        string // Failure description, set only in StatusFailed.
	AudioPath  string // Final audio file, set only in StatusCompleted.
	Drift      time.Duration
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
