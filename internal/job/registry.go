package job

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Registry sentinel errors.
var (
	// ErrNotFound means the job id is unknown.
	ErrNotFound = errors.New("job not found")

	// ErrJobFinished means the job already reached a terminal state.
	ErrJobFinished = errors.New("job already finished")
)

// Registry is an in-memory job store. Reads return copies; all writes
// go through Update so a terminal state is never overwritten.
type Registry struct {
	mu   sync.RWMutex
	jobs map[string]Job
	now  func() time.Time
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		jobs: make(map[string]Job),
		now:  time.Now,
	}
}

// Create registers a new job in StatusProcessing and returns it.
func (r *Registry) Create(videoRef, userID, targetLang string) Job {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	j := Job{
		ID:         uuid.NewString(),
		Status:     StatusProcessing,
		Progress:   ProgressQueued,
		VideoRef:   videoRef,
		UserID:     userID,
		TargetLang: targetLang,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	r.jobs[j.ID] = j
	return j
}

// Get returns a copy of the job. Unknown ids return ErrNotFound.
func (r *Registry) Get(id string) (Job, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	j, ok := r.jobs[id]
	if !ok {
		return Job{}, fmt.Errorf("job %q: %w", id, ErrNotFound)
	}
	return j, nil
}

// Update applies fn to the job under the write lock. Jobs in a terminal
// state reject further updates with ErrJobFinished.
func (r *Registry) Update(id string, fn func(*Job)) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	j, ok := r.jobs[id]
	if !ok {
		return fmt.Errorf("job %q: %w", id, ErrNotFound)
	}
	if j.Status.Terminal() {
		return fmt.Errorf("job %q: %w", id, ErrJobFinished)
	}

	fn(&j)
	j.UpdatedAt = r.now()
	r.jobs[id] = j
	return nil
}

// SetPhase moves the job to a processing phase with its progress
// checkpoint.
func (r *Registry) SetPhase(id string, status Status, progress int) error {
	return r.Update(id, func(j *Job) {
		j.Status = status
		j.Progress = progress
	})
}

// Complete marks the job finished with its audio artifact and the
// accumulated timeline drift.
func (r *Registry) Complete(id, audioPath string, drift time.Duration) error {
	return r.Update(id, func(j *Job) {
		j.Status = StatusCompleted
		j.Progress = ProgressDone
		j.AudioPath = audioPath
		j.Drift = drift
	})
}

// Fail marks the job failed with a user-facing description.
func (r *Registry) Fail(id string, cause error) error {
	return r.Update(id, func(j *Job) {
		j.Status = StatusFailed
		j.Err = cause.Error()
	})
}
