package scan

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Niwa-Yume/jimmy-ai-nba/internal/models"
)

// JobStatus is the lifecycle state of a background scan
type JobStatus string

const (
	JobRunning   JobStatus = "running"
	JobCompleted JobStatus = "completed"
	JobAborted   JobStatus = "aborted"
	JobFailed    JobStatus = "failed"
)

// Job is one background scan run. Poll it with Snapshot; stop it with
// Abort. Progress is monotonic even with concurrent scan workers.
type Job struct {
	ID     uuid.UUID
	cancel context.CancelFunc

	mu         sync.RWMutex
	status     JobStatus
	progress   float64
	candidates []models.BetCandidate
	err        error
	startedAt  time.Time
	finishedAt time.Time
}

// JobSnapshot is a point-in-time view of a job for polling
type JobSnapshot struct {
	ID         uuid.UUID             `json:"id"`
	Status     JobStatus             `json:"status"`
	Progress   float64               `json:"progress"` // 0-100
	Candidates []models.BetCandidate `json:"candidates,omitempty"`
	Error      string                `json:"error,omitempty"`
	StartedAt  time.Time             `json:"started_at"`
	FinishedAt time.Time             `json:"finished_at,omitempty"`
}

// StartJob launches a scan in the background and returns immediately
func (s *Scanner) StartJob(ctx context.Context, date time.Time) *Job {
	jobCtx, cancel := context.WithCancel(ctx)
	job := &Job{
		ID:        uuid.New(),
		cancel:    cancel,
		status:    JobRunning,
		startedAt: time.Now(),
	}

	go func() {
		candidates, err := s.Scan(jobCtx, date, job.setProgress)

		job.mu.Lock()
		defer job.mu.Unlock()
		job.candidates = candidates
		job.finishedAt = time.Now()
		switch {
		case err == nil:
			job.status = JobCompleted
			job.progress = 100
		case errors.Is(err, ErrScanAborted):
			job.status = JobAborted
			job.err = err
		default:
			job.status = JobFailed
			job.err = err
		}
	}()

	return job
}

// Abort stops the scan between players. Candidates found before the
// abort remain available in the snapshot.
func (j *Job) Abort() {
	j.cancel()
}

// setProgress records progress, never letting it move backwards
func (j *Job) setProgress(percent float64) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if percent > j.progress {
		j.progress = percent
	}
}

// Snapshot returns the job's current state
func (j *Job) Snapshot() JobSnapshot {
	j.mu.RLock()
	defer j.mu.RUnlock()

	snap := JobSnapshot{
		ID:         j.ID,
		Status:     j.status,
		Progress:   j.progress,
		StartedAt:  j.startedAt,
		FinishedAt: j.finishedAt,
	}
	if j.status != JobRunning {
		snap.Candidates = append([]models.BetCandidate(nil), j.candidates...)
	}
	if j.err != nil {
		snap.Error = j.err.Error()
	}
	return snap
}

// Done reports whether the job reached a terminal state
func (j *Job) Done() bool {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return j.status != JobRunning
}
