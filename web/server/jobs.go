package server

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/df07/go-pathtracer/pkg/renderer"
)

// JobStatus is the lifecycle state of a render job
type JobStatus string

const (
	StatusRunning   JobStatus = "running"
	StatusDone      JobStatus = "done"
	StatusFailed    JobStatus = "failed"
	StatusCancelled JobStatus = "cancelled"
)

// ProgressEvent is pushed to websocket subscribers while a job runs
type ProgressEvent struct {
	Type      string    `json:"type"` // "progress", "complete" or "error"
	JobID     string    `json:"jobId"`
	Status    JobStatus `json:"status"`
	RowsDone  int       `json:"rowsDone"`
	RowsTotal int       `json:"rowsTotal"`
	Percent   float64   `json:"percent"`
	Error     string    `json:"error,omitempty"`
}

// JobView is the JSON representation of a job
type JobView struct {
	ID        string    `json:"id"`
	Scene     string    `json:"scene"`
	Status    JobStatus `json:"status"`
	Width     int       `json:"width"`
	Height    int       `json:"height"`
	RowsDone  int       `json:"rowsDone"`
	RowsTotal int       `json:"rowsTotal"`
	Error     string    `json:"error,omitempty"`
	Created   time.Time `json:"created"`
	ElapsedMs int64     `json:"elapsedMs"`
	Stats     *Stats    `json:"stats,omitempty"`
}

// Stats represents render statistics of a finished job
type Stats struct {
	Pixels          int     `json:"pixels"`
	RealizedSamples int     `json:"realizedSamples"`
	PrimaryRays     int64   `json:"primaryRays"`
	RaysPerSecond   float64 `json:"raysPerSecond"`
	Workers         int     `json:"workers"`
}

// Job is one asynchronous render
type Job struct {
	ID      string
	Scene   string
	Created time.Time

	cancel context.CancelFunc

	mu          sync.Mutex
	status      JobStatus
	width       int
	height      int
	rowsDone    int
	err         error
	image       *renderer.Image
	stats       renderer.RenderStats
	finished    time.Time
	subscribers map[chan ProgressEvent]struct{}
}

func newJob(sceneID string, width, height int, cancel context.CancelFunc) *Job {
	return &Job{
		ID:          uuid.New().String(),
		Scene:       sceneID,
		Created:     time.Now(),
		cancel:      cancel,
		status:      StatusRunning,
		width:       width,
		height:      height,
		subscribers: make(map[chan ProgressEvent]struct{}),
	}
}

// Cancel stops a running job
func (j *Job) Cancel() {
	j.cancel()
}

// Finished reports whether the job reached a terminal state
func (j *Job) Finished() bool {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.status != StatusRunning
}

// Image returns the rendered image once the job is done
func (j *Job) Image() (*renderer.Image, bool) {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.image, j.status == StatusDone
}

// View returns a consistent snapshot of the job
func (j *Job) View() JobView {
	j.mu.Lock()
	defer j.mu.Unlock()

	end := time.Now()
	if !j.finished.IsZero() {
		end = j.finished
	}
	view := JobView{
		ID:        j.ID,
		Scene:     j.Scene,
		Status:    j.status,
		Width:     j.width,
		Height:    j.height,
		RowsDone:  j.rowsDone,
		RowsTotal: j.height,
		Created:   j.Created,
		ElapsedMs: end.Sub(j.Created).Milliseconds(),
	}
	if j.err != nil {
		view.Error = j.err.Error()
	}
	if j.status == StatusDone {
		view.Stats = &Stats{
			Pixels:          j.stats.Pixels(),
			RealizedSamples: j.stats.RealizedSamples,
			PrimaryRays:     j.stats.PrimaryRays,
			RaysPerSecond:   j.stats.RaysPerSecond(),
			Workers:         j.stats.Workers,
		}
	}
	return view
}

// Event builds the progress event describing the current state
func (j *Job) Event() ProgressEvent {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.eventLocked()
}

func (j *Job) eventLocked() ProgressEvent {
	event := ProgressEvent{
		Type:      "progress",
		JobID:     j.ID,
		Status:    j.status,
		RowsDone:  j.rowsDone,
		RowsTotal: j.height,
	}
	if j.height > 0 {
		event.Percent = 100 * float64(j.rowsDone) / float64(j.height)
	}
	switch j.status {
	case StatusDone:
		event.Type = "complete"
	case StatusFailed, StatusCancelled:
		event.Type = "error"
		if j.err != nil {
			event.Error = j.err.Error()
		}
	}
	return event
}

// Subscribe registers for progress events. The channel is closed when the job
// finishes; it is returned already closed for a finished job.
func (j *Job) Subscribe() (<-chan ProgressEvent, func()) {
	ch := make(chan ProgressEvent, 16)

	j.mu.Lock()
	defer j.mu.Unlock()
	if j.status != StatusRunning {
		close(ch)
		return ch, func() {}
	}
	j.subscribers[ch] = struct{}{}

	return ch, func() {
		j.mu.Lock()
		defer j.mu.Unlock()
		if _, ok := j.subscribers[ch]; ok {
			delete(j.subscribers, ch)
			close(ch)
		}
	}
}

func (j *Job) progress(done int) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if done <= j.rowsDone {
		return
	}
	j.rowsDone = done
	event := j.eventLocked()
	for ch := range j.subscribers {
		select {
		case ch <- event:
		default:
			// Slow reader; it will catch up on the next event
		}
	}
}

func (j *Job) finish(img *renderer.Image, stats renderer.RenderStats, err error) {
	j.mu.Lock()
	defer j.mu.Unlock()

	j.finished = time.Now()
	j.stats = stats
	switch {
	case err == nil:
		j.status = StatusDone
		j.image = img
		j.rowsDone = j.height
	case errors.Is(err, context.Canceled):
		j.status = StatusCancelled
		j.err = err
	default:
		j.status = StatusFailed
		j.err = err
	}

	for ch := range j.subscribers {
		close(ch)
	}
	clear(j.subscribers)
}

// JobStore holds render jobs by id
type JobStore struct {
	mu   sync.RWMutex
	jobs map[string]*Job
}

// NewJobStore creates an empty store
func NewJobStore() *JobStore {
	return &JobStore{jobs: make(map[string]*Job)}
}

// Add registers job under its id
func (s *JobStore) Add(job *Job) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[job.ID] = job
}

// Get looks up a job by id
func (s *JobStore) Get(id string) (*Job, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	job, ok := s.jobs[id]
	return job, ok
}

// CancelAll stops every running job
func (s *JobStore) CancelAll() {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, job := range s.jobs {
		job.Cancel()
	}
}
