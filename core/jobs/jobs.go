// Package jobs tracks background commands started with a trailing `&`.
package jobs

import (
	"sort"
	"sync"
)

// Job is one background command. ExitCode may only be read after Done
// reports true; the done channel orders the write against readers.
type Job struct {
	ID       int
	Command  string
	ExitCode int

	done chan struct{}
}

// Done reports whether the job has finished.
func (j *Job) Done() bool {
	select {
	case <-j.done:
		return true
	default:
		return false
	}
}

// Status returns "Done" or "Running" for display.
func (j *Job) Status() string {
	if j.Done() {
		return "Done"
	}
	return "Running"
}

// Wait blocks until the job finishes and returns its exit code.
func (j *Job) Wait() int {
	<-j.done
	return j.ExitCode
}

// Manager starts and tracks background jobs for one shell session. IDs are
// assigned sequentially starting at 1 and are never reused within a session.
type Manager struct {
	mu   sync.Mutex
	next int
	jobs map[int]*Job
}

// NewManager returns an empty manager.
func NewManager() *Manager {
	return &Manager{next: 1, jobs: make(map[int]*Job)}
}

// Start launches fn on its own goroutine and returns the tracking record
// immediately.
func (m *Manager) Start(command string, fn func() int) *Job {
	m.mu.Lock()
	job := &Job{
		ID:      m.next,
		Command: command,
		done:    make(chan struct{}),
	}
	m.next++
	m.jobs[job.ID] = job
	m.mu.Unlock()

	go func() {
		job.ExitCode = fn()
		close(job.done)
	}()

	return job
}

// Get returns the job with the given ID.
func (m *Manager) Get(id int) (*Job, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	job, ok := m.jobs[id]
	return job, ok
}

// Jobs returns every tracked job ordered by ID.
func (m *Manager) Jobs() []*Job {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]*Job, 0, len(m.jobs))
	for _, job := range m.jobs {
		out = append(out, job)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Wait blocks until the job with the given ID finishes.
func (m *Manager) Wait(id int) (int, bool) {
	job, ok := m.Get(id)
	if !ok {
		return 0, false
	}
	return job.Wait(), true
}

// WaitAll blocks until every tracked job finishes.
func (m *Manager) WaitAll() {
	for _, job := range m.Jobs() {
		job.Wait()
	}
}

// Running returns the number of jobs still in flight.
func (m *Manager) Running() int {
	n := 0
	for _, job := range m.Jobs() {
		if !job.Done() {
			n++
		}
	}
	return n
}
