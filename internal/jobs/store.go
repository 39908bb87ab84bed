// Package jobs manages background analysis jobs: an in-memory registry of
// job status cells plus the runner that executes the pipeline detached from
// the request that started it.
package jobs

import (
	"sync"
	"time"
)

// maxJobAge bounds how long an abandoned job record survives. Entries older
// than this are swept on the next Create, polled or not.
const maxJobAge = time.Hour

// State is the lifecycle position of a job.
type State string

const (
	StatePending    State = "pending"
	StateProcessing State = "processing"
	StateComplete   State = "complete"
	StateError      State = "error"
)

// Status is a job's state plus its terminal payload: Result for Complete,
// Message for Error. Values are copied in and out of the store whole, so
// readers never observe a partially-written status.
type Status struct {
	State   State
	Result  string
	Message string
}

// Terminal reports whether no further transition can leave this status.
func (s Status) Terminal() bool {
	return s.State == StateComplete || s.State == StateError
}

// Completed builds the successful terminal status.
func Completed(result string) Status {
	return Status{State: StateComplete, Result: result}
}

// Failed builds the failed terminal status.
func Failed(message string) Status {
	return Status{State: StateError, Message: message}
}

type entry struct {
	status    Status
	createdAt time.Time
}

// Store is the in-memory job registry, shared between request handlers and
// background runners. All access is serialized through one mutex; operations
// on distinct ids have no ordering guarantee relative to each other.
type Store struct {
	mu   sync.Mutex
	jobs map[string]entry
	now  func() time.Time
}

// NewStore creates an empty job registry.
func NewStore() *Store {
	return &Store{
		jobs: make(map[string]entry),
		now:  time.Now,
	}
}

// Create inserts a new Pending entry. Before inserting it sweeps every entry
// older than maxJobAge, regardless of state, so abandoned polls cannot grow
// the map without bound.
func (s *Store) Create(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := s.now().Add(-maxJobAge)
	for jobID, e := range s.jobs {
		if e.createdAt.Before(cutoff) {
			delete(s.jobs, jobID)
		}
	}

	s.jobs[id] = entry{status: Status{State: StatePending}, createdAt: s.now()}
}

// Update overwrites the status of an existing entry. A job can disappear
// between runner steps (eviction, or a poll consuming a terminal state), so
// an update for an absent id is silently dropped, never an error.
func (s *Store) Update(id string, status Status) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.jobs[id]
	if !ok {
		return
	}
	e.status = status
	s.jobs[id] = e
}

// Get returns the current status without consuming the entry.
func (s *Store) Get(id string) (Status, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.jobs[id]
	if !ok {
		return Status{}, false
	}
	return e.status, true
}

// Delete removes an entry unconditionally.
func (s *Store) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.jobs, id)
}

// Len reports the number of live entries.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.jobs)
}
