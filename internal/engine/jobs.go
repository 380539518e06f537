package engine

import (
	"sync"
	"time"
)

// JobStatus tracks an async analysis through its lifecycle. Jobs never fail
// after being accepted: every parameter is validated at submission time.
type JobStatus string

const (
	JobQueued  JobStatus = "queued"
	JobRunning JobStatus = "running"
	JobDone    JobStatus = "done"
)

// Job is the externally visible record of an async analysis.
type Job struct {
	ID          string    `json:"id"`
	Status      JobStatus `json:"status"`
	SubmittedAt time.Time `json:"submitted_at"`
	Result      *Result   `json:"result,omitempty"`
}

// jobStore keeps the most recent jobs, evicting the oldest once full.
type jobStore struct {
	mu    sync.Mutex
	byID  map[string]*Job
	order []string // insertion order, oldest first
	cap   int
}

func newJobStore(cap int) *jobStore {
	if cap < 1 {
		cap = 1
	}
	return &jobStore{byID: make(map[string]*Job, cap), cap: cap}
}

func (s *jobStore) add(j *Job) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.order) >= s.cap {
		oldest := s.order[0]
		s.order = s.order[1:]
		delete(s.byID, oldest)
	}
	s.byID[j.ID] = j
	s.order = append(s.order, j.ID)
}

func (s *jobStore) drop(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byID[id]; !ok {
		return
	}
	delete(s.byID, id)
	for i, other := range s.order {
		if other == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

// get returns a copy so callers never race with status updates. The Result
// pointer is safe to share: it is written once before the status flips to
// done and read-only after.
func (s *jobStore) get(id string) (Job, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	j, ok := s.byID[id]
	if !ok {
		return Job{}, false
	}
	return *j, true
}

func (s *jobStore) start(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if j, ok := s.byID[id]; ok {
		j.Status = JobRunning
	}
}

func (s *jobStore) complete(id string, res *Result) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if j, ok := s.byID[id]; ok {
		j.Status = JobDone
		j.Result = res
	}
}
