package inspection

import (
	"errors"
	"sync"
	"time"

	"spare-manager/feature/inspection/batch"
	"spare-manager/feature/inspection/models"
	"spare-manager/feature/inspection/reconcile"

	"github.com/google/uuid"
)

// ErrRunNotFound is returned for an unknown or expired run id.
var ErrRunNotFound = errors.New("run not found")

// Run is one processed batch and its reconciliation state.
type Run struct {
	ID        string
	CreatedAt time.Time
	Summary   models.Summary
	Failed    []batch.Failure
	State     reconcile.State
}

// View is the JSON representation of a run.
type View struct {
	ID         string             `json:"id"`
	CreatedAt  time.Time          `json:"createdAt"`
	Confirmed  bool               `json:"confirmed"`
	Summary    models.Summary     `json:"summary"`
	Failed     []batch.Failure    `json:"failed"`
	Unknown    []models.Candidate `json:"unknown"`
	Vulnerable []models.Entry     `json:"vulnerable"`
}

// View returns a snapshot of the run for serialization.
func (r *Run) View() View {
	v := View{
		ID:         r.ID,
		CreatedAt:  r.CreatedAt,
		Confirmed:  r.State.Confirmed,
		Summary:    r.Summary,
		Failed:     r.Failed,
		Unknown:    r.State.Candidates,
		Vulnerable: r.State.Vulnerable.Entries(),
	}
	if v.Failed == nil {
		v.Failed = []batch.Failure{}
	}
	if v.Unknown == nil {
		v.Unknown = []models.Candidate{}
	}
	if v.Vulnerable == nil {
		v.Vulnerable = []models.Entry{}
	}
	return v
}

type runEntry struct {
	mu      sync.Mutex
	run     Run
	created time.Time
}

// RunStore keeps runs in memory until they expire.
type RunStore struct {
	mu   sync.Mutex
	runs map[string]*runEntry
	ttl  time.Duration
	now  func() time.Time
}

// NewRunStore creates a store that drops runs older than ttl.
func NewRunStore(ttl time.Duration) *RunStore {
	return &RunStore{runs: make(map[string]*runEntry), ttl: ttl, now: time.Now}
}

// Create stores a new run and returns a copy with its id and creation time set.
func (s *RunStore) Create(run Run) Run {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.prune()
	run.ID = uuid.NewString()
	run.CreatedAt = s.now()
	s.runs[run.ID] = &runEntry{run: run, created: run.CreatedAt}
	return run
}

// Get returns a copy of the run.
func (s *RunStore) Get(id string) (Run, error) {
	e, err := s.entry(id)
	if err != nil {
		return Run{}, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.run, nil
}

// Update runs fn on the run under its own lock. Changes made by fn are kept
// only when it returns nil.
func (s *RunStore) Update(id string, fn func(*Run) error) (Run, error) {
	e, err := s.entry(id)
	if err != nil {
		return Run{}, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	next := e.run
	if err := fn(&next); err != nil {
		return e.run, err
	}
	e.run = next
	return next, nil
}

// Delete drops a run.
func (s *RunStore) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.runs[id]; !ok {
		return ErrRunNotFound
	}
	delete(s.runs, id)
	return nil
}

// Len returns the number of stored runs.
func (s *RunStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.runs)
}

func (s *RunStore) entry(id string) (*runEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.runs[id]
	if !ok || s.expired(e) {
		return nil, ErrRunNotFound
	}
	return e, nil
}

func (s *RunStore) expired(e *runEntry) bool {
	return s.ttl > 0 && s.now().Sub(e.created) > s.ttl
}

func (s *RunStore) prune() {
	for id, e := range s.runs {
		if s.expired(e) {
			delete(s.runs, id)
		}
	}
}
