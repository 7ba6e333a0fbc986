package pipeline

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// StoredRun is a finished pipeline run kept for later lookup.
type StoredRun struct {
	ID        string
	CreatedAt time.Time
	ExpiresAt time.Time
	Result    *Result
}

// RunStore keeps recent run results in memory, keyed by run id.
// Entries expire after ttl and at most limit runs are kept.
type RunStore struct {
	mu    sync.RWMutex
	runs  map[string]*StoredRun
	order []string
	ttl   time.Duration
	limit int
	now   func() time.Time
}

func NewRunStore(ttl time.Duration, limit int) *RunStore {
	if ttl <= 0 {
		ttl = time.Hour
	}
	if limit <= 0 {
		limit = 16
	}
	return &RunStore{
		runs:  make(map[string]*StoredRun),
		ttl:   ttl,
		limit: limit,
		now:   time.Now,
	}
}

// Put stores res under a fresh id and returns the stored run.
func (s *RunStore) Put(res *Result) *StoredRun {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.pruneLocked(now)

	r := &StoredRun{
		ID:        uuid.NewString(),
		CreatedAt: now.UTC(),
		ExpiresAt: now.Add(s.ttl).UTC(),
		Result:    res,
	}
	s.runs[r.ID] = r
	s.order = append(s.order, r.ID)
	for len(s.order) > s.limit {
		delete(s.runs, s.order[0])
		s.order = s.order[1:]
	}
	return r
}

// Get returns a run if it is known and not expired.
func (s *RunStore) Get(id string) (*StoredRun, bool) {
	if s == nil {
		return nil, false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.runs[id]
	if !ok || s.now().After(r.ExpiresAt) {
		return nil, false
	}
	return r, true
}

func (s *RunStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.runs)
}

func (s *RunStore) pruneLocked(now time.Time) {
	kept := s.order[:0]
	for _, id := range s.order {
		if now.After(s.runs[id].ExpiresAt) {
			delete(s.runs, id)
			continue
		}
		kept = append(kept, id)
	}
	s.order = kept
}
