package scan

import (
	"sync"
	"time"

	"github.com/jerilmartin/rankprobe/internal/types"
)

const (
	// defaultMaxStored caps retained scan records before eviction
	defaultMaxStored = 500
	// completeProgress is the progress value reserved for terminal scans
	completeProgress = 100
)

// Store tracks scan records through their lifecycle.
type Store interface {
	// Create registers a new scan record
	Create(sc *Scan)
	// Get returns a snapshot of the scan with the given id
	Get(id string) (Scan, bool)
	// Remove drops the scan with the given id
	Remove(id string)
	// SetRunning marks an enqueued scan as picked up by a worker
	SetRunning(id string)
	// SetProgress advances a running scan's progress checkpoint
	SetProgress(id string, step string, progress int)
	// SetComplete finalizes a scan with its result
	SetComplete(id string, result *types.ScanResult)
	// SetFail finalizes a scan with an error message
	SetFail(id string, message string)
}

// MemoryStore keeps scan records in memory with bounded retention. When the
// cap is exceeded the oldest terminal records are evicted; in-flight scans
// are never evicted.
type MemoryStore struct {
	mu        sync.RWMutex
	scans     map[string]*Scan
	order     []string
	maxStored int
}

// NewMemoryStore creates a store retaining at most maxStored scans.
func NewMemoryStore(maxStored int) *MemoryStore {
	if maxStored <= 0 {
		maxStored = defaultMaxStored
	}

	return &MemoryStore{
		scans:     make(map[string]*Scan),
		maxStored: maxStored,
	}
}

// Create registers a new scan record. The record is copied, so the caller's
// value never observes later mutations.
func (s *MemoryStore) Create(sc *Scan) {
	if sc == nil || sc.ID == "" {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *sc
	s.scans[cp.ID] = &cp
	s.order = append(s.order, cp.ID)
	s.evictLocked()
}

// Get returns a snapshot of the scan with the given id.
func (s *MemoryStore) Get(id string) (Scan, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sc, ok := s.scans[id]
	if !ok {
		return Scan{}, false
	}

	return *sc, true
}

// Remove drops the scan with the given id.
func (s *MemoryStore) Remove(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.removeLocked(id)
}

// SetRunning marks an enqueued scan as picked up by a worker.
func (s *MemoryStore) SetRunning(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sc, ok := s.scans[id]
	if !ok || sc.Status != StatusEnqueued {
		return
	}

	now := time.Now().UTC()
	sc.Status = StatusScanning
	sc.StartedAt = &now
}

// SetProgress advances a running scan's progress checkpoint. Updates below
// the current progress are dropped so progress never regresses, and values
// stay below 100 until the scan completes.
func (s *MemoryStore) SetProgress(id string, step string, progress int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sc, ok := s.scans[id]
	if !ok || sc.Status != StatusScanning {
		return
	}

	if progress >= completeProgress {
		progress = completeProgress - 1
	}

	if progress < sc.Progress {
		return
	}

	sc.Progress = progress
	sc.CurrentStep = step
}

// SetComplete finalizes a scan with its result.
func (s *MemoryStore) SetComplete(id string, result *types.ScanResult) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sc, ok := s.scans[id]
	if !ok || sc.Status.Terminal() {
		return
	}

	now := time.Now().UTC()
	sc.Status = StatusComplete
	sc.Progress = completeProgress
	sc.CurrentStep = ""
	sc.CompletedAt = &now
	sc.Result = result
}

// SetFail finalizes a scan with an error message. Progress freezes at the
// checkpoint the scan reached.
func (s *MemoryStore) SetFail(id string, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sc, ok := s.scans[id]
	if !ok || sc.Status.Terminal() {
		return
	}

	now := time.Now().UTC()
	sc.Status = StatusFailed
	sc.CurrentStep = ""
	sc.CompletedAt = &now
	sc.ErrorMessage = message
}

// Len returns the number of retained scan records.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.scans)
}

// evictLocked drops the oldest terminal records until the store is back
// under its cap. Callers must hold the write lock.
func (s *MemoryStore) evictLocked() {
	for len(s.scans) > s.maxStored {
		idx := -1

		for i, id := range s.order {
			if sc, ok := s.scans[id]; ok && sc.Status.Terminal() {
				idx = i
				break
			}
		}

		if idx < 0 {
			return
		}

		delete(s.scans, s.order[idx])
		s.order = append(s.order[:idx], s.order[idx+1:]...)
	}
}

// removeLocked drops a record and its creation-order entry. Callers must
// hold the write lock.
func (s *MemoryStore) removeLocked(id string) {
	if _, ok := s.scans[id]; !ok {
		return
	}

	delete(s.scans, id)

	for i, ordered := range s.order {
		if ordered == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}
