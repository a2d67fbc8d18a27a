// Package storage keeps identification attempts in memory. One attempt
// is "latest" at a time; responses for superseded attempts are
// discarded so a slow earlier request can never overwrite a newer
// result.
package storage

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/verdantlabs/plantid/internal/models"
)

// historyLimit bounds how many resolved attempts are retained.
const historyLimit = 20

// AttemptStore holds the current and recent identification attempts.
type AttemptStore struct {
	mu       sync.RWMutex
	attempts map[string]*models.Attempt
	order    []string // attempt IDs, oldest first
	latest   string   // ID of the attempt the view model reflects
	seq      uint64   // issued to the latest attempt; stale tokens are rejected
}

// New returns an empty AttemptStore.
func New() *AttemptStore {
	return &AttemptStore{
		attempts: make(map[string]*models.Attempt),
	}
}

// snapshot returns a copy of an attempt. Accessors hand out copies so
// callers never read a struct the background pipeline is still
// mutating. Caller must hold at least the read lock.
func snapshot(a *models.Attempt) *models.Attempt {
	copied := *a
	return &copied
}

// Begin records a new loading attempt, superseding the previous one,
// and returns a snapshot of it with a sequence token. Only the holder
// of the current token may resolve or fail the attempt.
func (s *AttemptStore) Begin(preview, provider, model string) (*models.Attempt, uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	attempt := &models.Attempt{
		ID:        uuid.NewString(),
		State:     models.StateLoading,
		Preview:   preview,
		Provider:  provider,
		Model:     model,
		CreatedAt: time.Now(),
	}

	s.seq++
	s.latest = attempt.ID
	s.attempts[attempt.ID] = attempt
	s.order = append(s.order, attempt.ID)
	s.trim()

	return snapshot(attempt), s.seq
}

// Resolve attaches a record to the attempt identified by token. It
// reports false, and stores nothing, when the token has been superseded.
func (s *AttemptStore) Resolve(token uint64, record *models.Record) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if token != s.seq {
		return false
	}
	attempt := s.attempts[s.latest]
	attempt.State = models.StateResult
	attempt.Record = record
	return true
}

// Fail marks the attempt identified by token as failed with a
// user-visible message. Stale tokens are discarded silently.
func (s *AttemptStore) Fail(token uint64, message string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if token != s.seq {
		return false
	}
	attempt := s.attempts[s.latest]
	attempt.State = models.StateError
	attempt.Error = message
	return true
}

// Latest returns a snapshot of the attempt the view model should
// reflect, or an idle placeholder when nothing has been attempted yet.
func (s *AttemptStore) Latest() *models.Attempt {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.latest == "" {
		return &models.Attempt{State: models.StateIdle}
	}
	return snapshot(s.attempts[s.latest])
}

// Get returns a snapshot of an attempt by ID.
func (s *AttemptStore) Get(id string) (*models.Attempt, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	attempt, ok := s.attempts[id]
	if !ok {
		return nil, false
	}
	return snapshot(attempt), true
}

// History returns snapshots of retained attempts, newest first.
func (s *AttemptStore) History() []*models.Attempt {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*models.Attempt, 0, len(s.order))
	for i := len(s.order) - 1; i >= 0; i-- {
		result = append(result, snapshot(s.attempts[s.order[i]]))
	}
	return result
}

// trim drops the oldest attempts beyond the history limit. Caller must
// hold the write lock.
func (s *AttemptStore) trim() {
	for len(s.order) > historyLimit {
		oldest := s.order[0]
		s.order = s.order[1:]
		delete(s.attempts, oldest)
	}
}
