package service

import (
	"sync"

	"github.com/google/uuid"

	"github.com/baholash/baholash-api/internal/models"
)

// session is one browser session's form and result state. It is exclusively
// mutated under its own lock by the evaluation service; generation tags each
// submission so settlements racing a reset can be discarded.
type session struct {
	mu         sync.Mutex
	id         string
	student    models.StudentInfo
	grading    models.GradingConfig
	document   models.Document
	result     models.EvaluationResult
	generation uint64
}

type sessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*session
}

func newSessionStore() *sessionStore {
	return &sessionStore{sessions: make(map[string]*session)}
}

func (s *sessionStore) create() *session {
	sess := &session{
		id:     uuid.NewString(),
		result: models.EvaluationResult{Status: models.StatusIdle},
	}

	s.mu.Lock()
	s.sessions[sess.id] = sess
	s.mu.Unlock()

	return sess
}

func (s *sessionStore) get(id string) (*session, bool) {
	s.mu.RLock()
	sess, ok := s.sessions[id]
	s.mu.RUnlock()
	return sess, ok
}
