package services

import (
	"errors"
	"finsight/config"
	"finsight/types"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrSessionNotFound = types.NewError(types.KindNotFound, types.MsgSessionNotFound, errors.New("session not found"))
	ErrSessionBusy     = types.NewError(types.KindBusy, types.MsgSessionBusy, errors.New("analysis already in progress"))
	ErrNoResult        = types.NewError(types.KindNotFound, types.MsgResultNotFound, errors.New("session has no result"))
)

type session struct {
	id         string
	result     *types.AnalysisResult
	fileName   string
	analyzedAt time.Time
	busy       bool
	lastSeen   time.Time
}

// SessionSnapshot is a read-only view of a session. Result is shared and must not be modified.
type SessionSnapshot struct {
	ID         string                `json:"id"`
	FileName   string                `json:"file_name,omitempty"`
	AnalyzedAt *time.Time            `json:"analyzed_at,omitempty"`
	Busy       bool                  `json:"busy"`
	Result     *types.AnalysisResult `json:"-"`
}

// SessionStore keeps the current analysis result of each browser session in memory.
// Nothing is persisted; idle sessions are dropped lazily on access.
type SessionStore struct {
	mu       sync.Mutex
	sessions map[string]*session
	ttl      time.Duration
	max      int
	now      func() time.Time
}

func NewSessionStore(cfg config.SessionConfig) *SessionStore {
	return &SessionStore{
		sessions: make(map[string]*session),
		ttl:      cfg.TTL,
		max:      cfg.MaxSessions,
		now:      time.Now,
	}
}

// Create starts an empty session and returns its id.
func (s *SessionStore) Create() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.evictExpired(now)
	if len(s.sessions) >= s.max {
		s.evictOldest()
	}

	id := uuid.New().String()
	s.sessions[id] = &session{id: id, lastSeen: now}
	return id
}

// Begin marks the session as analyzing. Only one analysis may run per session; the previous
// result is dropped so a failed attempt leaves the session in its pre-analysis state.
func (s *SessionStore) Begin(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.lookup(id)
	if err != nil {
		return err
	}
	if sess.busy {
		return ErrSessionBusy
	}
	sess.busy = true
	sess.result = nil
	sess.fileName = ""
	sess.analyzedAt = time.Time{}
	return nil
}

// Finish ends the analysis started by Begin. A nil result records a failed attempt.
func (s *SessionStore) Finish(id string, result *types.AnalysisResult, fileName string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		zap.L().Warn("Analysis finished for a session that no longer exists", zap.String("session", id))
		return
	}
	sess.busy = false
	sess.lastSeen = s.now()
	if result != nil {
		sess.result = result
		sess.fileName = fileName
		sess.analyzedAt = sess.lastSeen
	}
}

func (s *SessionStore) Get(id string) (SessionSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.lookup(id)
	if err != nil {
		return SessionSnapshot{}, err
	}
	snap := SessionSnapshot{ID: sess.id, FileName: sess.fileName, Busy: sess.busy, Result: sess.result}
	if !sess.analyzedAt.IsZero() {
		at := sess.analyzedAt
		snap.AnalyzedAt = &at
	}
	return snap, nil
}

// Result returns the stored result or ErrNoResult.
func (s *SessionStore) Result(id string) (*types.AnalysisResult, string, error) {
	snap, err := s.Get(id)
	if err != nil {
		return nil, "", err
	}
	if snap.Result == nil {
		return nil, "", ErrNoResult
	}
	return snap.Result, snap.FileName, nil
}

// Reset clears the session's result. A running analysis cannot be reset.
func (s *SessionStore) Reset(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.lookup(id)
	if err != nil {
		return err
	}
	if sess.busy {
		return ErrSessionBusy
	}
	sess.result = nil
	sess.fileName = ""
	sess.analyzedAt = time.Time{}
	return nil
}

func (s *SessionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// lookup must be called with s.mu held.
func (s *SessionStore) lookup(id string) (*session, error) {
	now := s.now()
	s.evictExpired(now)
	sess, ok := s.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	sess.lastSeen = now
	return sess, nil
}

func (s *SessionStore) evictExpired(now time.Time) {
	for id, sess := range s.sessions {
		if !sess.busy && now.Sub(sess.lastSeen) > s.ttl {
			delete(s.sessions, id)
		}
	}
}

func (s *SessionStore) evictOldest() {
	var oldest *session
	for _, sess := range s.sessions {
		if sess.busy {
			continue
		}
		if oldest == nil || sess.lastSeen.Before(oldest.lastSeen) {
			oldest = sess
		}
	}
	if oldest != nil {
		delete(s.sessions, oldest.id)
	}
}
