// FILE: internal/service/service.go
package service

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"chessbind/internal/core"
	"chessbind/internal/engine"
	"chessbind/internal/session"
)

// EngineSource builds the engine factory for a new session starting at fen.
// An empty fen means the standard starting position.
type EngineSource func(fen string) engine.Factory

// NotnilSource backs sessions with the notnil rules engine
func NotnilSource(fen string) engine.Factory {
	return engine.NotnilFactory(engine.WithFEN(fen))
}

// Service owns every open session of one process. The mutex guards the
// registry only; each session must still be driven from a single goroutine.
type Service struct {
	sessions map[string]*session.Session
	order    []string
	mu       sync.RWMutex
	source   EngineSource
	log      *slog.Logger
}

type Option func(*Service)

func WithEngineSource(src EngineSource) Option {
	return func(s *Service) {
		if src != nil {
			s.source = src
		}
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.log = l
		}
	}
}

func New(opts ...Option) *Service {
	s := &Service{
		sessions: make(map[string]*session.Session),
		source:   NotnilSource,
		log:      slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Open creates a session starting at fen and registers it
func (s *Service) Open(fen string, opts ...session.Option) (*session.Session, error) {
	opts = append([]session.Option{session.WithLogger(s.log)}, opts...)
	sess, err := session.New(s.source(fen), opts...)
	if err != nil {
		return nil, fmt.Errorf("open session: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.sessions[sess.ID()]; exists {
		return nil, errors.Join(fmt.Errorf("session %s already exists", sess.ID()), sess.Close())
	}
	s.sessions[sess.ID()] = sess
	s.order = append(s.order, sess.ID())

	s.log.Debug("session registered", "session", sess.ID(), "label", sess.Label(), "open", len(s.sessions))
	return sess, nil
}

// Get retrieves a session by exact ID
func (s *Service) Get(id string) (*session.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[id]
	if !ok {
		return nil, core.NewError(core.ErrCodeNotFound, fmt.Sprintf("session not found: %s", id), nil)
	}
	return sess, nil
}

// Find resolves ref as an exact ID, a label, or a unique ID prefix
func (s *Service) Find(ref string) (*session.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if sess, ok := s.sessions[ref]; ok {
		return sess, nil
	}

	var match *session.Session
	for _, id := range s.order {
		sess := s.sessions[id]
		if sess.Label() != ref && (ref == "" || !strings.HasPrefix(id, ref)) {
			continue
		}
		if match != nil {
			return nil, core.NewError(core.ErrCodeNotFound, fmt.Sprintf("ambiguous session reference: %s", ref), nil)
		}
		match = sess
	}
	if match == nil {
		return nil, core.NewError(core.ErrCodeNotFound, fmt.Sprintf("session not found: %s", ref), nil)
	}
	return match, nil
}

// IDs lists open sessions in the order they were opened
func (s *Service) IDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, len(s.order))
	copy(ids, s.order)
	return ids
}

func (s *Service) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// CloseSession releases the session's engine and removes it from the registry
func (s *Service) CloseSession(id string) error {
	s.mu.Lock()
	sess, ok := s.sessions[id]
	if ok {
		delete(s.sessions, id)
		s.removeOrder(id)
	}
	s.mu.Unlock()

	if !ok {
		return core.NewError(core.ErrCodeNotFound, fmt.Sprintf("session not found: %s", id), nil)
	}
	if err := sess.Close(); err != nil {
		return fmt.Errorf("close session %s: %w", id, err)
	}
	s.log.Debug("session closed", "session", id, "open", s.Len())
	return nil
}

func (s *Service) removeOrder(id string) {
	for i, v := range s.order {
		if v == id {
			s.order = append(s.order[:i:i], s.order[i+1:]...)
			return
		}
	}
}

// Shutdown closes every session, joining their errors
func (s *Service) Shutdown() error {
	s.mu.Lock()
	sessions := make([]*session.Session, 0, len(s.order))
	for _, id := range s.order {
		sessions = append(sessions, s.sessions[id])
	}
	s.sessions = make(map[string]*session.Session)
	s.order = nil
	s.mu.Unlock()

	var errs []error
	for _, sess := range sessions {
		if err := sess.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close session %s: %w", sess.ID(), err))
		}
	}
	s.log.Debug("service shut down", "closed", len(sessions), "errors", len(errs))
	return errors.Join(errs...)
}
