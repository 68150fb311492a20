// FILE: internal/session/session.go
package session

import (
	"fmt"
	"log/slog"

	"chessbind/internal/core"
	"chessbind/internal/engine"

	petname "github.com/dustinkirkland/golang-petname"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

var validate = validator.New()

// Session binds one engine to its observable state for a single consuming
// unit. Every mutation is applied, projected into a new Snapshot and
// published before the command returns.
//
// A Session is not safe for concurrent use. Callers must serialise commands
// (one goroutine, or the UI framework's event loop); concurrent calls have
// undefined results. Commands issued from a callback or subscriber while
// another command is in flight fail with core.ErrReentrantCommand.
type Session struct {
	id     string
	label  string
	handle *Handle
	cb     Callbacks
	log    *slog.Logger

	snap Snapshot
	seq  uint64

	subs    []subscriber
	nextSub int

	busy   bool
	closed bool
}

type subscriber struct {
	id int
	fn func(Snapshot)
}

type Option func(*Session)

func WithCallbacks(cb Callbacks) Option {
	return func(s *Session) {
		s.cb = cb
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.log = l
		}
	}
}

// WithID overrides the generated session ID
func WithID(id string) Option {
	return func(s *Session) {
		if id != "" {
			s.id = id
		}
	}
}

// New acquires an engine from factory and publishes its initial snapshot.
// Engine construction errors are returned unchanged.
func New(factory engine.Factory, opts ...Option) (*Session, error) {
	s := &Session{
		id:     uuid.NewString(),
		label:  petname.Generate(2, "-"),
		handle: NewHandle(factory),
		log:    slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.With("session", s.id, "label", s.label)

	eng, err := s.handle.Acquire()
	if err != nil {
		return nil, err
	}
	s.seq = 1
	s.snap = Project(eng).withSeq(s.seq)

	s.log.Debug("session opened", "fen", s.snap.Position())
	return s, nil
}

func (s *Session) ID() string {
	return s.id
}

// Label is a short human friendly name for logs and prompts
func (s *Session) Label() string {
	return s.label
}

// SetCallbacks replaces the registered callbacks. The next command uses the
// new set; a command already in flight keeps the set it started with.
func (s *Session) SetCallbacks(cb Callbacks) {
	s.cb = cb
}

func (s *Session) Callbacks() Callbacks {
	return s.cb
}

// Subscribe registers fn to receive every published snapshot. The returned
// function removes the subscription.
func (s *Session) Subscribe(fn func(Snapshot)) (unsubscribe func()) {
	if fn == nil {
		return func() {}
	}
	s.nextSub++
	id := s.nextSub
	s.subs = append(s.subs, subscriber{id: id, fn: fn})

	return func() {
		for i, sub := range s.subs {
			if sub.id == id {
				s.subs = append(s.subs[:i:i], s.subs[i+1:]...)
				return
			}
		}
	}
}

// Snapshot returns the currently published state
func (s *Session) Snapshot() Snapshot {
	return s.snap
}

func (s *Session) History() []string {
	return s.snap.History()
}

func (s *Session) Position() string {
	return s.snap.Position()
}

func (s *Session) Turn() core.Color {
	return s.snap.Turn()
}

func (s *Session) Flags() core.Flags {
	return s.snap.Flags()
}

func (s *Session) Closed() bool {
	return s.closed
}

// Move submits a move. Illegal input is reported only through
// OnIllegalMove; the returned error is reserved for fatal conditions.
func (s *Session) Move(input string) error {
	_, err := s.Dispatch(NewMoveCommand(input))
	return err
}

func (s *Session) Reset() error {
	_, err := s.Dispatch(NewResetCommand())
	return err
}

func (s *Session) Undo() error {
	_, err := s.Dispatch(NewUndoCommand())
	return err
}

// Dispatch runs one command to completion: engine mutation, projection,
// publication and callbacks.
func (s *Session) Dispatch(cmd Command) (Result, error) {
	if s.busy {
		s.log.Error("reentrant command rejected", "command", cmd.Type.String())
		return Result{}, core.ErrReentrantCommand
	}
	if s.closed {
		return Result{}, core.ErrReleased
	}

	s.busy = true
	defer func() { s.busy = false }()

	switch cmd.Type {
	case CmdMove:
		return s.dispatchMove(cmd.Input)
	case CmdReset, CmdUndo:
		return s.dispatchReplay(cmd.Type)
	default:
		err := core.NewError(core.ErrCodeUnknownCommand, fmt.Sprintf("unknown command type: %d", cmd.Type), nil)
		s.log.Error("dispatch failed", "error", err)
		return Result{}, err
	}
}

func (s *Session) dispatchMove(input string) (Result, error) {
	cb := s.cb
	res := Result{Input: input}

	var (
		info *engine.MoveInfo
		ok   bool
	)
	if err := validate.Var(input, moveInputRule); err == nil {
		var mErr error
		info, ok, mErr = s.handle.Mutate(CmdMove, input)
		if mErr != nil {
			s.log.Error("move failed", "input", input, "error", mErr)
			return res, mErr
		}
	}

	if !ok {
		s.log.Debug("move rejected", "input", input)
		if cb.OnIllegalMove != nil {
			cb.OnIllegalMove(input)
		}
		return res, nil
	}

	if info == nil {
		info = &engine.MoveInfo{SAN: input}
	}
	snap, err := s.publish()
	if err != nil {
		return res, err
	}
	res.Accepted = true
	res.Move = info
	res.Fired = snap.Flags().List()

	s.log.Debug("move accepted", "san", info.SAN, "fen", snap.Position(), "flags", snap.Flags().String())

	if cb.OnLegalMove != nil {
		cb.OnLegalMove(info)
	}
	for _, f := range res.Fired {
		if fn := cb.terminal(f); fn != nil {
			fn()
		}
	}
	return res, nil
}

// dispatchReplay handles reset and undo, which always republish and never
// notify callbacks
func (s *Session) dispatchReplay(kind CommandType) (Result, error) {
	if _, _, err := s.handle.Mutate(kind, ""); err != nil {
		s.log.Error("command failed", "command", kind.String(), "error", err)
		return Result{}, err
	}
	snap, err := s.publish()
	if err != nil {
		return Result{}, err
	}
	s.log.Debug("command applied", "command", kind.String(), "moves", snap.Len())
	return Result{Accepted: true}, nil
}

// publish replaces the current snapshot wholesale and notifies subscribers
func (s *Session) publish() (Snapshot, error) {
	eng, err := s.handle.Acquire()
	if err != nil {
		return Snapshot{}, err
	}

	s.seq++
	s.snap = Project(eng).withSeq(s.seq)

	subs := make([]subscriber, len(s.subs))
	copy(subs, s.subs)
	for _, sub := range subs {
		sub.fn(s.snap)
	}
	return s.snap, nil
}

// Close releases the engine exactly once. It is safe to defer on every
// exit path; calls after the first return nil.
func (s *Session) Close() error {
	if s.closed {
		return nil
	}
	if s.busy {
		return core.ErrReentrantCommand
	}
	s.closed = true
	s.subs = nil

	if err := s.handle.Release(); err != nil {
		s.log.Error("session close failed", "error", err)
		return err
	}
	s.log.Debug("session closed", "moves", s.snap.Len())
	return nil
}
