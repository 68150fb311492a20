package service

import (
	"errors"
	"slices"
	"strings"
	"testing"

	"chessbind/internal/core"
	"chessbind/internal/engine"
	"chessbind/internal/logger"
	"chessbind/internal/session"
)

type failingEngine struct {
	*engine.Notnil
	err error
}

func (f failingEngine) Dispose() error {
	f.Notnil.Dispose()
	return f.err
}

func newService(opts ...Option) *Service {
	return New(append([]Option{WithLogger(logger.Discard())}, opts...)...)
}

func TestOpenAndGet(t *testing.T) {
	svc := newService()
	defer svc.Shutdown()

	sess, err := svc.Open("")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if sess.Position() != engine.StartingFEN {
		t.Fatalf("position = %q", sess.Position())
	}

	got, err := svc.Get(sess.ID())
	if err != nil || got != sess {
		t.Fatalf("Get = %v, %v", got, err)
	}
	if _, err := svc.Get("missing"); !errors.Is(err, core.ErrSessionNotFound) {
		t.Fatalf("Get(missing) err = %v", err)
	}
}

func TestOpenFromFEN(t *testing.T) {
	svc := newService()
	defer svc.Shutdown()

	const fen = "4k3/8/8/8/8/8/4P3/4K3 w - - 0 1"
	sess, err := svc.Open(fen)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if sess.Position() != fen {
		t.Fatalf("position = %q, want %q", sess.Position(), fen)
	}

	if _, err := svc.Open("bogus"); !errors.Is(err, core.ErrInvalidFEN) {
		t.Fatalf("Open(bogus) err = %v, want ErrInvalidFEN", err)
	}
	if svc.Len() != 1 {
		t.Fatalf("failed open was registered")
	}
}

func TestSessionsAreIndependent(t *testing.T) {
	svc := newService()
	defer svc.Shutdown()

	a, _ := svc.Open("")
	b, _ := svc.Open("")

	a.Move("e4")
	if len(b.History()) != 0 {
		t.Fatalf("sessions share an engine")
	}
	if a.ID() == b.ID() {
		t.Fatalf("duplicate session IDs")
	}
}

func TestIDsInOpenOrder(t *testing.T) {
	svc := newService()
	defer svc.Shutdown()

	var want []string
	for i := 0; i < 3; i++ {
		sess, err := svc.Open("")
		if err != nil {
			t.Fatalf("Open: %v", err)
		}
		want = append(want, sess.ID())
	}
	if got := svc.IDs(); !slices.Equal(got, want) {
		t.Fatalf("IDs = %v, want %v", got, want)
	}

	if err := svc.CloseSession(want[1]); err != nil {
		t.Fatalf("CloseSession: %v", err)
	}
	if got := svc.IDs(); !slices.Equal(got, []string{want[0], want[2]}) {
		t.Fatalf("IDs after close = %v", got)
	}
}

func TestFind(t *testing.T) {
	svc := newService()
	defer svc.Shutdown()

	sess, _ := svc.Open("")

	for _, ref := range []string{sess.ID(), sess.ID()[:8], sess.Label()} {
		got, err := svc.Find(ref)
		if err != nil || got != sess {
			t.Fatalf("Find(%q) = %v, %v", ref, got, err)
		}
	}
	if _, err := svc.Find("zzzz"); !errors.Is(err, core.ErrSessionNotFound) {
		t.Fatalf("Find(zzzz) err = %v", err)
	}
	if _, err := svc.Find(""); !errors.Is(err, core.ErrSessionNotFound) {
		t.Fatalf("Find(\"\") err = %v", err)
	}
}

func TestCloseSession(t *testing.T) {
	svc := newService()
	sess, _ := svc.Open("")

	if err := svc.CloseSession(sess.ID()); err != nil {
		t.Fatalf("CloseSession: %v", err)
	}
	if !sess.Closed() {
		t.Fatalf("session not closed")
	}
	if err := sess.Move("e4"); !errors.Is(err, core.ErrReleased) {
		t.Fatalf("Move after close err = %v", err)
	}
	if err := svc.CloseSession(sess.ID()); !errors.Is(err, core.ErrSessionNotFound) {
		t.Fatalf("second CloseSession err = %v", err)
	}
}

func TestShutdownJoinsErrors(t *testing.T) {
	errA := errors.New("dispose a")
	errB := errors.New("dispose b")
	fails := []error{errA, nil, errB}
	n := 0

	svc := newService(WithEngineSource(func(fen string) engine.Factory {
		err := fails[n]
		n++
		return func() (engine.Engine, error) {
			eng, nerr := engine.NewNotnil(engine.WithFEN(fen))
			if nerr != nil {
				return nil, nerr
			}
			return failingEngine{Notnil: eng, err: err}, nil
		}
	}))

	var opened []string
	for range fails {
		sess, err := svc.Open("")
		if err != nil {
			t.Fatalf("Open: %v", err)
		}
		opened = append(opened, sess.ID())
	}

	err := svc.Shutdown()
	if !errors.Is(err, errA) || !errors.Is(err, errB) {
		t.Fatalf("Shutdown err = %v, want both dispose errors", err)
	}
	if svc.Len() != 0 || len(svc.IDs()) != 0 {
		t.Fatalf("sessions left after shutdown")
	}
	for _, id := range opened {
		if _, err := svc.Get(id); err == nil {
			t.Fatalf("session %s still registered", id)
		}
	}
	if err := svc.Shutdown(); err != nil {
		t.Fatalf("second Shutdown: %v", err)
	}
}

func TestOpenDuplicateIDReportsCloseError(t *testing.T) {
	errDispose := errors.New("dispose failed")
	svc := newService(WithEngineSource(func(fen string) engine.Factory {
		return func() (engine.Engine, error) {
			eng, err := engine.NewNotnil(engine.WithFEN(fen))
			if err != nil {
				return nil, err
			}
			return failingEngine{Notnil: eng, err: errDispose}, nil
		}
	}))
	defer svc.Shutdown()

	first, err := svc.Open("", session.WithID("dup"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	_, err = svc.Open("", session.WithID("dup"))
	if err == nil || !strings.Contains(err.Error(), "already exists") {
		t.Fatalf("duplicate Open err = %v", err)
	}
	if !errors.Is(err, errDispose) {
		t.Fatalf("duplicate Open err = %v, want the close error joined", err)
	}

	if got, err := svc.Get("dup"); err != nil || got != first || got.Closed() {
		t.Fatalf("original session disturbed: %v %v", got, err)
	}
	if svc.Len() != 1 {
		t.Fatalf("Len = %d, want 1", svc.Len())
	}
}
