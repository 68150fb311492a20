package session

import (
	"chessbind/internal/core"
	"chessbind/internal/engine"
)

const initialFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// fakeEngine is a scripted engine: tests set what each query returns
type fakeEngine struct {
	moveFn func(input string) (*engine.MoveInfo, bool)

	history []string
	fen     string
	turn    core.Color
	flags   core.Flags

	onReset func(*fakeEngine)
	onUndo  func(*fakeEngine)

	moves, resets, undos int
	disposed             int
	disposeErr           error
}

func newFakeEngine() *fakeEngine {
	return &fakeEngine{
		fen:  initialFEN,
		turn: core.ColorWhite,
	}
}

func (f *fakeEngine) factory() engine.Factory {
	return func() (engine.Engine, error) {
		return f, nil
	}
}

// Move accepts everything by default, recording the input as SAN
func (f *fakeEngine) Move(input string) (*engine.MoveInfo, bool) {
	f.moves++
	if f.moveFn != nil {
		info, ok := f.moveFn(input)
		if ok {
			f.history = append(f.history, input)
		}
		return info, ok
	}
	f.history = append(f.history, input)
	return &engine.MoveInfo{SAN: input}, true
}

func (f *fakeEngine) Reset() {
	f.resets++
	if f.onReset != nil {
		f.onReset(f)
		return
	}
	f.history = nil
	f.fen = initialFEN
	f.turn = core.ColorWhite
}

func (f *fakeEngine) Undo() {
	f.undos++
	if f.onUndo != nil {
		f.onUndo(f)
		return
	}
	if len(f.history) > 0 {
		f.history = f.history[:len(f.history)-1]
	}
}

func (f *fakeEngine) History() []string {
	return f.history
}

func (f *fakeEngine) FEN() string      { return f.fen }
func (f *fakeEngine) Turn() core.Color { return f.turn }

func (f *fakeEngine) IsGameOver() bool            { return f.flags.Has(core.FlagGameOver) }
func (f *fakeEngine) InCheck() bool               { return f.flags.Has(core.FlagCheck) }
func (f *fakeEngine) InCheckmate() bool           { return f.flags.Has(core.FlagCheckmate) }
func (f *fakeEngine) InDraw() bool                { return f.flags.Has(core.FlagDraw) }
func (f *fakeEngine) InStalemate() bool           { return f.flags.Has(core.FlagStalemate) }
func (f *fakeEngine) InThreefoldRepetition() bool { return f.flags.Has(core.FlagThreefoldRepetition) }
func (f *fakeEngine) InsufficientMaterial() bool  { return f.flags.Has(core.FlagInsufficientMaterial) }

func (f *fakeEngine) Dispose() error {
	f.disposed++
	return f.disposeErr
}

// recorder counts callback invocations in order
type recorder struct {
	calls   []string
	legal   []*engine.MoveInfo
	illegal []string
}

func (r *recorder) callbacks() Callbacks {
	mark := func(name string) func() {
		return func() { r.calls = append(r.calls, name) }
	}
	return Callbacks{
		OnLegalMove: func(m *engine.MoveInfo) {
			r.calls = append(r.calls, "legal")
			r.legal = append(r.legal, m)
		},
		OnIllegalMove: func(input string) {
			r.calls = append(r.calls, "illegal")
			r.illegal = append(r.illegal, input)
		},
		OnGameOver:             mark("game_over"),
		OnCheck:                mark("check"),
		OnCheckmate:            mark("checkmate"),
		OnDraw:                 mark("draw"),
		OnStalemate:            mark("stalemate"),
		OnThreefoldRepetition:  mark("threefold_repetition"),
		OnInsufficientMaterial: mark("insufficient_material"),
	}
}

func (r *recorder) count(name string) int {
	n := 0
	for _, c := range r.calls {
		if c == name {
			n++
		}
	}
	return n
}
