package engine

import (
	"errors"
	"slices"
	"testing"

	"chessbind/internal/core"
)

func newEngine(t *testing.T, opts ...Option) *Notnil {
	t.Helper()
	n, err := NewNotnil(opts...)
	if err != nil {
		t.Fatalf("NewNotnil: %v", err)
	}
	return n
}

func play(t *testing.T, n *Notnil, moves ...string) {
	t.Helper()
	for _, m := range moves {
		if _, ok := n.Move(m); !ok {
			t.Fatalf("move %q rejected at %s", m, n.FEN())
		}
	}
}

func TestInitialState(t *testing.T) {
	n := newEngine(t)

	if n.FEN() != StartingFEN {
		t.Fatalf("FEN = %q", n.FEN())
	}
	if n.Turn() != core.ColorWhite {
		t.Fatalf("turn = %s", n.Turn())
	}
	if len(n.History()) != 0 {
		t.Fatalf("history = %v", n.History())
	}
	if fs := Flags(n); !fs.Empty() {
		t.Fatalf("flags = %s, want none", fs)
	}
}

func TestMoveSAN(t *testing.T) {
	n := newEngine(t)

	info, ok := n.Move("e4")
	if !ok {
		t.Fatalf("e4 rejected")
	}
	if info.SAN != "e4" || info.UCI != "e2e4" || info.From != "e2" || info.To != "e4" {
		t.Fatalf("info = %+v", info)
	}
	if info.Piece != "p" || info.Color != core.ColorWhite || info.Captured != "" {
		t.Fatalf("info = %+v", info)
	}
	if n.Turn() != core.ColorBlack {
		t.Fatalf("turn after e4 = %s", n.Turn())
	}
}

func TestMoveUCI(t *testing.T) {
	n := newEngine(t)

	info, ok := n.Move("g1f3")
	if !ok {
		t.Fatalf("g1f3 rejected")
	}
	if info.SAN != "Nf3" {
		t.Fatalf("SAN = %q, want Nf3", info.SAN)
	}
	if got := n.History(); !slices.Equal(got, []string{"Nf3"}) {
		t.Fatalf("history = %v", got)
	}
}

func TestMoveRejected(t *testing.T) {
	n := newEngine(t)
	before := n.FEN()

	for _, in := range []string{"", "  ", "e5", "Ba8", "Ke2", "e2e5", "garbage"} {
		if info, ok := n.Move(in); ok || info != nil {
			t.Fatalf("Move(%q) = %v %v, want rejection", in, info, ok)
		}
	}
	if n.FEN() != before || len(n.History()) != 0 {
		t.Fatalf("rejected moves changed the game")
	}
}

func TestMoveCanonicalisesInput(t *testing.T) {
	n := newEngine(t)
	play(t, n, "e4", "f6")

	info, ok := n.Move("Qh5")
	if !ok {
		t.Fatalf("Qh5 rejected")
	}
	if info.SAN != "Qh5+" || !info.Check {
		t.Fatalf("info = %+v, want checking Qh5+", info)
	}
	if n.History()[2] != "Qh5+" {
		t.Fatalf("history = %v", n.History())
	}
}

func TestScholarsMate(t *testing.T) {
	n := newEngine(t)
	play(t, n, "e4", "e5", "Qh5", "Nc6", "Bc4", "Nf6")

	info, ok := n.Move("Qxf7")
	if !ok {
		t.Fatalf("Qxf7 rejected")
	}
	if info.SAN != "Qxf7#" || info.Captured != "p" {
		t.Fatalf("info = %+v", info)
	}

	h := n.History()
	if h[len(h)-1] != "Qxf7#" {
		t.Fatalf("last history entry = %q", h[len(h)-1])
	}
	if !n.InCheckmate() || !n.IsGameOver() || !n.InCheck() {
		t.Fatalf("flags = %s, want checkmate", Flags(n))
	}
	if n.InDraw() || n.InStalemate() {
		t.Fatalf("checkmate reported as draw")
	}
}

func TestCheckWithoutMate(t *testing.T) {
	n := newEngine(t)
	play(t, n, "e4", "f6", "Qh5+")

	if !n.InCheck() {
		t.Fatalf("expected check")
	}
	if n.InCheckmate() || n.IsGameOver() {
		t.Fatalf("flags = %s, want check only", Flags(n))
	}
}

func TestCheckFromStartingPosition(t *testing.T) {
	tests := []struct {
		name  string
		fen   string
		check bool
	}{
		{"rook on file", "4k3/8/8/8/8/8/8/K3R3 b - - 0 1", true},
		{"rook blocked", "4k3/4p3/8/8/8/8/8/K3R3 b - - 0 1", false},
		{"bishop diagonal", "4k3/8/8/8/Q7/8/8/K7 b - - 0 1", true},
		{"knight", "4k3/8/5N2/8/8/8/8/4K3 b - - 0 1", true},
		{"white pawn", "4k3/3P4/8/8/8/8/8/4K3 b - - 0 1", true},
		{"black pawn", "4k3/8/8/8/8/8/3p4/4K3 w - - 0 1", true},
		{"pawn straight ahead", "4k3/4P3/8/8/8/8/8/K7 b - - 0 1", false},
		{"standard start", StartingFEN, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := newEngine(t, WithFEN(tt.fen))
			if n.InCheck() != tt.check {
				t.Fatalf("InCheck = %v, want %v", n.InCheck(), tt.check)
			}
			if Flags(n).Has(core.FlagCheck) != tt.check {
				t.Fatalf("flags = %s", Flags(n))
			}
		})
	}
}

func TestUndoBackToCheckedStart(t *testing.T) {
	n := newEngine(t, WithFEN("4k3/8/8/8/8/8/8/K3R3 b - - 0 1"))
	play(t, n, "Kd7")
	if n.InCheck() {
		t.Fatalf("check reported after king stepped away")
	}

	n.Undo()
	if !n.InCheck() {
		t.Fatalf("check lost after undo to the starting position")
	}
}

func TestStalemate(t *testing.T) {
	n := newEngine(t, WithFEN("7k/8/6K1/5Q2/8/8/8/8 w - - 0 1"))
	play(t, n, "Qf7")

	if !n.InStalemate() || !n.InDraw() || !n.IsGameOver() {
		t.Fatalf("flags = %s, want stalemate", Flags(n))
	}
	if n.InCheck() || n.InCheckmate() {
		t.Fatalf("stalemate reported as check")
	}
}

func TestInsufficientMaterial(t *testing.T) {
	n := newEngine(t, WithFEN("k7/8/8/8/8/8/6r1/7K w - - 0 1"))
	play(t, n, "Kxg2")

	if !n.InsufficientMaterial() || !n.InDraw() || !n.IsGameOver() {
		t.Fatalf("flags = %s, want insufficient material", Flags(n))
	}
	if n.InThreefoldRepetition() {
		t.Fatalf("insufficient material reported as repetition")
	}
}

func TestThreefoldRepetition(t *testing.T) {
	n := newEngine(t)
	play(t, n, "Nf3", "Nf6", "Ng1", "Ng8", "Nf3", "Nf6", "Ng1")

	if n.InThreefoldRepetition() {
		t.Fatalf("repetition reported after only two occurrences")
	}
	play(t, n, "Ng8")
	if !n.InThreefoldRepetition() || !n.InDraw() {
		t.Fatalf("flags = %s, want threefold repetition", Flags(n))
	}
}

func TestUndo(t *testing.T) {
	n := newEngine(t)
	n.Undo()
	if n.FEN() != StartingFEN {
		t.Fatalf("undo on empty game changed position")
	}

	play(t, n, "e4")
	afterE4 := n.FEN()
	play(t, n, "e5")

	n.Undo()
	if n.FEN() != afterE4 {
		t.Fatalf("FEN after undo = %q, want %q", n.FEN(), afterE4)
	}
	if got := n.History(); !slices.Equal(got, []string{"e4"}) {
		t.Fatalf("history = %v", got)
	}
	if n.Turn() != core.ColorBlack {
		t.Fatalf("turn after undo = %s", n.Turn())
	}
}

func TestUndoFromCustomStart(t *testing.T) {
	const fen = "4k3/8/8/8/8/8/4P3/4K3 w - - 0 1"
	n := newEngine(t, WithFEN(fen))
	play(t, n, "e4")

	n.Undo()
	if n.FEN() != fen {
		t.Fatalf("FEN after undo = %q, want %q", n.FEN(), fen)
	}
}

func TestReset(t *testing.T) {
	n := newEngine(t)
	play(t, n, "e4", "e5", "Nf3")

	n.Reset()
	if n.FEN() != StartingFEN || len(n.History()) != 0 {
		t.Fatalf("reset left FEN=%q history=%v", n.FEN(), n.History())
	}
}

func TestInvalidFEN(t *testing.T) {
	_, err := NewNotnil(WithFEN("not a fen"))
	if !errors.Is(err, core.ErrInvalidFEN) {
		t.Fatalf("err = %v, want ErrInvalidFEN", err)
	}

	// The factory surfaces the same error on construction
	if _, err := NotnilFactory(WithFEN("not a fen"))(); core.Code(err) != core.ErrCodeInvalidFEN {
		t.Fatalf("factory err = %v", err)
	}
}

func TestFactoryBuildsIndependentEngines(t *testing.T) {
	factory := NotnilFactory()
	a, _ := factory()
	b, _ := factory()

	a.Move("e4")
	if len(b.History()) != 0 {
		t.Fatalf("engines share state")
	}
}

func TestDispose(t *testing.T) {
	n := newEngine(t)
	if err := n.Dispose(); err != nil {
		t.Fatalf("Dispose: %v", err)
	}
	if err := n.Dispose(); err != nil {
		t.Fatalf("second Dispose: %v", err)
	}

	defer func() {
		r := recover()
		err, ok := r.(error)
		if !ok || !errors.Is(err, core.ErrReleased) {
			t.Fatalf("recovered %v, want ErrReleased panic", r)
		}
	}()
	n.FEN()
}

func TestMoveInfoString(t *testing.T) {
	var nilInfo *MoveInfo
	if nilInfo.String() != "" {
		t.Fatalf("nil MoveInfo String should be empty")
	}
	if (&MoveInfo{UCI: "e2e4"}).String() != "e2e4" {
		t.Fatalf("String should fall back to UCI")
	}
	if (&MoveInfo{SAN: "e4", UCI: "e2e4"}).String() != "e4" {
		t.Fatalf("String should prefer SAN")
	}
}
