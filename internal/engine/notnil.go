// FILE: internal/engine/notnil.go
package engine

import (
	"fmt"
	"strings"

	"chessbind/internal/core"

	"github.com/notnil/chess"
)

// StartingFEN is the standard initial position
const StartingFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

var (
	sanNoise    = strings.NewReplacer("+", "", "#", "", "!", "", "?", "")
	zeroCastles = strings.NewReplacer("0-0-0", "O-O-O", "0-0", "O-O")

	algebraic = chess.AlgebraicNotation{}
	longUCI   = chess.UCINotation{}
)

// Notnil adapts github.com/notnil/chess to the Engine capability
type Notnil struct {
	startFEN string
	game     *chess.Game
	released bool
}

type Option func(*Notnil) error

// WithFEN starts (and resets) the game from fen instead of the standard position
func WithFEN(fen string) Option {
	return func(n *Notnil) error {
		fen = strings.TrimSpace(fen)
		if fen == "" {
			return nil
		}
		if _, err := chess.FEN(fen); err != nil {
			return core.NewError(core.ErrCodeInvalidFEN, fmt.Sprintf("invalid FEN %q", fen), err)
		}
		n.startFEN = fen
		return nil
	}
}

// NewNotnil creates an engine positioned at the starting FEN
func NewNotnil(opts ...Option) (*Notnil, error) {
	n := &Notnil{}
	for _, opt := range opts {
		if err := opt(n); err != nil {
			return nil, err
		}
	}

	g, err := n.newGame()
	if err != nil {
		return nil, err
	}
	n.game = g
	return n, nil
}

// NotnilFactory returns a Factory producing independent Notnil engines
func NotnilFactory(opts ...Option) Factory {
	return func() (Engine, error) {
		return NewNotnil(opts...)
	}
}

func (n *Notnil) newGame() (*chess.Game, error) {
	if n.startFEN == "" {
		return chess.NewGame(), nil
	}
	fen, err := chess.FEN(n.startFEN)
	if err != nil {
		return nil, core.NewError(core.ErrCodeInvalidFEN, fmt.Sprintf("invalid FEN %q", n.startFEN), err)
	}
	return chess.NewGame(fen), nil
}

func (n *Notnil) live() *chess.Game {
	if n.released {
		panic(fmt.Errorf("notnil engine: %w", core.ErrReleased))
	}
	return n.game
}

// Move accepts SAN ("Nf3", "exd8=Q+", "O-O") or UCI ("g1f3", "e7e8q")
func (n *Notnil) Move(input string) (*MoveInfo, bool) {
	g := n.live()

	in := strings.TrimSpace(input)
	if in == "" {
		return nil, false
	}

	pos := g.Position()
	m := decodeMove(pos, in)
	if m == nil {
		return nil, false
	}

	info := describe(pos, m)
	if err := g.Move(m); err != nil {
		return nil, false
	}
	return info, true
}

func decodeMove(pos *chess.Position, in string) *chess.Move {
	valid := pos.ValidMoves()

	san := zeroCastles.Replace(sanNoise.Replace(in))
	for _, m := range valid {
		if sanNoise.Replace(algebraic.Encode(pos, m)) == san {
			return m
		}
	}

	uci := strings.ToLower(in)
	for _, m := range valid {
		if longUCI.Encode(pos, m) == uci {
			return m
		}
	}
	return nil
}

func describe(pos *chess.Position, m *chess.Move) *MoveInfo {
	b := pos.Board()
	moved := b.Piece(m.S1())

	info := &MoveInfo{
		SAN:   algebraic.Encode(pos, m),
		UCI:   longUCI.Encode(pos, m),
		From:  m.S1().String(),
		To:    m.S2().String(),
		Color: toColor(moved.Color()),
		Piece: pieceName(moved.Type()),
		Check: m.HasTag(chess.Check),
	}

	if m.HasTag(chess.EnPassant) {
		info.Captured = pieceName(chess.Pawn)
	} else if m.HasTag(chess.Capture) {
		info.Captured = pieceName(b.Piece(m.S2()).Type())
	}
	if m.Promo() != chess.NoPieceType {
		info.Promotion = pieceName(m.Promo())
	}
	return info
}

func (n *Notnil) Reset() {
	n.live()
	g, err := n.newGame()
	if err != nil {
		// startFEN was validated at construction
		panic(err)
	}
	n.game = g
}

// Undo replays every move but the last from the starting position
func (n *Notnil) Undo() {
	moves := n.live().Moves()
	if len(moves) == 0 {
		return
	}

	g, err := n.newGame()
	if err != nil {
		panic(err)
	}
	for i, m := range moves[:len(moves)-1] {
		if err := g.Move(m); err != nil {
			panic(fmt.Errorf("notnil engine: replay of move %d (%s) failed: %w", i+1, m, err))
		}
	}
	n.game = g
}

func (n *Notnil) History() []string {
	g := n.live()
	moves := g.Moves()
	positions := g.Positions()

	history := make([]string, len(moves))
	for i, m := range moves {
		history[i] = algebraic.Encode(positions[i], m)
	}
	return history
}

func (n *Notnil) FEN() string {
	return n.live().FEN()
}

func (n *Notnil) Turn() core.Color {
	return toColor(n.live().Position().Turn())
}

func (n *Notnil) IsGameOver() bool {
	return n.InCheckmate() || n.InDraw()
}

// InCheck reports whether the side to move is in check
func (n *Notnil) InCheck() bool {
	pos := n.live().Position()
	return inCheck(pos.Board(), pos.Turn())
}

func (n *Notnil) InCheckmate() bool {
	return n.live().Position().Status() == chess.Checkmate
}

func (n *Notnil) InDraw() bool {
	g := n.live()
	if g.Outcome() == chess.Draw {
		return true
	}
	if n.InStalemate() || n.InsufficientMaterial() {
		return true
	}
	for _, method := range g.EligibleDraws() {
		if method == chess.ThreefoldRepetition || method == chess.FiftyMoveRule {
			return true
		}
	}
	return false
}

func (n *Notnil) InStalemate() bool {
	return n.live().Position().Status() == chess.Stalemate
}

func (n *Notnil) InThreefoldRepetition() bool {
	g := n.live()
	if g.Method() == chess.FivefoldRepetition {
		return true
	}
	for _, method := range g.EligibleDraws() {
		if method == chess.ThreefoldRepetition {
			return true
		}
	}
	return false
}

func (n *Notnil) InsufficientMaterial() bool {
	return n.live().Method() == chess.InsufficientMaterial
}

// Dispose drops the wrapped game; any later call panics
func (n *Notnil) Dispose() error {
	if n.released {
		return nil
	}
	n.released = true
	n.game = nil
	return nil
}

func toColor(c chess.Color) core.Color {
	if c == chess.Black {
		return core.ColorBlack
	}
	return core.ColorWhite
}

func pieceName(t chess.PieceType) string {
	switch t {
	case chess.King:
		return "k"
	case chess.Queen:
		return "q"
	case chess.Rook:
		return "r"
	case chess.Bishop:
		return "b"
	case chess.Knight:
		return "n"
	case chess.Pawn:
		return "p"
	default:
		return ""
	}
}
