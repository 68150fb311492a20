// FILE: internal/engine/engine.go
package engine

import (
	"chessbind/internal/core"
)

// Engine is the rules capability a session drives. Implementations own all
// chess logic; callers only move, reset, undo and read derived state.
type Engine interface {
	// Move applies input if legal. A rejected move returns (nil, false) and
	// leaves the engine untouched.
	Move(input string) (*MoveInfo, bool)
	Reset()
	// Undo takes back the last move; no-op on an empty history
	Undo()

	History() []string
	FEN() string
	Turn() core.Color

	IsGameOver() bool
	InCheck() bool
	InCheckmate() bool
	InDraw() bool
	InStalemate() bool
	InThreefoldRepetition() bool
	InsufficientMaterial() bool
}

// Disposer is implemented by engines that hold resources past their last use
type Disposer interface {
	Dispose() error
}

// Factory constructs a fresh engine for one consuming unit
type Factory func() (Engine, error)

// MoveInfo describes an accepted move in the engine's canonical terms
type MoveInfo struct {
	SAN       string     `json:"san"`
	UCI       string     `json:"uci"`
	From      string     `json:"from"`
	To        string     `json:"to"`
	Color     core.Color `json:"color"`
	Piece     string     `json:"piece"`
	Captured  string     `json:"captured,omitempty"`
	Promotion string     `json:"promotion,omitempty"`
	Check     bool       `json:"check,omitempty"`
}

func (m *MoveInfo) String() string {
	if m == nil {
		return ""
	}
	if m.SAN != "" {
		return m.SAN
	}
	return m.UCI
}

// Predicate evaluates the engine predicate backing flag f
func Predicate(e Engine, f core.Flag) bool {
	switch f {
	case core.FlagGameOver:
		return e.IsGameOver()
	case core.FlagCheck:
		return e.InCheck()
	case core.FlagCheckmate:
		return e.InCheckmate()
	case core.FlagDraw:
		return e.InDraw()
	case core.FlagStalemate:
		return e.InStalemate()
	case core.FlagThreefoldRepetition:
		return e.InThreefoldRepetition()
	case core.FlagInsufficientMaterial:
		return e.InsufficientMaterial()
	default:
		return false
	}
}

// Flags reads every terminal predicate into a set
func Flags(e Engine) core.Flags {
	var fs core.Flags
	for _, f := range core.AllFlags() {
		if Predicate(e, f) {
			fs = fs.With(f)
		}
	}
	return fs
}
