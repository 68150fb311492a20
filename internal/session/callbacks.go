// FILE: internal/session/callbacks.go
package session

import (
	"chessbind/internal/core"
	"chessbind/internal/engine"
)

// Callbacks are the optional notifications a consuming unit registers.
// A nil field means "do not notify".
type Callbacks struct {
	// OnLegalMove receives the engine's canonical descriptor of the move
	OnLegalMove func(move *engine.MoveInfo)
	// OnIllegalMove receives the input exactly as it was submitted
	OnIllegalMove func(input string)

	OnGameOver             func()
	OnCheck                func()
	OnCheckmate            func()
	OnDraw                 func()
	OnStalemate            func()
	OnThreefoldRepetition  func()
	OnInsufficientMaterial func()
}

// terminal returns the callback registered for f, or nil
func (cb Callbacks) terminal(f core.Flag) func() {
	switch f {
	case core.FlagGameOver:
		return cb.OnGameOver
	case core.FlagCheck:
		return cb.OnCheck
	case core.FlagCheckmate:
		return cb.OnCheckmate
	case core.FlagDraw:
		return cb.OnDraw
	case core.FlagStalemate:
		return cb.OnStalemate
	case core.FlagThreefoldRepetition:
		return cb.OnThreefoldRepetition
	case core.FlagInsufficientMaterial:
		return cb.OnInsufficientMaterial
	default:
		return nil
	}
}
