// FILE: internal/core/flags.go
package core

import "strings"

// Flag is a single terminal condition reported by the engine
type Flag uint8

// Declaration order is the order in which callbacks fire
const (
	FlagGameOver Flag = iota
	FlagCheck
	FlagCheckmate
	FlagDraw
	FlagStalemate
	FlagThreefoldRepetition
	FlagInsufficientMaterial

	numFlags
)

var allFlags = [...]Flag{
	FlagGameOver,
	FlagCheck,
	FlagCheckmate,
	FlagDraw,
	FlagStalemate,
	FlagThreefoldRepetition,
	FlagInsufficientMaterial,
}

// AllFlags returns every flag in evaluation order
func AllFlags() []Flag {
	out := make([]Flag, len(allFlags))
	copy(out, allFlags[:])
	return out
}

func (f Flag) String() string {
	switch f {
	case FlagGameOver:
		return "game_over"
	case FlagCheck:
		return "check"
	case FlagCheckmate:
		return "checkmate"
	case FlagDraw:
		return "draw"
	case FlagStalemate:
		return "stalemate"
	case FlagThreefoldRepetition:
		return "threefold_repetition"
	case FlagInsufficientMaterial:
		return "insufficient_material"
	default:
		return "unknown"
	}
}

// Flags is an immutable set of terminal conditions
type Flags uint8

func (fs Flags) Has(f Flag) bool {
	if f >= numFlags {
		return false
	}
	return fs&(1<<f) != 0
}

// With returns a copy of the set including f
func (fs Flags) With(f Flag) Flags {
	if f >= numFlags {
		return fs
	}
	return fs | (1 << f)
}

func (fs Flags) Empty() bool {
	return fs == 0
}

// List returns the members in evaluation order
func (fs Flags) List() []Flag {
	var out []Flag
	for _, f := range allFlags {
		if fs.Has(f) {
			out = append(out, f)
		}
	}
	return out
}

func (fs Flags) String() string {
	if fs.Empty() {
		return "-"
	}
	list := fs.List()
	names := make([]string, len(list))
	for i, f := range list {
		names[i] = f.String()
	}
	return strings.Join(names, ",")
}
