// FILE: internal/session/snapshot.go
package session

import (
	"slices"

	"chessbind/internal/core"
	"chessbind/internal/engine"
)

// Snapshot is the derived view of an engine at one point in time. It is
// never modified after Project returns it.
type Snapshot struct {
	history  []string
	position string
	turn     core.Color
	flags    core.Flags
	seq      uint64
}

// Project reads all derived state from e in a single pass
func Project(e engine.Engine) Snapshot {
	return Snapshot{
		history:  slices.Clone(e.History()),
		position: e.FEN(),
		turn:     e.Turn(),
		flags:    engine.Flags(e),
	}
}

// History returns a copy of the move records in the order played
func (s Snapshot) History() []string {
	if s.history == nil {
		return []string{}
	}
	return slices.Clone(s.history)
}

func (s Snapshot) Len() int {
	return len(s.history)
}

// LastMove returns the most recent move record, or "" before any move
func (s Snapshot) LastMove() string {
	if len(s.history) == 0 {
		return ""
	}
	return s.history[len(s.history)-1]
}

// Position is the engine's native board serialization (FEN)
func (s Snapshot) Position() string {
	return s.position
}

func (s Snapshot) Turn() core.Color {
	return s.turn
}

func (s Snapshot) Flags() core.Flags {
	return s.flags
}

// Seq is the publication number within the owning session
func (s Snapshot) Seq() uint64 {
	return s.seq
}

// Equal compares content, ignoring the publication number
func (s Snapshot) Equal(o Snapshot) bool {
	return s.position == o.position &&
		s.turn == o.turn &&
		s.flags == o.flags &&
		slices.Equal(s.history, o.history)
}

func (s Snapshot) withSeq(seq uint64) Snapshot {
	s.seq = seq
	return s
}
