// FILE: internal/session/handle.go
package session

import (
	"fmt"

	"chessbind/internal/core"
	"chessbind/internal/engine"
)

// Handle owns the single engine instance of one consuming unit. The engine is
// built on the first Acquire and disposed on Release.
type Handle struct {
	factory  engine.Factory
	eng      engine.Engine
	released bool
}

func NewHandle(factory engine.Factory) *Handle {
	return &Handle{factory: factory}
}

// Acquire returns the engine, constructing it on first use. A construction
// error is returned unchanged and the slot stays empty.
func (h *Handle) Acquire() (engine.Engine, error) {
	if h.released {
		return nil, core.ErrReleased
	}
	if h.eng != nil {
		return h.eng, nil
	}
	if h.factory == nil {
		return nil, core.NewError(core.ErrCodeEngine, "no engine factory configured", nil)
	}

	eng, err := h.factory()
	if err != nil {
		return nil, err
	}
	if eng == nil {
		return nil, core.NewError(core.ErrCodeEngine, "engine factory returned nil", nil)
	}
	h.eng = eng
	return eng, nil
}

// Acquired reports whether the engine has been constructed and not released
func (h *Handle) Acquired() bool {
	return h.eng != nil && !h.released
}

// Release disposes the engine once. Later calls are no-ops.
func (h *Handle) Release() error {
	if h.released {
		return nil
	}
	h.released = true

	eng := h.eng
	h.eng = nil
	if d, ok := eng.(engine.Disposer); ok {
		if err := d.Dispose(); err != nil {
			return fmt.Errorf("dispose engine: %w", err)
		}
	}
	return nil
}

// Mutate forwards one command to the engine. For CmdMove the engine's move
// descriptor and acceptance are returned; reset and undo always succeed.
func (h *Handle) Mutate(kind CommandType, payload string) (*engine.MoveInfo, bool, error) {
	eng, err := h.Acquire()
	if err != nil {
		return nil, false, err
	}

	switch kind {
	case CmdMove:
		info, ok := eng.Move(payload)
		return info, ok, nil
	case CmdReset:
		eng.Reset()
		return nil, true, nil
	case CmdUndo:
		eng.Undo()
		return nil, true, nil
	default:
		return nil, false, core.NewError(core.ErrCodeUnknownCommand, fmt.Sprintf("unknown command type: %d", kind), nil)
	}
}
