// FILE: internal/session/command.go
package session

import (
	"chessbind/internal/core"
	"chessbind/internal/engine"
)

// CommandType is the closed set of mutations a session accepts
type CommandType int

const (
	CmdMove CommandType = iota + 1
	CmdReset
	CmdUndo
)

func (t CommandType) String() string {
	switch t {
	case CmdMove:
		return "move"
	case CmdReset:
		return "reset"
	case CmdUndo:
		return "undo"
	default:
		return "unknown"
	}
}

// Command is one dispatched mutation. Input is only meaningful for CmdMove.
type Command struct {
	Type  CommandType
	Input string
}

// moveInputRule bounds what is forwarded to the engine at all
const moveInputRule = "required,max=16,printascii"

func NewMoveCommand(input string) Command {
	return Command{Type: CmdMove, Input: input}
}

func NewResetCommand() Command {
	return Command{Type: CmdReset}
}

func NewUndoCommand() Command {
	return Command{Type: CmdUndo}
}

// Result is the outcome of a dispatched command
type Result struct {
	Accepted bool
	Move     *engine.MoveInfo // accepted moves only
	Input    string           // original move input
	Fired    []core.Flag      // terminal conditions that held after the move
}
