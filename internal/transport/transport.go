// FILE: internal/transport/transport.go
package transport

import (
	"chessbind/internal/session"
)

// View abstracts display/output operations of a text front end
type View interface {
	DisplaySnapshot(snap session.Snapshot)
	ShowHistory(snap session.Snapshot)
	ShowMessage(msg string)
	ShowInfo(msg string)
	ShowWarning(msg string)
	ShowAlert(msg string)
	ShowError(err error)
}

// LineReader supplies one line of user input per call. Readline returns
// io.EOF when input is exhausted.
type LineReader interface {
	Readline() (string, error)
	SetPrompt(prompt string)
}
