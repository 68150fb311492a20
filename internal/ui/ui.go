// FILE: internal/ui/ui.go
package ui

import (
	"fmt"
	"strings"

	"chessbind/internal/board"
	"chessbind/internal/core"
	"chessbind/internal/engine"
	"chessbind/internal/session"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
)

// Palette holds the square colors of a board theme
type Palette struct {
	Light tcell.Color
	Dark  tcell.Color
	White tcell.Color
	Black tcell.Color
}

var palettes = map[string]Palette{
	"brown": {Light: tcell.NewRGBColor(240, 217, 181), Dark: tcell.NewRGBColor(181, 136, 99), White: tcell.ColorWhite, Black: tcell.ColorBlack},
	"green": {Light: tcell.NewRGBColor(238, 238, 210), Dark: tcell.NewRGBColor(118, 150, 86), White: tcell.ColorWhite, Black: tcell.ColorBlack},
	"gray":  {Light: tcell.NewRGBColor(200, 200, 200), Dark: tcell.NewRGBColor(120, 120, 120), White: tcell.ColorWhite, Black: tcell.ColorBlack},
}

// PaletteFor maps a theme name to its palette; unknown names and "off" get brown
func PaletteFor(theme string) Palette {
	if p, ok := palettes[theme]; ok {
		return p
	}
	return palettes["brown"]
}

// BoardView is a terminal UI bound to one session. It redraws on every
// published snapshot and reports callbacks on its status line. All methods
// must run on the tview event goroutine.
type BoardView struct {
	sess    *session.Session
	palette Palette
	onQuit  func()

	board   *tview.Table
	history *tview.TextView
	status  *tview.TextView
	input   *tview.InputField
	root    *tview.Flex

	message     string
	unsubscribe func()
}

type Option func(*BoardView)

func WithPalette(p Palette) Option {
	return func(v *BoardView) {
		v.palette = p
	}
}

// WithQuit is called when the user enters "quit"
func WithQuit(fn func()) Option {
	return func(v *BoardView) {
		v.onQuit = fn
	}
}

func NewBoardView(sess *session.Session, opts ...Option) *BoardView {
	v := &BoardView{
		sess:    sess,
		palette: palettes["brown"],
	}
	for _, opt := range opts {
		opt(v)
	}

	v.board = tview.NewTable()
	v.board.SetBorder(true).SetTitle(" " + sess.Label() + " ")

	v.history = tview.NewTextView().SetDynamicColors(true)
	v.history.SetBorder(true).SetTitle(" Moves ")

	v.status = tview.NewTextView().SetDynamicColors(true)

	v.input = tview.NewInputField().
		SetLabel("Move: ").
		SetFieldWidth(12)
	v.input.SetDoneFunc(func(key tcell.Key) {
		if key != tcell.KeyEnter {
			return
		}
		text := v.input.GetText()
		v.input.SetText("")
		v.Submit(text)
	})

	top := tview.NewFlex().
		AddItem(v.board, 22, 0, false).
		AddItem(v.history, 0, 1, false)

	v.root = tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(top, 11, 0, false).
		AddItem(v.status, 1, 0, false).
		AddItem(v.input, 1, 0, true)

	sess.SetCallbacks(v.callbacks())
	v.unsubscribe = sess.Subscribe(v.render)
	v.render(sess.Snapshot())
	return v
}

func (v *BoardView) Root() tview.Primitive {
	return v.root
}

func (v *BoardView) Input() *tview.InputField {
	return v.input
}

// Submit handles one line from the input field: "undo", "reset", "quit", or a move
func (v *BoardView) Submit(text string) {
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}

	var err error
	switch strings.ToLower(text) {
	case "undo":
		v.message = ""
		err = v.sess.Undo()
	case "reset":
		v.message = ""
		err = v.sess.Reset()
	case "quit", "exit":
		if v.onQuit != nil {
			v.onQuit()
		}
		return
	default:
		v.message = ""
		err = v.sess.Move(text)
	}

	if err != nil {
		v.message = fmt.Sprintf("[red]Error: %s[-]", tview.Escape(err.Error()))
	}
	v.render(v.sess.Snapshot())
}

// Close detaches the view from its session
func (v *BoardView) Close() {
	if v.unsubscribe != nil {
		v.unsubscribe()
		v.unsubscribe = nil
	}
	v.sess.SetCallbacks(session.Callbacks{})
}

func (v *BoardView) note(msg string) {
	if v.message != "" {
		v.message += " "
	}
	v.message += msg
}

func (v *BoardView) callbacks() session.Callbacks {
	return session.Callbacks{
		OnLegalMove: func(m *engine.MoveInfo) {
			v.note(fmt.Sprintf("[green]%s[-]", tview.Escape(m.String())))
		},
		OnIllegalMove: func(input string) {
			v.note(fmt.Sprintf("[red]Illegal move: %s[-]", tview.Escape(input)))
		},
		OnCheck: func() {
			if !v.sess.Flags().Has(core.FlagCheckmate) {
				v.note("[yellow]Check![-]")
			}
		},
		OnCheckmate: func() {
			v.note(fmt.Sprintf("[yellow]Checkmate! %s wins.[-]", v.sess.Turn().Opposite().Name()))
		},
		OnStalemate:            func() { v.note("[yellow]Stalemate.[-]") },
		OnThreefoldRepetition:  func() { v.note("[yellow]Threefold repetition.[-]") },
		OnInsufficientMaterial: func() { v.note("[yellow]Insufficient material.[-]") },
		OnDraw:                 func() { v.note("[yellow]Draw.[-]") },
		OnGameOver:             func() { v.note("Game over.") },
	}
}

func (v *BoardView) render(snap session.Snapshot) {
	v.renderBoard(snap)
	v.renderHistory(snap)

	status := fmt.Sprintf("%s to move", snap.Turn().Name())
	if v.message != "" {
		status += " | " + v.message
	}
	v.status.SetText(status)
}

func (v *BoardView) renderBoard(snap session.Snapshot) {
	b, err := board.ParseFEN(snap.Position())
	if err != nil {
		v.message = fmt.Sprintf("[red]%s[-]", tview.Escape(err.Error()))
		return
	}

	for r := 0; r < 8; r++ {
		v.board.SetCell(r, 0, tview.NewTableCell(fmt.Sprintf("%d", 8-r)))
		for f := 0; f < 8; f++ {
			bg := v.palette.Dark
			if board.IsLight(r, f) {
				bg = v.palette.Light
			}
			text := "  "
			fg := v.palette.Black
			sq := board.Square(r, f)
			if glyph := b.GlyphAt(sq); glyph != "" {
				text = glyph + " "
				if board.IsWhite(b.PieceAt(sq)) {
					fg = v.palette.White
				}
			}
			v.board.SetCell(r, f+1, tview.NewTableCell(text).
				SetAlign(tview.AlignCenter).
				SetBackgroundColor(bg).
				SetTextColor(fg))
		}
	}
	for f := 0; f < 8; f++ {
		v.board.SetCell(8, f+1, tview.NewTableCell(string(rune('a'+f))).SetAlign(tview.AlignCenter))
	}
}

func (v *BoardView) renderHistory(snap session.Snapshot) {
	moves := snap.History()
	var sb strings.Builder
	for i := 0; i < len(moves); i += 2 {
		fmt.Fprintf(&sb, "%d. %s", i/2+1, moves[i])
		if i+1 < len(moves) {
			fmt.Fprintf(&sb, " %s", moves[i+1])
		}
		sb.WriteString("\n")
	}
	v.history.SetText(sb.String())
	v.history.ScrollToEnd()
}
