// FILE: internal/cli/cli.go
package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"chessbind/internal/board"
	"chessbind/internal/session"

	"github.com/fatih/color"
	"golang.org/x/term"
)

type ColorTheme string

const (
	ThemeOff   ColorTheme = "off"
	ThemeBrown ColorTheme = "brown"
	ThemeGreen ColorTheme = "green"
	ThemeGray  ColorTheme = "gray"
)

type themeColors struct {
	lightBg string
	darkBg  string
	white   string
	black   string
	reset   string
}

var themes = map[ColorTheme]themeColors{
	ThemeOff: {},
	ThemeBrown: {
		lightBg: "\033[48;5;230m", // Beige
		darkBg:  "\033[48;5;94m",  // Brown
		white:   "\033[97m",
		black:   "\033[30m",
		reset:   "\033[0m",
	},
	ThemeGreen: {
		lightBg: "\033[48;5;157m",
		darkBg:  "\033[48;5;22m",
		white:   "\033[97m",
		black:   "\033[30m",
		reset:   "\033[0m",
	},
	ThemeGray: {
		lightBg: "\033[48;5;251m",
		darkBg:  "\033[48;5;240m",
		white:   "\033[97m",
		black:   "\033[30m",
		reset:   "\033[0m",
	},
}

// CLI renders session state and messages to a terminal
type CLI struct {
	output io.Writer
	theme  ColorTheme

	info  *color.Color
	warn  *color.Color
	fail  *color.Color
	alert *color.Color
}

func New(output io.Writer) *CLI {
	c := &CLI{
		output: output,
		theme:  ThemeOff,
		info:   color.New(color.FgCyan),
		warn:   color.New(color.FgYellow),
		fail:   color.New(color.FgRed),
		alert:  color.New(color.FgMagenta, color.Bold),
	}
	c.SetColor(IsTerminal(output))
	return c
}

// SetColor toggles colored messages. Board themes are not affected.
func (c *CLI) SetColor(enabled bool) {
	for _, col := range []*color.Color{c.info, c.warn, c.fail, c.alert} {
		if enabled {
			col.EnableColor()
		} else {
			col.DisableColor()
		}
	}
}

// IsTerminal reports whether w is a file attached to a terminal
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func ParseTheme(name string) (ColorTheme, error) {
	theme := ColorTheme(strings.ToLower(name))
	if _, ok := themes[theme]; !ok {
		return "", fmt.Errorf("invalid theme: %s (use: off, brown, green, gray)", name)
	}
	return theme, nil
}

func (c *CLI) SetTheme(theme ColorTheme) error {
	if _, ok := themes[theme]; !ok {
		return fmt.Errorf("invalid theme: %s (use: off, brown, green, gray)", theme)
	}
	c.theme = theme
	return nil
}

func (c *CLI) Theme() ColorTheme {
	return c.theme
}

func (c *CLI) ShowMessage(msg string) {
	fmt.Fprintln(c.output, msg)
}

func (c *CLI) ShowInfo(msg string) {
	fmt.Fprintln(c.output, c.info.Sprint(msg))
}

func (c *CLI) ShowWarning(msg string) {
	fmt.Fprintln(c.output, c.warn.Sprint(msg))
}

// ShowAlert highlights terminal conditions (check, mate, draws)
func (c *CLI) ShowAlert(msg string) {
	fmt.Fprintln(c.output, c.alert.Sprint(msg))
}

func (c *CLI) ShowError(err error) {
	fmt.Fprintln(c.output, c.fail.Sprintf("Error: %v", err))
}

func (c *CLI) DisplayBoard(b *board.Board) {
	theme := themes[c.theme]
	var sb strings.Builder

	sb.WriteString("\n  a b c d e f g h\n")

	for r := 0; r < 8; r++ {
		sb.WriteString(fmt.Sprintf("%d ", 8-r))
		for f := 0; f < 8; f++ {
			piece := b.PieceAt(board.Square(r, f))

			if c.theme == ThemeOff {
				if piece == 0 {
					sb.WriteString(". ")
				} else {
					sb.WriteString(fmt.Sprintf("%c ", piece))
				}
				continue
			}

			bg := theme.darkBg
			if board.IsLight(r, f) {
				bg = theme.lightBg
			}
			if piece == 0 {
				sb.WriteString(fmt.Sprintf("%s  %s", bg, theme.reset))
			} else {
				fg := theme.black
				if board.IsWhite(piece) {
					fg = theme.white
				}
				sb.WriteString(fmt.Sprintf("%s%s%c %s", bg, fg, piece, theme.reset))
			}
		}
		sb.WriteString(fmt.Sprintf(" %d\n", 8-r))
	}
	sb.WriteString("  a b c d e f g h\n")

	c.ShowMessage(sb.String())
}

// DisplaySnapshot draws the board of the published position followed by the
// status line
func (c *CLI) DisplaySnapshot(snap session.Snapshot) {
	b, err := board.ParseFEN(snap.Position())
	if err != nil {
		c.ShowError(err)
		return
	}
	c.DisplayBoard(b)
	c.ShowStatus(snap)
}

func (c *CLI) ShowStatus(snap session.Snapshot) {
	status := fmt.Sprintf("%s to move", snap.Turn().Name())
	if last := snap.LastMove(); last != "" {
		status = fmt.Sprintf("Last move: %s | %s", last, status)
	}
	if !snap.Flags().Empty() {
		status += " | " + snap.Flags().String()
	}
	c.ShowInfo(status)
}

// ShowHistory lists moves as numbered white/black pairs
func (c *CLI) ShowHistory(snap session.Snapshot) {
	moves := snap.History()
	if len(moves) == 0 {
		c.ShowMessage("No moves yet.")
		return
	}

	for i := 0; i < len(moves); i += 2 {
		moveNum := i/2 + 1
		if i+1 < len(moves) {
			c.ShowMessage(fmt.Sprintf("%d. %s | %s", moveNum, moves[i], moves[i+1]))
		} else {
			c.ShowMessage(fmt.Sprintf("%d. %s | ...", moveNum, moves[i]))
		}
	}
	c.ShowMessage(fmt.Sprintf("Current FEN: %s", snap.Position()))
}

func (c *CLI) ShowWelcome() {
	c.ShowMessage("Welcome to Chess!")
	c.ShowMessage("Type a move (e4, Nf3, O-O or e2e4) or 'help' for commands.")
	c.ShowMessage("Example: 'new 4k3/8/8/8/8/8/8/4K2R w K - 0 1' to start from a puzzle.")
	c.ShowMessage("")
}
