// FILE: internal/transport/cli/handler.go
package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"

	"chessbind/internal/cli"
	"chessbind/internal/core"
	"chessbind/internal/engine"
	"chessbind/internal/service"
	"chessbind/internal/session"
	"chessbind/internal/transport"

	"github.com/chzyer/readline"
)

var errQuit = errors.New("quit")

// Command defines a REPL command with its handler
type Command struct {
	Name        string
	ShortName   string
	Description string
	Usage       string
	Handler     func(h *CLIHandler, args []string) error
}

// CLIHandler drives sessions from line input. All sessions are used from the
// goroutine running Run.
type CLIHandler struct {
	svc      *service.Service
	view     transport.View
	theme    func(cli.ColorTheme) error
	log      *slog.Logger
	startFEN string

	current  *session.Session
	commands map[string]*Command
	ordered  []*Command
}

type Option func(*CLIHandler)

// WithStartFEN sets the position used by 'new' without arguments
func WithStartFEN(fen string) Option {
	return func(h *CLIHandler) {
		h.startFEN = fen
	}
}

// WithThemeSetter enables the 'color' command
func WithThemeSetter(fn func(cli.ColorTheme) error) Option {
	return func(h *CLIHandler) {
		h.theme = fn
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(h *CLIHandler) {
		if l != nil {
			h.log = l
		}
	}
}

func New(svc *service.Service, view transport.View, opts ...Option) *CLIHandler {
	h := &CLIHandler{
		svc:      svc,
		view:     view,
		log:      slog.Default(),
		commands: make(map[string]*Command),
	}
	for _, opt := range opts {
		opt(h)
	}
	h.registerCommands()
	return h
}

func (h *CLIHandler) Register(cmd *Command) {
	h.commands[cmd.Name] = cmd
	if cmd.ShortName != "" {
		h.commands[cmd.ShortName] = cmd
	}
	h.ordered = append(h.ordered, cmd)
}

// Current returns the session commands are applied to, or nil
func (h *CLIHandler) Current() *session.Session {
	return h.current
}

// Run reads and executes lines until EOF or quit
func (h *CLIHandler) Run(in transport.LineReader) {
	for {
		in.SetPrompt(h.prompt())

		line, err := in.Readline()
		if err == io.EOF {
			return
		}
		if errors.Is(err, readline.ErrInterrupt) {
			continue
		}
		if err != nil {
			h.log.Error("read input failed", "error", err)
			return
		}

		if !h.ProcessLine(line) {
			return
		}
	}
}

func (h *CLIHandler) prompt() string {
	if h.current == nil {
		return "chess> "
	}
	return fmt.Sprintf("%s [%s]> ", h.current.Label(), h.current.Turn())
}

// ProcessLine executes one input line; false means the loop should exit.
// Input that is not a command name is submitted as a move.
func (h *CLIHandler) ProcessLine(line string) bool {
	parts := strings.Fields(line)
	if len(parts) == 0 {
		return true
	}

	name, args := parts[0], parts[1:]
	cmd, ok := h.commands[name]
	if !ok {
		cmd, args = h.commands["move"], parts
	}

	err := cmd.Handler(h, args)
	switch {
	case errors.Is(err, errQuit):
		return false
	case err != nil:
		h.view.ShowError(err)
	}
	return true
}

func (h *CLIHandler) registerCommands() {
	h.Register(&Command{
		Name:        "new",
		ShortName:   "n",
		Description: "Start a new game, optionally from a FEN position",
		Usage:       "new [FEN]",
		Handler:     (*CLIHandler).newHandler,
	})
	h.Register(&Command{
		Name:        "move",
		ShortName:   "m",
		Description: "Make a move in SAN or UCI (bare input also works)",
		Usage:       "move <e4|Nf3|O-O|e2e4>",
		Handler:     (*CLIHandler).moveHandler,
	})
	h.Register(&Command{
		Name:        "undo",
		ShortName:   "u",
		Description: "Take back the last move",
		Usage:       "undo",
		Handler:     (*CLIHandler).undoHandler,
	})
	h.Register(&Command{
		Name:        "reset",
		Description: "Return to the starting position",
		Usage:       "reset",
		Handler:     (*CLIHandler).resetHandler,
	})
	h.Register(&Command{
		Name:        "history",
		ShortName:   "h",
		Description: "Show move history",
		Usage:       "history",
		Handler:     (*CLIHandler).historyHandler,
	})
	h.Register(&Command{
		Name:        "board",
		ShortName:   "b",
		Description: "Redraw the board",
		Usage:       "board",
		Handler:     (*CLIHandler).boardHandler,
	})
	h.Register(&Command{
		Name:        "fen",
		Description: "Print the current position as FEN",
		Usage:       "fen",
		Handler:     (*CLIHandler).fenHandler,
	})
	h.Register(&Command{
		Name:        "sessions",
		ShortName:   "ls",
		Description: "List open games",
		Usage:       "sessions",
		Handler:     (*CLIHandler).sessionsHandler,
	})
	h.Register(&Command{
		Name:        "switch",
		ShortName:   "s",
		Description: "Switch to another open game by label or ID prefix",
		Usage:       "switch <label|id>",
		Handler:     (*CLIHandler).switchHandler,
	})
	h.Register(&Command{
		Name:        "close",
		Description: "Close the current game",
		Usage:       "close",
		Handler:     (*CLIHandler).closeHandler,
	})
	h.Register(&Command{
		Name:        "color",
		Description: "Set board color theme",
		Usage:       "color <off|brown|green|gray>",
		Handler:     (*CLIHandler).colorHandler,
	})
	h.Register(&Command{
		Name:        "help",
		ShortName:   "?",
		Description: "Show available commands",
		Usage:       "help [command]",
		Handler:     (*CLIHandler).helpHandler,
	})
	h.Register(&Command{
		Name:        "quit",
		ShortName:   "exit",
		Description: "Exit the program",
		Usage:       "quit",
		Handler:     func(*CLIHandler, []string) error { return errQuit },
	})
}

func (h *CLIHandler) active() (*session.Session, error) {
	if h.current == nil {
		return nil, errors.New("no active game, use 'new' to start one")
	}
	return h.current, nil
}

func (h *CLIHandler) newHandler(args []string) error {
	fen := h.startFEN
	if len(args) > 0 {
		fen = strings.Join(args, " ")
	}

	sess, err := h.svc.Open(fen)
	if err != nil {
		return err
	}
	h.attach(sess)
	h.current = sess

	h.view.ShowInfo(fmt.Sprintf("New game %s (%s)", sess.Label(), shortID(sess.ID())))
	h.view.DisplaySnapshot(sess.Snapshot())
	return nil
}

// attach wires the session's notifications to the view. Snapshots are drawn
// only while the session is the current one.
func (h *CLIHandler) attach(sess *session.Session) {
	sess.Subscribe(func(snap session.Snapshot) {
		if h.current == sess {
			h.view.DisplaySnapshot(snap)
		}
	})

	winner := func() string {
		return sess.Turn().Opposite().Name()
	}
	sess.SetCallbacks(session.Callbacks{
		OnLegalMove: func(m *engine.MoveInfo) {
			h.log.Debug("move played", "session", sess.ID(), "san", m.SAN, "uci", m.UCI)
		},
		OnIllegalMove: func(input string) {
			h.view.ShowWarning(fmt.Sprintf("Illegal move: %s", input))
		},
		OnCheck: func() {
			if !sess.Flags().Has(core.FlagCheckmate) {
				h.view.ShowAlert("Check!")
			}
		},
		OnCheckmate: func() {
			h.view.ShowAlert(fmt.Sprintf("Checkmate! %s wins.", winner()))
		},
		OnStalemate: func() {
			h.view.ShowAlert("Stalemate.")
		},
		OnThreefoldRepetition: func() {
			h.view.ShowAlert("Threefold repetition.")
		},
		OnInsufficientMaterial: func() {
			h.view.ShowAlert("Insufficient material.")
		},
		OnDraw: func() {
			h.view.ShowAlert("Draw.")
		},
		OnGameOver: func() {
			h.view.ShowMessage("Game over. Use 'undo', 'reset' or 'new'.")
		},
	})
}

func (h *CLIHandler) moveHandler(args []string) error {
	sess, err := h.active()
	if err != nil {
		return err
	}
	if len(args) != 1 {
		return errors.New("usage: move <move>")
	}
	return sess.Move(args[0])
}

func (h *CLIHandler) undoHandler(args []string) error {
	sess, err := h.active()
	if err != nil {
		return err
	}
	if sess.Snapshot().Len() == 0 {
		h.view.ShowMessage("Nothing to undo.")
		return nil
	}
	if err := sess.Undo(); err != nil {
		return err
	}
	h.view.ShowMessage("Move undone")
	return nil
}

func (h *CLIHandler) resetHandler(args []string) error {
	sess, err := h.active()
	if err != nil {
		return err
	}
	if err := sess.Reset(); err != nil {
		return err
	}
	h.view.ShowMessage("Game reset")
	return nil
}

func (h *CLIHandler) historyHandler(args []string) error {
	sess, err := h.active()
	if err != nil {
		return err
	}
	h.view.ShowHistory(sess.Snapshot())
	return nil
}

func (h *CLIHandler) boardHandler(args []string) error {
	sess, err := h.active()
	if err != nil {
		return err
	}
	h.view.DisplaySnapshot(sess.Snapshot())
	return nil
}

func (h *CLIHandler) fenHandler(args []string) error {
	sess, err := h.active()
	if err != nil {
		return err
	}
	h.view.ShowMessage(sess.Position())
	return nil
}

func (h *CLIHandler) sessionsHandler(args []string) error {
	ids := h.svc.IDs()
	if len(ids) == 0 {
		h.view.ShowMessage("No open games.")
		return nil
	}
	for _, id := range ids {
		sess, err := h.svc.Get(id)
		if err != nil {
			continue
		}
		marker := " "
		if sess == h.current {
			marker = "*"
		}
		h.view.ShowMessage(fmt.Sprintf("%s %s  %-24s %3d moves  %s to move",
			marker, shortID(id), sess.Label(), sess.Snapshot().Len(), sess.Turn().Name()))
	}
	return nil
}

// shortID trims generated IDs for display; shorter IDs are shown whole
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func (h *CLIHandler) switchHandler(args []string) error {
	if len(args) != 1 {
		return errors.New("usage: switch <label|id>")
	}
	sess, err := h.svc.Find(args[0])
	if err != nil {
		return err
	}
	h.current = sess
	h.view.ShowInfo(fmt.Sprintf("Switched to %s", sess.Label()))
	h.view.DisplaySnapshot(sess.Snapshot())
	return nil
}

func (h *CLIHandler) closeHandler(args []string) error {
	sess, err := h.active()
	if err != nil {
		return err
	}
	h.current = nil
	if err := h.svc.CloseSession(sess.ID()); err != nil {
		return err
	}
	h.view.ShowMessage(fmt.Sprintf("Closed %s", sess.Label()))
	return nil
}

func (h *CLIHandler) colorHandler(args []string) error {
	if h.theme == nil {
		return errors.New("color themes are not available")
	}
	if len(args) != 1 {
		return errors.New("usage: color <off|brown|green|gray>")
	}
	theme, err := cli.ParseTheme(args[0])
	if err != nil {
		return err
	}
	if err := h.theme(theme); err != nil {
		return err
	}
	h.view.ShowMessage(fmt.Sprintf("Color theme set to: %s", theme))
	if h.current != nil {
		h.view.DisplaySnapshot(h.current.Snapshot())
	}
	return nil
}

func (h *CLIHandler) helpHandler(args []string) error {
	if len(args) > 0 {
		cmd, ok := h.commands[args[0]]
		if !ok {
			return fmt.Errorf("unknown command: %s", args[0])
		}
		h.view.ShowMessage(fmt.Sprintf("%s - %s\nUsage: %s", cmd.Name, cmd.Description, cmd.Usage))
		return nil
	}

	cmds := make([]*Command, len(h.ordered))
	copy(cmds, h.ordered)
	sort.SliceStable(cmds, func(i, j int) bool { return cmds[i].Name < cmds[j].Name })

	var sb strings.Builder
	sb.WriteString("Commands:\n")
	for _, cmd := range cmds {
		name := cmd.Name
		if cmd.ShortName != "" {
			name += "/" + cmd.ShortName
		}
		sb.WriteString(fmt.Sprintf("  %-14s %-30s %s\n", name, cmd.Usage, cmd.Description))
	}
	h.view.ShowMessage(strings.TrimRight(sb.String(), "\n"))
	return nil
}
