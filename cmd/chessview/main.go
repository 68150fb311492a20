// FILE: cmd/chessview/main.go
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"chessbind/internal/config"
	"chessbind/internal/engine"
	"chessbind/internal/logger"
	"chessbind/internal/session"
	"chessbind/internal/ui"

	"github.com/rivo/tview"
)

func main() {
	cfg, err := config.Load("chessview", os.Args[1:], os.Stderr)
	if errors.Is(err, flag.ErrHelp) {
		os.Exit(0)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to start: %v\n", err)
		os.Exit(1)
	}

	// The terminal belongs to the UI, so logs go to a file or nowhere
	var logOut io.Writer = io.Discard
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to open log: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		logOut = f
	}
	log := logger.Init(cfg.LogLevel, cfg.LogJSON, logOut)

	sess, err := session.New(engine.NotnilFactory(engine.WithFEN(cfg.StartFEN)), session.WithLogger(log))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to start: %v\n", err)
		os.Exit(1)
	}
	defer sess.Close()

	app := tview.NewApplication()
	view := ui.NewBoardView(sess,
		ui.WithPalette(ui.PaletteFor(cfg.Theme)),
		ui.WithQuit(app.Stop),
	)
	defer view.Close()

	if err := app.SetRoot(view.Root(), true).SetFocus(view.Input()).Run(); err != nil {
		log.Error("ui stopped", "error", err)
		fmt.Fprintf(os.Stderr, "UI error: %v\n", err)
	}
}
