// FILE: cmd/chess/main.go
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"chessbind/internal/cli"
	"chessbind/internal/config"
	"chessbind/internal/logger"
	"chessbind/internal/service"
	clitransport "chessbind/internal/transport/cli"

	"github.com/chzyer/readline"
)

func main() {
	cfg, err := config.Load("chess", os.Args[1:], os.Stderr)
	if errors.Is(err, flag.ErrHelp) {
		os.Exit(0)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to start: %v\n", err)
		os.Exit(1)
	}

	logOut, closeLog, err := openLog(cfg.LogFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open log: %v\n", err)
		os.Exit(1)
	}
	defer closeLog()
	log := logger.Init(cfg.LogLevel, cfg.LogJSON, logOut)

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "chess> ",
		HistoryFile:     cfg.HistoryFile,
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to start: %v\n", err)
		os.Exit(1)
	}
	defer rl.Close()

	svc := service.New(service.WithLogger(log))
	defer func() {
		if err := svc.Shutdown(); err != nil {
			log.Error("shutdown failed", "error", err)
		}
	}()

	view := cli.New(rl.Stdout())
	view.SetColor(cli.IsTerminal(os.Stdout))
	theme, err := cli.ParseTheme(cfg.Theme)
	if err == nil {
		err = view.SetTheme(theme)
	}
	if err != nil {
		view.ShowError(err)
	}

	handler := clitransport.New(svc, view,
		clitransport.WithStartFEN(cfg.StartFEN),
		clitransport.WithThemeSetter(view.SetTheme),
		clitransport.WithLogger(log),
	)

	view.ShowWelcome()
	handler.ProcessLine("new")
	handler.Run(rl)
}

// openLog returns the log destination; without a path logs go to stderr
func openLog(path string) (io.Writer, func(), error) {
	if path == "" {
		return os.Stderr, func() {}, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, err
	}
	return f, func() { f.Close() }, nil
}
