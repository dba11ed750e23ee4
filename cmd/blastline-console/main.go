package main

import (
	"flag"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/blastline/console/internal/api"
	"github.com/blastline/console/internal/app"
	"github.com/blastline/console/internal/config"
	"github.com/blastline/console/internal/logging"
	"github.com/blastline/console/internal/session"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	dir, err := config.Dir()
	if err != nil {
		return err
	}

	cfg, err := config.Load(dir)
	if err != nil {
		return err
	}

	apiURL := flag.String("api", cfg.APIURL, "REST base URL of the Blastline backend")
	wsURL := flag.String("ws", cfg.WSURL, "WebSocket URL of the Blastline event stream")
	flag.Parse()

	log, closeLog, err := logging.Setup(dir)
	if err != nil {
		return err
	}
	defer closeLog()

	client := api.NewClient(*apiURL, "")
	ws := api.NewWSClient(*wsURL, "", log)
	tokens := session.NewFileTokenStore(dir)
	store := session.NewStore(client, tokens, log)

	m := app.New(client, ws, store, log)
	p := tea.NewProgram(m, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
}
