package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sadopc/remindr/internal/config"
	"github.com/sadopc/remindr/internal/logging"
	"github.com/sadopc/remindr/internal/notify"
	"github.com/sadopc/remindr/internal/scheduler"
	"github.com/sadopc/remindr/internal/store"
	"github.com/sadopc/remindr/internal/tui"
	"github.com/sadopc/remindr/internal/weather"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "error loading config: %v\n", err)
		os.Exit(1)
	}

	logPath := cfg.LogPath
	if logPath == "" {
		logPath, err = logging.DefaultPath()
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
	}
	log, err := logging.New(logPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error opening log: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	dbPath := cfg.DatabasePath
	if dbPath == "" {
		dbPath, err = store.DefaultDBPath()
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
	}
	s, err := store.New(dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error opening database: %v\n", err)
		os.Exit(1)
	}
	defer s.Close()

	source := weather.NewClient(cfg.WeatherBaseURL, log)
	engine := scheduler.New(s, source, cfg.Location(),
		scheduler.WithLogger(log),
		scheduler.WithCoordinates(cfg.Latitude, cfg.Longitude),
		scheduler.WithFallbackWindow(scheduler.ParseWindow(store.NotificationWindow{
			Start: cfg.Window.Start,
			End:   cfg.Window.End,
		})),
	)

	notifier := notify.NewLogNotifier(log)

	app := tui.NewApp(s, engine, notifier, cfg.UserID)
	p := tea.NewProgram(app, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
