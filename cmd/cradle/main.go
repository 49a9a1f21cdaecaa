package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/tailored-agentic-units/cradle/chat"
	"github.com/tailored-agentic-units/cradle/observability"
)

// closeTimeout bounds the wait for an abandoned turn and pending saves on exit.
const closeTimeout = 5 * time.Second

func main() {
	var (
		configFile = flag.String("config", "", "Path to JSON or YAML config file (optional)")
		dataDir    = flag.String("data", "", "Path to history directory (overrides config)")
		backend    = flag.String("backend", "", "History backend: file, sqlite or memory (overrides config)")
		model      = flag.String("model", "", "Completion model (overrides config)")
		logFile    = flag.String("log", "", "Log file (default: cradle.log in the history directory)")
		verbose    = flag.Bool("verbose", false, "Enable verbose logging")
	)
	flag.Parse()

	cfg := chat.DefaultConfig()
	if *configFile != "" {
		loaded, err := chat.LoadConfig(*configFile)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
		cfg = *loaded
	}

	if *dataDir != "" {
		cfg.Memory.Path = *dataDir
	}
	if *backend != "" {
		cfg.Memory.Backend = *backend
	}
	if *model != "" {
		cfg.Agent.Model = *model
	}

	// The terminal belongs to the UI, so logs go to a file.
	path := *logFile
	if path == "" {
		path = filepath.Join(cfg.Memory.Path, "cradle.log")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		log.Fatalf("Failed to create log directory: %v", err)
	}
	out, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		log.Fatalf("Failed to open log file: %v", err)
	}
	defer out.Close()

	level := slog.LevelInfo
	zlevel := zerolog.InfoLevel
	if *verbose {
		level = slog.LevelDebug
		zlevel = zerolog.DebugLevel
	}
	observability.RegisterObserver("slog", observability.NewSlogObserver(
		slog.New(slog.NewTextHandler(out, &slog.HandlerOptions{Level: level})),
	))
	observability.RegisterObserver("zerolog", observability.NewZerologObserver(
		zerolog.New(out).Level(zlevel),
	))

	logObs, err := observability.GetObserver(cfg.Observer)
	if err != nil {
		log.Fatalf("Failed to resolve observer: %v", err)
	}

	status := &statusObserver{}
	ctrl, err := chat.New(&cfg, chat.WithObserver(observability.NewMultiObserver(logObs, status)))
	if err != nil {
		log.Fatalf("Failed to create chat controller: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := ctrl.Load(ctx); err != nil {
		log.Fatalf("Failed to load history: %v", err)
	}

	m := newModel(ctx, ctrl)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	status.attach(p.Send)

	_, runErr := p.Run()
	m.cancel()

	closeCtx, cancel := context.WithTimeout(context.Background(), closeTimeout)
	defer cancel()
	if err := ctrl.Close(closeCtx); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to close chat controller: %v\n", err)
	}
	if runErr != nil && ctx.Err() == nil {
		log.Fatalf("UI failed: %v", runErr)
	}
}
