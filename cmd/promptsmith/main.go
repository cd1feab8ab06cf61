package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/esnunes/promptsmith/internal/config"
	"github.com/esnunes/promptsmith/internal/db"
	"github.com/esnunes/promptsmith/internal/llm"
	"github.com/esnunes/promptsmith/internal/logger"
	"github.com/esnunes/promptsmith/internal/metrics"
	"github.com/esnunes/promptsmith/internal/revision"
	"github.com/esnunes/promptsmith/internal/server"
	"github.com/esnunes/promptsmith/internal/tui"
	"github.com/esnunes/promptsmith/internal/workflow"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	backendFlag := flag.String("backend", "", "model backend: anthropic or openai (overrides PROMPTSMITH_BACKEND)")
	dbFlag := flag.String("db", "", "path to the SQLite database (overrides PROMPTSMITH_DB)")
	httpFlag := flag.String("http", "", "address for the read-only HTTP server (overrides PROMPTSMITH_HTTP_ADDR)")
	schemaFlag := flag.Bool("schema", false, "print the storage schema and exit")
	flag.Parse()

	if *schemaFlag {
		fmt.Print(db.SchemaDescription())
		return nil
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if *backendFlag != "" {
		cfg.Backend = strings.ToLower(*backendFlag)
	}
	if *dbFlag != "" {
		cfg.DBPath = *dbFlag
	}
	if *httpFlag != "" {
		cfg.HTTPAddr = *httpFlag
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logPath, err := cfg.LogPath()
	if err != nil {
		return err
	}
	logFile, err := logger.OpenFile(logPath)
	if err != nil {
		return fmt.Errorf("opening log file: %w", err)
	}
	defer logFile.Close()
	log := logger.New(logger.Config{Level: cfg.LogLevel, Output: logFile})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbPath := cfg.DBPath
	if dbPath == "" {
		if dbPath, err = db.DBPath(); err != nil {
			return err
		}
	}
	database, err := db.Open(dbPath)
	if err != nil {
		return err
	}
	defer database.Close()
	queries := db.NewQueries(database)

	backend, err := llm.New(backendSettings(cfg))
	if err != nil {
		return fmt.Errorf("creating model backend: %w", err)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	log.Info().
		Str("backend", backend.Name()).
		Str("db", dbPath).
		Str("http", cfg.HTTPAddr).
		Msg("starting promptsmith")

	engine := revision.New(queries, backend, logger.Component(log, "revision"), m)
	ctrl := workflow.New(engine, logger.Component(log, "workflow"))

	return runUI(ctx, cfg, log, queries, backend, reg, ctrl)
}

// runUI runs the terminal UI and, when configured, the HTTP server. Quitting
// the UI stops the server.
func runUI(ctx context.Context, cfg *config.Config, log zerolog.Logger, queries *db.Queries, backend llm.Backend, reg *prometheus.Registry, ctrl *workflow.Controller) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, ctx := errgroup.WithContext(ctx)

	if cfg.HTTPAddr != "" {
		srv := server.New(queries, backend, reg, logger.Component(log, "server"))
		if err := srv.Listen(cfg.HTTPAddr); err != nil {
			return err
		}
		g.Go(func() error { return srv.Serve(ctx) })
	}

	g.Go(func() error {
		defer cancel()
		return tui.Run(ctx, ctrl, backend.Name())
	})
	return g.Wait()
}

func backendSettings(cfg *config.Config) llm.Settings {
	s := llm.Settings{
		Kind:         llm.Kind(cfg.Backend),
		Language:     cfg.Language,
		ProbeTimeout: cfg.ProbeTimeout,
	}
	switch s.Kind {
	case llm.KindOpenAI:
		s.APIKey = cfg.OpenAIAPIKey
		s.Model = cfg.OpenAIModel
		s.BaseURL = cfg.OpenAIBaseURL
	default:
		s.APIKey = cfg.AnthropicAPIKey
		s.Model = cfg.AnthropicModel
		s.BaseURL = cfg.AnthropicBaseURL
	}
	return s
}
