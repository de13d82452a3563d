package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/shortlisthq/shortlist/internal/config"
	"github.com/shortlisthq/shortlist/internal/ingestion"
	"github.com/shortlisthq/shortlist/internal/kv"
	"github.com/shortlisthq/shortlist/internal/logger"
	"github.com/shortlisthq/shortlist/internal/scoring"
	"github.com/shortlisthq/shortlist/internal/server"
	"github.com/shortlisthq/shortlist/internal/store"
	"github.com/shortlisthq/shortlist/internal/workflow"
)

var (
	servePort       int
	serveConfigPath string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long:  `Start an HTTP server that exposes the marketplace REST endpoints for clients, sourcers and admins.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (overrides config)")
	serveCmd.Flags().StringVar(&serveConfigPath, "config", "", "Path to a JSON config file")
	rootCmd.AddCommand(serveCmd)
}

func runServe(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if servePort != 0 {
		cfg.Port = servePort
	}

	log, err := logger.New(cfg.JSONLogs, cfg.Debug)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	svc, backend, err := buildService(context.Background(), cfg, log)
	if err != nil {
		return err
	}
	defer func() { _ = backend.Close() }()

	srv := server.New(server.Config{Port: cfg.Port}, svc, log)
	return srv.Start()
}

// loadConfig resolves the effective configuration: optional JSON file, then
// environment, then built-in defaults.
func loadConfig() (config.Config, error) {
	cfg := *config.FromEnv()

	if serveConfigPath != "" {
		fileCfg, err := config.Load(serveConfigPath)
		if err != nil {
			return config.Config{}, err
		}
		cfg = cfg.MergeWithDefaults(*fileCfg)
	}

	cfg = cfg.MergeWithDefaults(config.Defaults())
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

// buildService assembles the persistence backend, the scorer and the fetcher
// into a workflow service. The caller owns the returned backend's lifetime.
func buildService(ctx context.Context, cfg config.Config, log *zap.Logger) (*workflow.Service, kv.Store, error) {
	backend, err := openBackend(ctx, cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open store backend: %w", err)
	}

	st, err := store.New(ctx, backend, log)
	if err != nil {
		_ = backend.Close()
		return nil, nil, fmt.Errorf("failed to initialize store: %w", err)
	}

	var remote scoring.Scorer
	if cfg.GeminiAPIKey != "" {
		gemini, err := scoring.NewGeminiScorer(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			_ = backend.Close()
			return nil, nil, fmt.Errorf("failed to create scorer: %w", err)
		}
		remote = gemini
	} else {
		log.Warn("GEMINI_API_KEY not set, scoring uses the heuristic tier only")
	}
	scorer := scoring.NewTwoTier(remote, log)

	var fetcher ingestion.Fetcher
	if cfg.ScraperActorID != "" && cfg.ScraperToken != "" {
		fetcher = ingestion.NewClient(cfg.ScraperActorID, cfg.ScraperToken, log)
	} else {
		log.Warn("scraper credentials not set, using direct page fetching")
		fetcher = ingestion.NewDirectFetcher(cfg.UseBrowser, log)
	}

	return workflow.New(st, scorer, fetcher, log), backend, nil
}

func openBackend(ctx context.Context, cfg config.Config) (kv.Store, error) {
	switch cfg.StoreBackend {
	case config.BackendRedis:
		return kv.NewRedis(ctx, cfg.RedisURL)
	case config.BackendPostgres:
		return kv.NewPostgres(ctx, cfg.DatabaseURL)
	default:
		return kv.NewFile(cfg.DataDir)
	}
}
