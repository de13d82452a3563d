package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shortlisthq/shortlist/internal/logger"
	"github.com/shortlisthq/shortlist/internal/store"
)

var seedConfigPath string

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the store with demo data",
	Long:  `Create a demo client on the free tier with one unclaimed job, for local development and smoke testing.`,
	RunE:  runSeed,
}

func init() {
	seedCmd.Flags().StringVar(&seedConfigPath, "config", "", "Path to a JSON config file")
	rootCmd.AddCommand(seedCmd)
}

func runSeed(_ *cobra.Command, _ []string) error {
	serveConfigPath = seedConfigPath
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	log, err := logger.New(cfg.JSONLogs, cfg.Debug)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	ctx := context.Background()
	backend, err := openBackend(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to open store backend: %w", err)
	}
	defer func() { _ = backend.Close() }()

	st, err := store.New(ctx, backend, log)
	if err != nil {
		return fmt.Errorf("failed to initialize store: %w", err)
	}

	freeTier, ok := st.TierByName(store.TierFree)
	if !ok {
		return fmt.Errorf("free tier missing from store")
	}

	client := store.DemoClient(freeTier)
	st.CreateClient(ctx, client)

	job := store.DemoJob(client.ID)
	st.CreateJob(ctx, job)

	fmt.Printf("Seeded demo client %s (%s)\n", client.CompanyName, client.ID)
	fmt.Printf("Seeded demo job %q (%s)\n", job.Title, job.ID)
	return nil
}
