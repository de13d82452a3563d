package main

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/shortlisthq/shortlist/internal/ingestion"
	"github.com/shortlisthq/shortlist/internal/logger"
	"github.com/shortlisthq/shortlist/internal/scoring"
	"github.com/shortlisthq/shortlist/internal/store"
	"github.com/shortlisthq/shortlist/internal/workflow"
)

var statsConfigPath string

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print marketplace statistics",
	Long:  `Print a snapshot of clients, jobs and candidates, plus the sourcer leaderboard.`,
	RunE:  runStats,
}

func init() {
	statsCmd.Flags().StringVar(&statsConfigPath, "config", "", "Path to a JSON config file")
	rootCmd.AddCommand(statsCmd)
}

func runStats(_ *cobra.Command, _ []string) error {
	serveConfigPath = statsConfigPath
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

	// Stats only reads the store; the scorer and fetcher are never called.
	svc := workflow.New(st, scoring.NewTwoTier(nil, log), ingestion.NewDirectFetcher(false, log), log)

	stats := svc.Stats()

	header := color.New(color.FgCyan, color.Bold)
	header.Println("Marketplace overview")

	overview := tablewriter.NewWriter(os.Stdout)
	overview.SetHeader([]string{"Clients", "Jobs", "Candidates", "Unclaimed", "Claimed", "Completed", "Sourcers"})
	overview.Append([]string{
		strconv.Itoa(stats.TotalClients),
		strconv.Itoa(stats.TotalJobs),
		strconv.Itoa(stats.TotalCandidates),
		strconv.Itoa(stats.UnclaimedJobs),
		strconv.Itoa(stats.ClaimedJobs),
		strconv.Itoa(stats.CompletedJobs),
		strconv.Itoa(stats.ActiveSourcers),
	})
	overview.Render()

	sourcers := svc.TopSourcers(10)
	if len(sourcers) == 0 {
		fmt.Println("No active sourcers yet.")
		return nil
	}

	fmt.Println()
	header.Println("Top sourcers")

	board := tablewriter.NewWriter(os.Stdout)
	board.SetHeader([]string{"Sourcer", "Completed", "Claimed"})
	for _, sourcer := range sourcers {
		completed := strconv.Itoa(sourcer.CompletedJobs)
		if sourcer.CompletedJobs > 0 {
			completed = color.GreenString(completed)
		}
		board.Append([]string{sourcer.Name, completed, strconv.Itoa(sourcer.ClaimedJobs)})
	}
	board.Render()

	return nil
}
