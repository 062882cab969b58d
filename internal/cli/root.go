// Package cli implements the ingest command line tool.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pageza/recipe-chatbot/backend/config"
	"github.com/pageza/recipe-chatbot/backend/internal/app"
	"github.com/pageza/recipe-chatbot/backend/internal/logger"
	"github.com/pageza/recipe-chatbot/backend/internal/service"
	"github.com/pageza/recipe-chatbot/backend/internal/types"
)

var (
	// ingestion is built from the environment on first use; tests set it directly
	ingestion service.IIngestionService
	log       = zap.NewNop()
	teardown  func()

	workers int
	watch   bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Load recipes into the catalog from text and image files",
	Long: `ingest loads recipes into the catalog.

load-recipes    - upserts every recipe in a structured text file.
process-recipes - ingests every .txt, .jpg, .jpeg and .png file in a directory,
                  optionally watching it for new files.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	PersistentPostRun: func(*cobra.Command, []string) {
		if teardown != nil {
			teardown()
			teardown = nil
		}
	},
}

// Execute runs the root command with a context cancelled on SIGINT or SIGTERM
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func setup(cmd *cobra.Command, _ []string) error {
	if ingestion != nil {
		return nil
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("workers") {
		cfg.Ingest.Workers = workers
	}

	l, err := logger.New(cfg.Log.Level, cfg.Environment.IsProduction())
	if err != nil {
		return err
	}

	a, err := app.New(cmd.Context(), cfg, l)
	if err != nil {
		logger.Sync(l)
		return err
	}

	ingestion, log = a.Ingestion, l
	teardown = func() {
		if err := a.Close(); err != nil {
			l.Warn("failed to close resources", zap.Error(err))
		}
		logger.Sync(l)
	}
	return nil
}

func printResult(cmd *cobra.Command, res types.IngestResult) {
	fields := []zap.Field{
		zap.String("source", res.Source),
		zap.String("outcome", string(res.Outcome)),
	}
	if res.Title != "" {
		fields = append(fields, zap.String("title", res.Title))
	}

	switch res.Outcome {
	case types.IngestFailed:
		log.Error("ingestion failed", append(fields, zap.String("error", res.Error))...)
		cmd.Printf("%-8s %s: %s\n", res.Outcome, res.Source, res.Error)
	case types.IngestSkipped:
		log.Warn("recipe skipped", fields...)
		cmd.Printf("%-8s %s\n", res.Outcome, res.Source)
	default:
		log.Info("recipe stored", fields...)
		cmd.Printf("%-8s %s (%s)\n", res.Outcome, res.Title, res.Source)
	}
}

func printReport(cmd *cobra.Command, report types.IngestReport) {
	for _, res := range report.Results {
		printResult(cmd, res)
	}
	cmd.Printf("Created: %d, Updated: %d, Skipped: %d, Failed: %d\n",
		report.Count(types.IngestCreated),
		report.Count(types.IngestUpdated),
		report.Count(types.IngestSkipped),
		report.Count(types.IngestFailed),
	)
}
