package cli

import (
	"context"
	"fmt"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pageza/recipe-chatbot/backend/internal/service"
	"github.com/pageza/recipe-chatbot/backend/internal/types"
)

var processCmd = &cobra.Command{
	Use:   "process-recipes <dir>",
	Short: "Ingest every recipe text or image file in a directory",
	Long: `Ingests the .txt, .jpg, .jpeg and .png files directly inside a directory.
Images are transcribed by the vision model first. A failing file is reported and the
run carries on. With --watch the directory is then watched for new or changed files
until interrupted.`,
	Args: cobra.ExactArgs(1),
	RunE: runProcess,
}

func init() {
	processCmd.Flags().BoolVar(&watch, "watch", false, "keep watching the directory for new files")
	processCmd.Flags().IntVar(&workers, "workers", 4, "number of files processed concurrently")
	rootCmd.AddCommand(processCmd)
}

func runProcess(cmd *cobra.Command, args []string) error {
	dir := args[0]

	report, err := ingestion.ProcessDirectory(cmd.Context(), dir)
	if err != nil {
		return err
	}
	printReport(cmd, report)

	if !watch {
		return nil
	}
	return watchDirectory(cmd.Context(), cmd, dir)
}

// watchDirectory ingests files as they are created or written until ctx is cancelled
func watchDirectory(ctx context.Context, cmd *cobra.Command, dir string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}
	cmd.Printf("Watching %s for new recipes...\n", dir)

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if res, handled := handleFsEvent(ctx, event); handled {
				printResult(cmd, res)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Warn("watch error", zap.Error(err))
		}
	}
}

// handleFsEvent processes supported, non-hidden files that were created or written
func handleFsEvent(ctx context.Context, event fsnotify.Event) (types.IngestResult, bool) {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
		return types.IngestResult{}, false
	}
	if !service.IsSupportedFile(event.Name) {
		return types.IngestResult{}, false
	}
	return ingestion.ProcessFile(ctx, event.Name), true
}
