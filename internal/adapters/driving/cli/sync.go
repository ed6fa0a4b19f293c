package cli

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/openfit-labs/fitsync-cli/internal/connectors/garmin"
	"github.com/openfit-labs/fitsync-cli/internal/connectors/gdrive"
	"github.com/openfit-labs/fitsync-cli/internal/connectors/strong"
	"github.com/openfit-labs/fitsync-cli/internal/core/domain"
	"github.com/openfit-labs/fitsync-cli/internal/logger"
)

var (
	syncDays    int
	syncRebuild bool
	syncCSV     string
	syncWatch   bool
)

var syncCmd = &cobra.Command{
	Use:   "sync [activities|records|steps|sleep|workouts]",
	Short: "Sync fitness data into Notion",
	Long: `Fetches a trailing window of data and upserts it into the configured
Notion databases. With a kind argument only that kind is synced; otherwise
every configured kind is.

Entries that already exist and are unchanged are skipped, so re-running is
always safe. --rebuild forces an update of every matched entry, which also
regenerates workout page content.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSync,
}

func init() {
	syncCmd.Flags().IntVar(&syncDays, "days", 0,
		"trailing window in days (default 30)")
	syncCmd.Flags().BoolVar(&syncRebuild, "rebuild", false,
		"update every matched entry and regenerate page content")
	syncCmd.Flags().StringVar(&syncCSV, "csv", "",
		"path to a Strong CSV export (workouts)")
	syncCmd.Flags().BoolVar(&syncWatch, "watch", false,
		"watch the export directory and sync workouts on new files")
	rootCmd.AddCommand(syncCmd)
}

func runSync(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	kinds := domain.AllKinds()
	if len(args) > 0 {
		kind, err := domain.ParseKind(args[0])
		if err != nil {
			return err
		}
		kinds = []domain.Kind{kind}
	}

	if syncWatch {
		return watchWorkouts(ctx, cmd)
	}

	csvPathOverride = syncCSV
	if containsKind(kinds, domain.KindWorkouts) && syncCSV == "" {
		if path, ok := downloadExport(ctx); ok {
			csvPathOverride = path
		}
	}
	defer func() { csvPathOverride = "" }()

	runner, err := newRunner(syncRebuild)
	if err != nil {
		return err
	}

	window := domain.TrailingWindow(time.Now(), windowDays(syncDays))

	var synced int
	for _, kind := range kinds {
		summary, err := runner.Run(ctx, kind, window)
		if errors.Is(err, domain.ErrNotConfigured) {
			if len(kinds) == 1 {
				return err
			}
			logger.Debug("Skipping %s: not configured", kind)
			continue
		}
		if err != nil {
			switch {
			case garmin.IsUnauthorized(err):
				return fmt.Errorf("sync %s: %w; run 'fitsync login' to refresh the session", kind, err)
			case garmin.IsRateLimited(err):
				return fmt.Errorf("sync %s: %w; try again later", kind, err)
			default:
				return fmt.Errorf("sync %s: %w", kind, err)
			}
		}
		cmd.Print(renderSummary(summary))
		synced++
	}

	if synced == 0 {
		return fmt.Errorf("%w: no databases configured, run 'fitsync setup'", domain.ErrNotConfigured)
	}
	return nil
}

func containsKind(kinds []domain.Kind, kind domain.Kind) bool {
	for _, k := range kinds {
		if k == kind {
			return true
		}
	}
	return false
}

// downloadExport pulls the newest Strong export from the configured Drive
// folder. Failing to download falls back to the configured local path
// rather than failing the run.
func downloadExport(ctx context.Context) (string, bool) {
	folder := setting(keyDriveFolder, envDriveFolder)
	if folder == "" {
		return "", false
	}

	dl, err := gdrive.NewDownloader(ctx, folder)
	if err != nil {
		logger.Warn("Drive download unavailable: %v", err)
		return "", false
	}

	path := filepath.Join(fitsyncDataDir(), "strong_export.csv")
	name, err := dl.LatestCSV(ctx, path)
	if err != nil {
		logger.Warn("Drive download failed: %v", err)
		return "", false
	}
	logger.Info("Downloaded %s from Drive", name)
	return path, true
}

// watchWorkouts blocks on the export directory and syncs workouts for
// every settled CSV file.
func watchWorkouts(ctx context.Context, cmd *cobra.Command) error {
	dir := syncCSV
	if dir == "" {
		dir = setting(keyCSVPath, envCSVPath)
	}
	if dir == "" {
		return fmt.Errorf("%w: --watch needs --csv or %s pointing at the export directory", domain.ErrInvalidInput, envCSVPath)
	}
	if filepath.Ext(dir) != "" {
		dir = filepath.Dir(dir)
	}

	watcher := strong.NewWatcher(dir)
	exports, err := watcher.Watch(ctx)
	if err != nil {
		return err
	}

	cmd.Printf("Watching %s for Strong exports...\n", dir)
	for path := range exports {
		cmd.Printf("New export: %s\n", path)

		csvPathOverride = path
		runner, err := newRunner(syncRebuild)
		if err != nil {
			csvPathOverride = ""
			return err
		}

		window := domain.TrailingWindow(time.Now(), windowDays(syncDays))
		summary, err := runner.Run(ctx, domain.KindWorkouts, window)
		csvPathOverride = ""
		if err != nil {
			logger.Warn("Sync of %s failed: %v", path, err)
			continue
		}
		cmd.Print(renderSummary(summary))
	}
	return nil
}
