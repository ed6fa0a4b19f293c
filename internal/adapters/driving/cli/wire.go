package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jomei/notionapi"

	"github.com/openfit-labs/fitsync-cli/internal/adapters/driven/config/file"
	filestore "github.com/openfit-labs/fitsync-cli/internal/adapters/driven/storage/file"
	"github.com/openfit-labs/fitsync-cli/internal/adapters/driven/storage/sqlite"
	"github.com/openfit-labs/fitsync-cli/internal/connectors/garmin"
	"github.com/openfit-labs/fitsync-cli/internal/connectors/strong"
	"github.com/openfit-labs/fitsync-cli/internal/core/domain"
	"github.com/openfit-labs/fitsync-cli/internal/core/ports/driving"
	"github.com/openfit-labs/fitsync-cli/internal/core/services"
	"github.com/openfit-labs/fitsync-cli/internal/destination/notion"
	"github.com/openfit-labs/fitsync-cli/internal/logger"
	"github.com/openfit-labs/fitsync-cli/internal/transform"
)

// Config keys and their environment overrides.
const (
	keyGarminEmail    = "garmin.email"
	keyGarminPassword = "garmin.password"
	keyNotionToken    = "notion.token"
	keyActivitiesDB   = "notion.activities_db"
	keyRecordsDB      = "notion.records_db"
	keyStepsDB        = "notion.steps_db"
	keySleepDB        = "notion.sleep_db"
	keyExercisesDB    = "notion.exercises_db"
	keyTimezone       = "sync.timezone"
	keyWindowDays     = "sync.window_days"
	keyCSVPath        = "strong.csv_path"
	keyDriveFolder    = "strong.drive_folder"

	envGarminEmail    = "GARMIN_EMAIL"
	envGarminPassword = "GARMIN_PASSWORD"
	envNotionToken    = "NOTION_TOKEN"
	envActivitiesDB   = "NOTION_DB_ID"
	envRecordsDB      = "NOTION_RECORDS_DB_ID"
	envStepsDB        = "NOTION_STEPS_DB_ID"
	envSleepDB        = "NOTION_SLEEP_DB_ID"
	envExercisesDB    = "NOTION_EXERCISE_DB_ID"
	envTimezone       = "FITSYNC_TIMEZONE"
	envWindowDays     = "FITSYNC_WINDOW_DAYS"
	envCSVPath        = "STRONG_CSV_PATH"
	envDriveFolder    = "GOOGLE_DRIVE_FOLDER_ID"
)

// csvPathOverride carries the sync command's --csv flag (or the Drive
// download result) into buildRunner.
var csvPathOverride string

// initServices fills in any service var still nil. Tests that pre-assign
// mocks keep them.
func initServices() error {
	if configStore == nil {
		store, err := file.NewConfigStore("")
		if err != nil {
			return fmt.Errorf("open config: %w", err)
		}
		configStore = store
	}
	if sessionStore == nil {
		store, err := filestore.NewSessionStore("")
		if err != nil {
			return fmt.Errorf("open session store: %w", err)
		}
		sessionStore = store
	}
	if authenticator == nil {
		authenticator = garmin.NewClient()
	}
	if sessionManager == nil {
		sessionManager = services.NewSessionManager(
			sessionStore,
			authenticator,
			setting(keyGarminEmail, envGarminEmail),
			setting(keyGarminPassword, envGarminPassword),
			0,
		)
	}
	return nil
}

// initRunStore opens run history on demand; history is optional and a
// broken database must not block syncing.
func initRunStore() {
	if runStore != nil {
		return
	}
	store, err := sqlite.NewRunStore("")
	if err != nil {
		logger.Warn("Run history unavailable: %v", err)
		return
	}
	runStore = store
}

// destinationTimezone resolves the canonical timezone all transformers
// normalize into.
func destinationTimezone() *time.Location {
	name := setting(keyTimezone, envTimezone)
	if name == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		logger.Warn("Unknown timezone %q, using local", name)
		return time.Local
	}
	return loc
}

// buildRunner assembles the sync pipeline from configuration. Kinds
// without a configured database are simply not registered; syncing them
// reports domain.ErrNotConfigured.
func buildRunner(force bool) (driving.SyncRunner, error) {
	if err := initServices(); err != nil {
		return nil, err
	}
	initRunStore()

	token := setting(keyNotionToken, envNotionToken)
	if token == "" {
		return nil, fmt.Errorf("%w: set %s or %s in the config", domain.ErrNotConfigured, keyNotionToken, envNotionToken)
	}
	client := notion.NewClient(token)

	loc := destinationTimezone()
	runner := services.NewSyncRunner(runStore, force)

	gc := garmin.NewClient()
	gc.SetTokenSource(garmin.SessionTokenSource(context.Background(), sessionManager))

	if db := setting(keyActivitiesDB, envActivitiesDB); db != "" {
		runner.Register(domain.KindActivities, services.Job{
			Fetcher:     garmin.NewActivityFetcher(gc),
			Transformer: transform.NewActivityTransformer(loc),
			Sink: notion.NewSink(client, notion.SinkConfig{
				DatabaseID: db,
				KeyProp:    "Garmin ID",
				KeyMode:    notion.KeyFromTags,
				TitleProp:  "Activity Name",
			}),
		})
	}
	if db := setting(keyRecordsDB, envRecordsDB); db != "" {
		runner.Register(domain.KindRecords, services.Job{
			Fetcher:     garmin.NewRecordsFetcher(gc),
			Transformer: transform.NewRecordTransformer(loc),
			Sink: notion.NewSink(client, notion.SinkConfig{
				DatabaseID: db,
				KeyProp:    "Record ID",
				KeyMode:    notion.KeyFromText,
			}),
		})
	}
	if db := setting(keyStepsDB, envStepsDB); db != "" {
		runner.Register(domain.KindSteps, services.Job{
			Fetcher:     garmin.NewStepsFetcher(gc),
			Transformer: transform.NewStepsTransformer(),
			Sink: notion.NewSink(client, notion.SinkConfig{
				DatabaseID: db,
				KeyProp:    "Date",
				KeyMode:    notion.KeyFromDate,
			}),
		})
	}
	if db := setting(keySleepDB, envSleepDB); db != "" {
		runner.Register(domain.KindSleep, services.Job{
			Fetcher:     garmin.NewSleepFetcher(gc),
			Transformer: transform.NewSleepTransformer(loc),
			Sink: notion.NewSink(client, notion.SinkConfig{
				DatabaseID: db,
				KeyProp:    "Date",
				KeyMode:    notion.KeyFromDate,
			}),
		})
	}

	csvPath := csvPathOverride
	if csvPath == "" {
		csvPath = setting(keyCSVPath, envCSVPath)
	}
	if db := setting(keyActivitiesDB, envActivitiesDB); db != "" && csvPath != "" {
		job := services.Job{
			Fetcher:     strong.NewCSVFetcher(csvPath),
			Transformer: transform.NewWorkoutTransformer(loc),
			Sink: notion.NewSink(client, notion.SinkConfig{
				DatabaseID: db,
				KeyProp:    "Garmin ID",
				KeyMode:    notion.KeyFromTags,
				TitleProp:  "Activity Name",
			}),
		}
		exDB := setting(keyExercisesDB, envExercisesDB)
		if exDB == "" {
			exDB = ensureExerciseDB(client, db)
		}
		if exDB != "" {
			job.Expander = transform.NewExerciseExpander(loc)
			job.DerivedSink = notion.NewSink(client, notion.SinkConfig{
				DatabaseID: exDB,
				KeyMode:    notion.KeyFromTitleDate,
				DateProp:   "Date",
				TitleProp:  "Exercise",
			})
		}
		runner.Register(domain.KindWorkouts, job)
	}

	return runner, nil
}

// ensureExerciseDB auto-creates the exercise progress database next to the
// workouts database and persists its ID for later runs. Failure is
// non-fatal: workouts still sync, only the progress rows are skipped.
func ensureExerciseDB(client *notionapi.Client, workoutsDB string) string {
	id, err := notion.CreateExerciseDatabase(context.Background(), client, workoutsDB)
	if err != nil {
		logger.Warn("Exercise database unavailable: %v", err)
		return ""
	}
	logger.Info("Created 'Exercise Progress' database %s", id)
	if err := configStore.Set(keyExercisesDB, id); err != nil {
		logger.Warn("Could not persist exercise database ID: %v", err)
	}
	return id
}

// fitsyncDataDir is where downloaded exports and run history live.
func fitsyncDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	dir := filepath.Join(home, ".fitsync", "data")
	_ = os.MkdirAll(dir, 0o700)
	return dir
}

// windowDays resolves the trailing fetch window length.
func windowDays(flagDays int) int {
	if flagDays > 0 {
		return flagDays
	}
	if v := setting(keyWindowDays, envWindowDays); v != "" {
		var days int
		if _, err := fmt.Sscanf(v, "%d", &days); err == nil && days > 0 {
			return days
		}
	}
	return domain.DefaultWindowDays
}
