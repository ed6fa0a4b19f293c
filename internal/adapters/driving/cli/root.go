// Package cli is the cobra command surface. Commands talk to the core
// through driving ports; the concrete wiring is built lazily from the
// config store so tests can swap any piece.
package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/openfit-labs/fitsync-cli/internal/core/ports/driven"
	"github.com/openfit-labs/fitsync-cli/internal/core/ports/driving"
	"github.com/openfit-labs/fitsync-cli/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

// Services used by commands. Populated by initServices on first use;
// tests assign mocks directly.
var (
	configStore    driven.ConfigStore
	sessionStore   driven.SessionStore
	sessionManager driving.SessionManager
	authenticator  driven.Authenticator
	runStore       driven.RunStore

	// newRunner builds the sync pipeline for one invocation. force is the
	// rebuild flag.
	newRunner func(force bool) (driving.SyncRunner, error) = buildRunner
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "fitsync",
	Short: "Sync fitness data into Notion databases",
	Long: `fitsync pulls activities, personal records, steps, sleep and strength
workouts from Garmin Connect and Strong CSV exports, and upserts them into
Notion databases.

Re-running is always safe: existing entries are found by their natural key
and updated only when a tracked attribute changed.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"verbose output")
}

// Execute runs the CLI. Fatal errors exit non-zero.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// setting resolves a config key with an environment override. Environment
// wins so CI can inject secrets without a config file.
func setting(key, envVar string) string {
	if v := os.Getenv(envVar); v != "" {
		return v
	}
	if configStore == nil {
		return ""
	}
	return configStore.GetString(key)
}
