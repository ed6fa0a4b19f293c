package cli

import (
	"github.com/spf13/cobra"

	"github.com/openfit-labs/fitsync-cli/internal/adapters/driving/setup"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Interactive configuration",
	Long: `Opens an interactive form for Garmin credentials, the Notion token,
database IDs and sync settings, and writes them to ~/.fitsync/config.toml.
Leave a field empty to keep its current value.`,
	RunE: runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetup(cmd *cobra.Command, _ []string) error {
	if err := initServices(); err != nil {
		return err
	}
	if err := setup.Run(configStore); err != nil {
		return err
	}
	cmd.Println("Run 'fitsync login' next to create a Garmin session.")
	return nil
}
