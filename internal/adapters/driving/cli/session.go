package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/openfit-labs/fitsync-cli/internal/core/domain"
)

// sessionPorter is implemented by session stores that can move the
// credential in and out as an opaque blob, for CI secret stores.
type sessionPorter interface {
	Export(ctx context.Context) (string, error)
	Import(ctx context.Context, encoded string) error
}

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Inspect and move the persisted Garmin session",
}

var sessionStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the persisted session's age and validity",
	RunE:  runSessionStatus,
}

var sessionExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Print the session as a base64 blob",
	Long: `Prints the persisted session encoded as base64, suitable for storing
in a CI secret. Treat the output as a credential.`,
	RunE: runSessionExport,
}

var sessionImportCmd = &cobra.Command{
	Use:   "import <blob>",
	Short: "Install a session from a base64 blob",
	Args:  cobra.ExactArgs(1),
	RunE:  runSessionImport,
}

var sessionClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete the persisted session",
	RunE:  runSessionClear,
}

func init() {
	sessionCmd.AddCommand(sessionStatusCmd)
	sessionCmd.AddCommand(sessionExportCmd)
	sessionCmd.AddCommand(sessionImportCmd)
	sessionCmd.AddCommand(sessionClearCmd)
	rootCmd.AddCommand(sessionCmd)
}

func sessionContext(cmd *cobra.Command) (context.Context, error) {
	if err := initServices(); err != nil {
		return nil, err
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return ctx, nil
}

func runSessionStatus(cmd *cobra.Command, _ []string) error {
	ctx, err := sessionContext(cmd)
	if err != nil {
		return err
	}

	session, err := sessionStore.Load(ctx)
	if errors.Is(err, domain.ErrNotFound) {
		cmd.Println("No session. Run 'fitsync login'.")
		return nil
	}
	if err != nil {
		return err
	}

	age := session.Age()
	remaining := domain.SessionValidity - age
	cmd.Printf("Session %s\n", session.ID)
	cmd.Printf("  created: %s (%dd ago)\n",
		session.CreatedAt.Format("2006-01-02 15:04"), int(age.Hours()/24))
	if session.Expired(domain.SessionValidity) {
		cmd.Println("  status:  expired, next sync will log in again")
	} else {
		cmd.Printf("  status:  valid for %dd more\n", int(remaining.Hours()/24))
	}
	return nil
}

func runSessionExport(cmd *cobra.Command, _ []string) error {
	ctx, err := sessionContext(cmd)
	if err != nil {
		return err
	}

	porter, ok := sessionStore.(sessionPorter)
	if !ok {
		return fmt.Errorf("%w: session store does not support export", domain.ErrInvalidInput)
	}
	blob, err := porter.Export(ctx)
	if err != nil {
		return err
	}
	cmd.Println(blob)
	return nil
}

func runSessionImport(cmd *cobra.Command, args []string) error {
	ctx, err := sessionContext(cmd)
	if err != nil {
		return err
	}

	porter, ok := sessionStore.(sessionPorter)
	if !ok {
		return fmt.Errorf("%w: session store does not support import", domain.ErrInvalidInput)
	}
	if err := porter.Import(ctx, strings.TrimSpace(args[0])); err != nil {
		return fmt.Errorf("import session: %w", err)
	}
	cmd.Println("Session installed.")
	return nil
}

func runSessionClear(cmd *cobra.Command, _ []string) error {
	ctx, err := sessionContext(cmd)
	if err != nil {
		return err
	}
	if err := sessionStore.Delete(ctx); err != nil {
		return err
	}
	cmd.Println("Session deleted.")
	return nil
}
