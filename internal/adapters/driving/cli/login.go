package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/openfit-labs/fitsync-cli/internal/core/domain"
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in to Garmin Connect",
	Long: `Performs a primary login against Garmin Connect and persists the
resulting session. Subsequent syncs reuse the session for up to 30 days
without contacting the login endpoint.

Credentials come from GARMIN_EMAIL / GARMIN_PASSWORD, the config file, or
an interactive prompt.`,
	RunE: runLogin,
}

func init() {
	rootCmd.AddCommand(loginCmd)
}

func runLogin(cmd *cobra.Command, _ []string) error {
	if err := initServices(); err != nil {
		return err
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	email := setting(keyGarminEmail, envGarminEmail)
	password := setting(keyGarminPassword, envGarminPassword)

	if email == "" {
		cmd.Print("Email: ")
		reader := bufio.NewReader(cmd.InOrStdin())
		line, err := reader.ReadString('\n')
		if err != nil {
			return fmt.Errorf("read email: %w", err)
		}
		email = strings.TrimSpace(line)
	}
	if password == "" {
		cmd.Print("Password: ")
		raw, err := term.ReadPassword(int(syscall.Stdin))
		cmd.Println()
		if err != nil {
			return fmt.Errorf("read password: %w", err)
		}
		password = string(raw)
	}
	if email == "" || password == "" {
		return fmt.Errorf("%w: email and password are required", domain.ErrAuthRequired)
	}

	session, err := authenticator.Login(ctx, email, password)
	if err != nil {
		return fmt.Errorf("login: %w", err)
	}
	if err := sessionStore.Save(ctx, session); err != nil {
		return fmt.Errorf("persist session: %w", err)
	}

	cmd.Printf("Logged in as %s. Session valid for %d days.\n",
		email, int(domain.SessionValidity.Hours()/24))
	return nil
}
