package system

import (
	"errors"
	"fmt"
	"strings"

	"github.com/hearth-planner/hearth/internal/cli"
	"github.com/hearth-planner/hearth/internal/keyring"
	"github.com/hearth-planner/hearth/internal/storage/postgres"
)

// CredentialsSetCmd stores the database connection string in the OS keyring.
type CredentialsSetCmd struct {
	ConnectionString string `arg:"" help:"PostgreSQL connection string to store in the keyring."`
}

func (cmd *CredentialsSetCmd) Run(ctx *cli.Context) error {
	if !strings.HasPrefix(cmd.ConnectionString, "postgres://") &&
		!strings.HasPrefix(cmd.ConnectionString, "postgresql://") &&
		!strings.Contains(cmd.ConnectionString, "host=") {
		return errors.New("connection string must be a valid PostgreSQL connection string")
	}

	if _, err := postgres.ValidateConnString(cmd.ConnectionString); err != nil {
		if errors.Is(err, postgres.ErrEmbeddedCredentials) {
			// The keyring is encrypted, so an embedded password is
			// acceptable here, unlike on the command line.
			fmt.Println("⚠ Connection string contains an embedded password; it will be stored only in the encrypted OS keyring.")
		} else {
			return fmt.Errorf("invalid connection string: %w", err)
		}
	}

	if err := keyring.SetConnectionString(cmd.ConnectionString); err != nil {
		return fmt.Errorf("failed to store connection string in keyring: %w", err)
	}

	fmt.Println("✓ Connection string stored in OS keyring")
	fmt.Println("  You can now use hearth without the --config flag")
	return nil
}

// CredentialsClearCmd removes the stored connection string from the OS
// keyring.
type CredentialsClearCmd struct{}

func (cmd *CredentialsClearCmd) Run(ctx *cli.Context) error {
	if err := keyring.DeleteConnectionString(); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return errors.New("no connection string found in keyring")
		}
		return fmt.Errorf("failed to delete connection string from keyring: %w", err)
	}

	fmt.Println("✓ Connection string deleted from OS keyring")
	return nil
}

// CredentialsStatusCmd reports keyring availability and whether a connection
// string is stored.
type CredentialsStatusCmd struct{}

func (cmd *CredentialsStatusCmd) Run(ctx *cli.Context) error {
	if !keyring.IsAvailable() {
		fmt.Println("❌ OS keyring is not available on this system")
		return errors.New("keyring unavailable")
	}
	fmt.Println("✓ OS keyring is available")

	_, err := keyring.GetConnectionString()
	switch {
	case err == nil:
		fmt.Println("✓ Connection string is stored in keyring")
	case errors.Is(err, keyring.ErrNotFound):
		fmt.Println("ℹ No connection string stored in keyring")
	default:
		return fmt.Errorf("failed to read keyring: %w", err)
	}
	return nil
}
