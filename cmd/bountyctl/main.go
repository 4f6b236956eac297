// Command bountyctl is the operator CLI: it manages the admin allowlist and
// categories and issues service tokens for the admin API.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/hosico-labs/bounty-backend/internal/bootstrap"
	"github.com/hosico-labs/bounty-backend/internal/config"
	"github.com/hosico-labs/bounty-backend/internal/repositories"
	"github.com/spf13/cobra"
	"golang.org/x/exp/slog"
)

var (
	cmdTimeout time.Duration

	// loadConfig and openStore are replaced in tests.
	loadConfig = config.Load
	openStore  = bootstrap.OpenStore
)

var rootCmd = &cobra.Command{
	Use:           "bountyctl",
	Short:         "Operate the bounty backend",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().DurationVar(&cmdTimeout, "timeout", 30*time.Second, "timeout for store operations")
	rootCmd.AddCommand(allowlistCmd, categoryCmd, tokenCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// withStore loads config, opens the store and runs fn under the command timeout.
func withStore(cmd *cobra.Command, fn func(ctx context.Context, store *repositories.Store) error) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	slog.SetDefault(bootstrap.NewLogger(cfg.Log, cmd.ErrOrStderr()))

	ctx, cancel := context.WithTimeout(cmd.Context(), cmdTimeout)
	defer cancel()

	store, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if store.Close != nil {
			_ = store.Close(context.Background())
		}
	}()
	return fn(ctx, store)
}
