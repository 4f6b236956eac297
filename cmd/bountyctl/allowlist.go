package main

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/hosico-labs/bounty-backend/internal/models"
	"github.com/hosico-labs/bounty-backend/internal/repositories"
	"github.com/hosico-labs/bounty-backend/internal/utils"
	"github.com/spf13/cobra"
	"golang.org/x/exp/slog"
)

var allowlistLabel string

var allowlistCmd = &cobra.Command{
	Use:   "allowlist",
	Short: "Manage the admin wallet allowlist",
}

var allowlistAddCmd = &cobra.Command{
	Use:   "add <wallet>...",
	Short: "Add wallets to the allowlist",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(cmd, func(ctx context.Context, store *repositories.Store) error {
			for _, arg := range args {
				wallet, err := addAdminWallet(ctx, store.AdminWallets, arg, allowlistLabel)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "added %s\n", wallet)
			}
			return nil
		})
	},
}

var allowlistRemoveCmd = &cobra.Command{
	Use:   "remove <wallet>",
	Short: "Remove a wallet from the allowlist",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		wallet, _, err := utils.NormalizeWalletAddress(args[0])
		if err != nil {
			return fmt.Errorf("%q: %w", args[0], err)
		}
		return withStore(cmd, func(ctx context.Context, store *repositories.Store) error {
			if err := store.AdminWallets.Remove(ctx, wallet); err != nil {
				if errors.Is(err, repositories.ErrNotFound) {
					return fmt.Errorf("%s is not on the allowlist", wallet)
				}
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "removed %s\n", wallet)
			return nil
		})
	},
}

var allowlistListCmd = &cobra.Command{
	Use:   "list",
	Short: "List allowlisted wallets",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(cmd, func(ctx context.Context, store *repositories.Store) error {
			wallets, err := store.AdminWallets.FindAll(ctx)
			if err != nil {
				return err
			}
			for _, w := range wallets {
				// Stored lower-case; shown with the EIP-55 checksum operators paste elsewhere.
				display, err := utils.ChecksumAddress(w.WalletAddress)
				if err != nil {
					display = w.WalletAddress
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", display, w.Label)
			}
			return nil
		})
	},
}

var allowlistImportCmd = &cobra.Command{
	Use:   "import <file.csv>",
	Short: "Import wallets from a CSV file (wallet[,label] per row, optional header)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("failed to open CSV file: %w", err)
		}
		defer f.Close()

		return withStore(cmd, func(ctx context.Context, store *repositories.Store) error {
			imported, skipped, err := importAllowlist(ctx, store.AdminWallets, f)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "imported %d wallets, skipped %d rows\n", imported, skipped)
			return nil
		})
	},
}

func init() {
	allowlistAddCmd.Flags().StringVar(&allowlistLabel, "label", "", "label stored with the wallet")
	allowlistCmd.AddCommand(allowlistAddCmd, allowlistRemoveCmd, allowlistListCmd, allowlistImportCmd)
}

func addAdminWallet(ctx context.Context, repo repositories.AdminWalletRepository, addr, label string) (string, error) {
	wallet, _, err := utils.NormalizeWalletAddress(addr)
	if err != nil {
		return "", fmt.Errorf("%q: %w", addr, err)
	}
	if err := repo.Add(ctx, &models.AdminWallet{WalletAddress: wallet, Label: strings.TrimSpace(label)}); err != nil {
		return "", fmt.Errorf("failed to add %s: %w", wallet, err)
	}
	return wallet, nil
}

// importAllowlist adds every valid row of r. Malformed rows are logged and
// skipped; a store failure aborts the import.
func importAllowlist(ctx context.Context, repo repositories.AdminWalletRepository, r io.Reader) (imported, skipped int, err error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	records, err := reader.ReadAll()
	if err != nil {
		return 0, 0, fmt.Errorf("failed to parse CSV file: %w", err)
	}

	for i, record := range records {
		if len(record) == 0 || strings.TrimSpace(record[0]) == "" {
			skipped++
			continue
		}
		// Header row
		if i == 0 && strings.EqualFold(strings.TrimSpace(record[0]), "wallet") {
			continue
		}
		label := ""
		if len(record) > 1 {
			label = record[1]
		}
		if _, err := addAdminWallet(ctx, repo, record[0], label); err != nil {
			if errors.Is(err, utils.ErrInvalidWalletAddress) {
				slog.Warn("Skipping row with invalid wallet", "row", i+1, "wallet", utils.MaskWallet(record[0]))
				skipped++
				continue
			}
			return imported, skipped, err
		}
		imported++
	}
	return imported, skipped, nil
}
