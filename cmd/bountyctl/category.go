package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/hosico-labs/bounty-backend/internal/models"
	"github.com/hosico-labs/bounty-backend/internal/repositories"
	"github.com/spf13/cobra"
)

var categoryCmd = &cobra.Command{
	Use:   "category",
	Short: "Manage bounty categories",
}

var categoryAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Create a category",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := strings.TrimSpace(args[0])
		if name == "" {
			return fmt.Errorf("category name is required")
		}
		return withStore(cmd, func(ctx context.Context, store *repositories.Store) error {
			category := &models.Category{Name: name}
			if err := store.Categories.Create(ctx, category); err != nil {
				if errors.Is(err, repositories.ErrDuplicate) {
					return fmt.Errorf("category %q already exists", name)
				}
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", category.ID, category.Name)
			return nil
		})
	},
}

var categoryListCmd = &cobra.Command{
	Use:   "list",
	Short: "List categories",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(cmd, func(ctx context.Context, store *repositories.Store) error {
			categories, err := store.Categories.FindAll(ctx)
			if err != nil {
				return err
			}
			for _, c := range categories {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", c.ID, c.Name)
			}
			return nil
		})
	},
}

func init() {
	categoryCmd.AddCommand(categoryAddCmd, categoryListCmd)
}
