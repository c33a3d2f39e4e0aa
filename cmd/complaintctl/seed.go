package main

import (
	"fmt"

	"github.com/ahmetcoskunkizilkaya/water-complaint-backend/internal/services"
	"github.com/spf13/cobra"
)

func newSeedCmd() *cobra.Command {
	var usersOnly bool
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Install default accounts and sample complaints into empty tables",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			b, err := openBackend(ctx)
			if err != nil {
				return err
			}
			defer b.Close()

			seeder := services.NewSeeder(b.db, b.store)
			users, err := seeder.SeedUsers(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "users created: %d\n", users)
			if usersOnly {
				return nil
			}

			complaints, err := seeder.SeedComplaints(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "complaints created: %d\n", complaints)
			return nil
		},
	}
	cmd.Flags().BoolVar(&usersOnly, "users-only", false, "Seed accounts but not sample complaints")
	return cmd
}

func newResetUsersCmd() *cobra.Command {
	var confirm bool
	cmd := &cobra.Command{
		Use:   "reset-users",
		Short: "Delete every account and recreate the defaults",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !confirm {
				return fmt.Errorf("refusing to delete users without --yes")
			}
			ctx := cmd.Context()
			b, err := openBackend(ctx)
			if err != nil {
				return err
			}
			defer b.Close()

			n, err := services.NewSeeder(b.db, b.store).ResetUsers(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "users reset: %d\n", n)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&confirm, "yes", "y", false, "Confirm deletion of all users")
	return cmd
}
