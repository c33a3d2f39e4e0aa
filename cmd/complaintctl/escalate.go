package main

import (
	"fmt"

	"github.com/ahmetcoskunkizilkaya/water-complaint-backend/internal/services"
	"github.com/spf13/cobra"
)

func newEscalateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "escalate",
		Short: "Run one escalation sweep now",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			b, err := openBackend(ctx)
			if err != nil {
				return err
			}
			defer b.Close()

			monitor := services.NewEscalationMonitor(b.store, b.notifier(), b.cfg)
			n, err := monitor.RunOnce(ctx)
			fmt.Fprintf(cmd.OutOrStdout(), "complaints escalated: %d\n", n)
			return err
		},
	}
}
