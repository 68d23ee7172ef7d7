package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hookhand/hookhand/internal/provision"
)

func newSyncCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Clone or pull the scripts repository once",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			ledger, closeLedger, err := openLedger(ctx, cfg)
			if err != nil {
				return err
			}
			defer closeLedger()

			if status, _ := cmd.Flags().GetBool("status"); status {
				last, err := ledger.Last(ctx)
				if err != nil {
					return err
				}
				if last == nil {
					fmt.Fprintln(cmd.OutOrStdout(), "no sync recorded")
					return nil
				}
				printSyncResult(cmd.OutOrStdout(), last)
				return nil
			}

			res, err := provision.NewSyncer(cfg, ledger).Sync(ctx)
			if err != nil {
				return err
			}
			printSyncResult(cmd.OutOrStdout(), res)
			return nil
		},
	}
	cmd.Flags().Bool("status", false, "show the last recorded sync instead of syncing")
	return cmd
}
