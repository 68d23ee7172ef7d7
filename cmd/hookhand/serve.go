package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hookhand/hookhand/internal/dispatch"
	"github.com/hookhand/hookhand/internal/log"
	"github.com/hookhand/hookhand/internal/provision"
	"github.com/hookhand/hookhand/internal/script"
	"github.com/hookhand/hookhand/internal/webhook"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Sync scripts and serve webhooks until interrupted",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			logger := log.WithComponent("main")
			logger.Info("hookhand starting", "version", version, "scripts_dir", cfg.Scripts.Dir)

			if cfg.Repository.URL != "" {
				ledger, closeLedger, err := openLedger(ctx, cfg)
				if err != nil {
					return err
				}
				res, err := provision.NewSyncer(cfg, ledger).Sync(ctx)
				closeLedger()
				if err != nil {
					return err
				}
				logger.Info("provisioning finished", "action", string(res.Action), "revision", res.Revision)
			}

			resolver := script.NewResolver(cfg.Scripts.Dir)
			if !resolver.Exists() {
				return fmt.Errorf("%w: %s", dispatch.ErrScriptsDirMissing, resolver.Dir())
			}

			wc, err := webhook.FromGlobalConfig(cfg)
			if err != nil {
				return err
			}
			server := webhook.New(wc, dispatch.New(resolver, cfg.Scripts), log.WithComponent("webhook"))

			logger.Info("hookhand running (press Ctrl+C to stop)", "listen", wc.Listen)
			if err := server.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			logger.Info("hookhand stopped")
			return nil
		},
	}
}
