package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/hookhand/hookhand/internal/config"
	"github.com/hookhand/hookhand/internal/log"
	"github.com/hookhand/hookhand/internal/provision"
	"github.com/hookhand/hookhand/internal/storage"
)

var (
	version = "0.1.0"
	commit  = ""
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "hookhand",
		Short: "HookHand: run scripts from webhooks",
		Long: "HookHand runs the executable scripts in a directory when an HTTP request names them.\n" +
			"Request parameters reach the script as HOOKHAND_* environment variables.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().String("config", "", "config file or directory containing hookhand.yaml")
	cmd.PersistentFlags().String("log-level", "", "override log level: debug, info, warn, error")

	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newSyncCmd())
	cmd.AddCommand(newScriptsCmd())
	cmd.AddCommand(newVersionCmd())
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			if commit != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "hookhand %s (%s)\n", version, commit)
				return
			}
			fmt.Fprintf(cmd.OutOrStdout(), "hookhand %s\n", version)
		},
	}
}

// loadConfig reads --config and --log-level and sets up logging.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if level, _ := cmd.Flags().GetString("log-level"); level != "" {
		cfg.Service.LogLevel = level
	}
	log.Setup(cfg.Service.LogLevel, cfg.Service.LogFormat)
	return cfg, nil
}

// openLedger opens the sync ledger. The returned close func is never nil.
func openLedger(ctx context.Context, cfg *config.Config) (*provision.Ledger, func(), error) {
	db, err := storage.OpenSQLite(ctx, cfg.State.Path)
	if err != nil {
		return nil, func() {}, err
	}
	return provision.NewLedger(db), func() { _ = db.Close() }, nil
}

func printSyncResult(w io.Writer, r *provision.SyncResult) {
	if r.Action == provision.ActionSkipped {
		fmt.Fprintf(w, "sync skipped: %s\n", r.Reason)
		return
	}
	fmt.Fprintf(w, "%s %s at %s\n", r.Action, r.Repository, r.Revision)
	fmt.Fprintf(w, "  scripts:     %d\n", r.Scripts)
	fmt.Fprintf(w, "  fingerprint: %s\n", r.Fingerprint)
	fmt.Fprintf(w, "  synced at:   %s (%dms)\n", r.SyncedAt.Local().Format("2006-01-02 15:04:05"), r.Duration.Milliseconds())
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	root := newRootCmd()
	root.SetContext(ctx)
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}
