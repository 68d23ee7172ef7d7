package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/hookhand/hookhand/internal/script"
)

func newScriptsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "scripts",
		Short: "List the scripts requests can run",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			resolver := script.NewResolver(cfg.Scripts.Dir)
			scripts, err := resolver.List()
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tPATH")
			for _, s := range scripts {
				fmt.Fprintf(w, "%s\t%s\n", s.Name, s.Rel)
			}
			return w.Flush()
		},
	}
}
