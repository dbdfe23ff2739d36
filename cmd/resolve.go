package cmd

import (
	"fmt"

	"github.com/bnema/zerowrap"
	"github.com/spf13/cobra"

	"devrouter/internal/app"
	"devrouter/internal/domain"
)

var resolveCmd = &cobra.Command{
	Use:   "resolve",
	Short: "Print the effective route table",
	Long: `Print every slug that would be routed, its target, and whether it
comes from an explicit route or a scanned group.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		log := zerowrap.New(zerowrap.Config{Level: cfg.Logging.Level, Format: cfg.Logging.Format})
		svc, err := app.BuildServices(cfg, log)
		if err != nil {
			return err
		}

		ctx := zerowrap.WithCtx(cmd.Context(), log)
		resolved, err := svc.Routing.Resolved(ctx)
		if err != nil {
			return err
		}

		for _, r := range resolved {
			source := r.SourceLabel
			if r.Source == domain.SourceExplicit {
				source = "explicit"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%-20s %-9s %-8s %s\n", r.Slug, r.Type, source, r.Target)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(resolveCmd)
}
