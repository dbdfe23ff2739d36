package cmd

import (
	"fmt"

	"github.com/bnema/zerowrap"
	"github.com/spf13/cobra"

	"devrouter/internal/app"
)

var rescanCmd = &cobra.Command{
	Use:   "rescan",
	Short: "Rescan group directories and regenerate artifacts",
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
		groups, err := svc.Routing.Rescan(ctx)
		if err != nil {
			return err
		}

		for _, g := range groups {
			status := "ok"
			if !g.Exists {
				status = "missing"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s (%s): %d subdirectories, %d skipped\n",
				g.Path, status, len(g.Subdirs), len(g.Skipped))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(rescanCmd)
}
