package cmd

import (
	"fmt"

	"github.com/bnema/zerowrap"
	"github.com/spf13/cobra"

	"devrouter/internal/app"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check the host environment",
	Long:  `Report OS family, required web server modules and certificate tooling.`,
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

		report := svc.Env.Check(zerowrap.WithCtx(cmd.Context(), log))
		fmt.Fprintf(cmd.OutOrStdout(), "OS: %s\n", report.OS)
		for _, c := range report.Checks {
			fmt.Fprintf(cmd.OutOrStdout(), "[%s] %-18s %s\n", c.Category, c.Name, c.Status)
			if c.Command != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "  fix: %s\n", c.Command)
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)
}
