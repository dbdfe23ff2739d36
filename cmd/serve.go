package cmd

import (
	"github.com/spf13/cobra"

	"devrouter/internal/app"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the admin API server",
	Long: `Start the admin API server, regenerate the web server artifacts on
startup and keep them in sync while running.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		return app.Run(cmd.Context(), cfg)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
