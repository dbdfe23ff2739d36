// Package cmd implements the devrouter command line interface.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"devrouter/internal/app"
)

var (
	cfgFile  string
	logLevel string
)

var rootCmd = &cobra.Command{
	Use:   "devrouter",
	Short: "Devrouter - local development subdomain router",
	Long: `Devrouter maps slug.basedomain subdomains to local project directories
or proxied backend URLs and keeps the web server configuration in sync.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command. Version information is injected by the
// build via main.
func Execute(version, commit, date string) {
	rootCmd.Version = version
	buildCommit = commit
	buildDate = date

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default searches /etc/devrouter, ~/.config/devrouter, .)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "override the configured log level (debug, info, warn, error)")
}

// loadConfig builds the application configuration from the persistent flags.
func loadConfig() (app.Config, error) {
	cfg, err := app.InitConfig(cfgFile)
	if err != nil {
		return app.Config{}, err
	}
	if logLevel != "" {
		cfg.Logging.Level = logLevel
	}
	return cfg, nil
}
