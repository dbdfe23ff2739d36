// Package app provides the application initialization and wiring.
package app

import (
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// DefaultDataDir returns the default data directory path.
// Uses ~/.devrouter for user installations, /var/lib/devrouter as fallback.
func DefaultDataDir() string {
	if homeDir, err := os.UserHomeDir(); err == nil {
		return filepath.Join(homeDir, ".devrouter")
	}
	return "/var/lib/devrouter"
}

// ConfigureViper sets up viper with standard config file search paths.
// Config file: devrouter.toml
// Search paths (in order): /etc/devrouter, ~/.config/devrouter, current directory
func ConfigureViper(v *viper.Viper, configPath string) {
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("devrouter")
		v.SetConfigType("toml")
		v.AddConfigPath("/etc/devrouter")
		v.AddConfigPath("$HOME/.config/devrouter")
		v.AddConfigPath(".")
	}
}
