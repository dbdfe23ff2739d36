package app

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds the application configuration.
type Config struct {
	Server struct {
		Listen   string `mapstructure:"listen"`
		DataDir  string `mapstructure:"data_dir"`
		AdminURL string `mapstructure:"admin_url"`
	} `mapstructure:"server"`

	Artifacts struct {
		// Format selects the synthesized artifact flavor: "apache" renders
		// VirtualHost blocks, "map" a plain slug-to-target table.
		Format   string `mapstructure:"format"`
		HTTPConf string `mapstructure:"http_conf"`
		SSLConf  string `mapstructure:"ssl_conf"`
	} `mapstructure:"artifacts"`

	SSL struct {
		CertFile string `mapstructure:"cert_file"`
		KeyFile  string `mapstructure:"key_file"`
	} `mapstructure:"ssl"`

	Reload struct {
		Script string `mapstructure:"script"`
	} `mapstructure:"reload"`

	Exec struct {
		Timeout time.Duration `mapstructure:"timeout"`
	} `mapstructure:"exec"`

	Watcher struct {
		Enabled bool `mapstructure:"enabled"`
	} `mapstructure:"watcher"`

	Logging struct {
		Level  string `mapstructure:"level"`
		Format string `mapstructure:"format"`
		File   struct {
			Enabled    bool   `mapstructure:"enabled"`
			Path       string `mapstructure:"path"`
			MaxSize    int    `mapstructure:"max_size"`
			MaxBackups int    `mapstructure:"max_backups"`
			MaxAge     int    `mapstructure:"max_age"`
		} `mapstructure:"file"`
	} `mapstructure:"logging"`
}

// InitConfig loads configuration from file and environment.
func InitConfig(configPath string) (Config, error) {
	v := viper.New()
	if err := loadConfig(v, configPath); err != nil {
		return Config{}, fmt.Errorf("failed to load config: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDerivedDefaults(&cfg)
	return cfg, nil
}

// applyDerivedDefaults fills paths that depend on the data directory.
func applyDerivedDefaults(cfg *Config) {
	if cfg.Server.DataDir == "" {
		cfg.Server.DataDir = DefaultDataDir()
	}
	if cfg.Artifacts.HTTPConf == "" {
		cfg.Artifacts.HTTPConf = filepath.Join(cfg.Server.DataDir, "apache", "routes.conf")
	}
	if cfg.Artifacts.SSLConf == "" {
		cfg.Artifacts.SSLConf = filepath.Join(cfg.Server.DataDir, "apache", "routes-ssl.conf")
	}
	if cfg.SSL.CertFile == "" {
		cfg.SSL.CertFile = filepath.Join(cfg.Server.DataDir, "certs", "devrouter.pem")
	}
	if cfg.SSL.KeyFile == "" {
		cfg.SSL.KeyFile = filepath.Join(cfg.Server.DataDir, "certs", "devrouter-key.pem")
	}
}

func loadConfig(v *viper.Viper, configPath string) error {
	v.SetDefault("server.listen", "127.0.0.1:8880")
	v.SetDefault("server.data_dir", DefaultDataDir())
	v.SetDefault("server.admin_url", "http://localhost:8880/")
	v.SetDefault("artifacts.format", "apache")
	v.SetDefault("reload.script", "")
	v.SetDefault("exec.timeout", "10s")
	v.SetDefault("watcher.enabled", true)
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.file.enabled", false)
	v.SetDefault("logging.file.max_size", 100)
	v.SetDefault("logging.file.max_backups", 3)
	v.SetDefault("logging.file.max_age", 28)

	ConfigureViper(v, configPath)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("failed to read config file: %w", err)
		}
	}

	v.SetEnvPrefix("DEVROUTER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return nil
}
