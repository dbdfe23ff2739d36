package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/bnema/zerowrap"
	"github.com/labstack/echo/v4"

	apihttp "devrouter/internal/adapters/in/http"
	"devrouter/internal/adapters/out/apacheconf"
	"devrouter/internal/adapters/out/executor"
	"devrouter/internal/adapters/out/mkcert"
	"devrouter/internal/adapters/out/reload"
	"devrouter/internal/adapters/out/routemap"
	"devrouter/internal/adapters/out/scanner"
	"devrouter/internal/adapters/out/statestore"
	"devrouter/internal/adapters/out/watcher"
	"devrouter/internal/boundaries/out"
	"devrouter/internal/usecase/cert"
	"devrouter/internal/usecase/envcheck"
	"devrouter/internal/usecase/routing"
)

const shutdownTimeout = 10 * time.Second

// rearmInterval bounds how long the watcher waits before re-reading the
// group set, so groups added through the API get watched too.
const rearmInterval = time.Minute

// initLogger initializes the zerowrap logger.
func initLogger(cfg Config) (zerowrap.Logger, func(), error) {
	logConfig := zerowrap.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	}

	if cfg.Logging.File.Enabled {
		logPath := cfg.Logging.File.Path
		if logPath == "" {
			logPath = filepath.Join(cfg.Server.DataDir, "logs", "devrouter.log")
		}

		log, cleanup, err := zerowrap.NewWithFile(logConfig, zerowrap.FileConfig{
			Enabled:    true,
			Path:       logPath,
			MaxSize:    cfg.Logging.File.MaxSize,
			MaxBackups: cfg.Logging.File.MaxBackups,
			MaxAge:     cfg.Logging.File.MaxAge,
			Compress:   true,
		})
		if err != nil {
			return zerowrap.Default(), nil, fmt.Errorf("failed to create logger with file: %w", err)
		}
		return log, cleanup, nil
	}

	return zerowrap.New(logConfig), nil, nil
}

// Services bundles the wired use cases for the HTTP API and CLI commands.
type Services struct {
	Routing *routing.Service
	Cert    *cert.Service
	Env     *envcheck.Service
}

// BuildServices wires adapters and use cases from the configuration.
func BuildServices(cfg Config, log zerowrap.Logger) (*Services, error) {
	store, err := statestore.New(cfg.Server.DataDir, log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize state store: %w", err)
	}

	exec := executor.New(cfg.Exec.Timeout, log)
	scan := scanner.New(log)

	var renderer out.ArtifactRenderer
	switch cfg.Artifacts.Format {
	case "map":
		renderer = routemap.New(cfg.Server.AdminURL)
	case "apache", "":
		renderer = apacheconf.New(cfg.Server.AdminURL, cfg.SSL.CertFile, cfg.SSL.KeyFile)
	default:
		return nil, fmt.Errorf("unknown artifact format %q", cfg.Artifacts.Format)
	}

	trigger := reload.New(cfg.Reload.Script, exec, log)
	issuer := mkcert.New(exec, log)

	routingSvc := routing.NewService(store, scan, renderer, trigger, routing.Config{
		HTTPConfPath: cfg.Artifacts.HTTPConf,
		SSLConfPath:  cfg.Artifacts.SSLConf,
	})
	certSvc := cert.NewService(routingSvc, store, issuer, trigger, cert.Config{
		CertFile: cfg.SSL.CertFile,
		KeyFile:  cfg.SSL.KeyFile,
	})
	envSvc := envcheck.NewService(exec, issuer)

	return &Services{Routing: routingSvc, Cert: certSvc, Env: envSvc}, nil
}

// Run starts the admin API server and, when enabled, the group watcher.
// It blocks until the context is canceled or SIGINT/SIGTERM arrives.
func Run(ctx context.Context, cfg Config) error {
	log, cleanup, err := initLogger(cfg)
	if err != nil {
		return err
	}
	if cleanup != nil {
		defer cleanup()
	}

	svc, err := BuildServices(cfg, log)
	if err != nil {
		return err
	}

	ctx = zerowrap.WithCtx(ctx, log)
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Synthesize artifacts on startup so a crash or manual edit never
	// leaves them out of sync with the state file.
	if _, err := svc.Routing.Rescan(ctx); err != nil {
		return fmt.Errorf("initial scan failed: %w", err)
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(apihttp.RequestLogger(log))
	apihttp.NewHandler(svc.Routing, svc.Cert, svc.Env).Register(e)

	errCh := make(chan error, 1)
	go func() {
		log.Info().
			Str(zerowrap.FieldLayer, "app").
			Str("listen", cfg.Server.Listen).
			Msg("admin API listening")
		if err := e.Start(cfg.Server.Listen); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	if cfg.Watcher.Enabled {
		go watchGroups(ctx, svc.Routing, watcher.New(log), log)
	}

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
	}

	log.Info().Str(zerowrap.FieldLayer, "app").Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}
	return nil
}

// watchGroups rescans whenever a group directory changes. The group set is
// re-read after every rescan, so newly added groups are picked up on the
// next iteration.
func watchGroups(ctx context.Context, svc *routing.Service, w *watcher.FSNotify, log zerowrap.Logger) {
	for {
		groups, _, err := svc.ListGroups(ctx)
		if err != nil {
			log.Warn().
				Str(zerowrap.FieldLayer, "app").
				Err(err).
				Msg("watcher cannot read groups")
			return
		}

		paths := make([]string, 0, len(groups))
		for _, g := range groups {
			if g.Exists {
				paths = append(paths, g.Path)
			}
		}

		armCtx, cancel := context.WithTimeout(ctx, rearmInterval)
		err = w.WaitChange(armCtx, paths)
		cancel()
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			continue
		}

		if _, err := svc.Rescan(ctx); err != nil {
			log.Warn().
				Str(zerowrap.FieldLayer, "app").
				Err(err).
				Msg("automatic rescan failed")
		} else {
			log.Info().
				Str(zerowrap.FieldLayer, "app").
				Msg("group change detected, artifacts regenerated")
		}
	}
}
