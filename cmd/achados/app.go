package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/leeozaka/achados/internal/auth"
	"github.com/leeozaka/achados/internal/backend"
	"github.com/leeozaka/achados/internal/backend/memory"
	"github.com/leeozaka/achados/internal/backend/sqlstore"
	"github.com/leeozaka/achados/internal/config"
	"github.com/leeozaka/achados/internal/observability"
	"github.com/leeozaka/achados/internal/paths"
	"github.com/leeozaka/achados/internal/relay"
	"github.com/leeozaka/achados/internal/router"
	"github.com/leeozaka/achados/internal/ui"
)

const sqliteFile = "achados.db"

var screenFlag string

// app is everything a command needs once config, logging and the backend are up.
type app struct {
	cfg     *config.Config
	dataDir string
	store   backend.Store
	logFile *os.File
}

func (a *app) Close() {
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			observability.Logger().Warn("close store", "error", err)
		}
	}
	if a.logFile != nil {
		a.logFile.Close()
	}
}

// setup resolves directories, loads config, starts logging and opens the backend.
func setup(ctx context.Context) (*app, error) {
	configDir, err := paths.ResolveConfigDir(configDirFlag)
	if err != nil {
		return nil, fmt.Errorf("resolve config dir: %w", err)
	}
	cfg, err := loadConfig(configDir)
	if err != nil {
		return nil, err
	}

	dataDir, err := paths.ResolveDataDir(dataDirFlag, cfg.DataDir)
	if err != nil {
		return nil, fmt.Errorf("resolve data dir: %w", err)
	}

	a := &app{cfg: cfg, dataDir: dataDir}
	a.logFile, err = observability.OpenLogFile(dataDir)
	if err != nil {
		return nil, err
	}
	observability.Setup(a.logFile, observability.ParseLevel(cfg.LogLevel))

	store, err := openStore(ctx, cfg, dataDir)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("open %s backend: %w", cfg.Backend, err)
	}
	a.store = store
	observability.Logger().Info("backend ready", "backend", string(cfg.Backend), "data_dir", dataDir)
	return a, nil
}

// loadConfig reads the config file and applies the --backend override.
func loadConfig(dir string) (*config.Config, error) {
	cfg, err := config.Load(dir)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if backendFlag != "" {
		cfg.Backend = config.Backend(backendFlag)
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

func openStore(ctx context.Context, cfg *config.Config, dataDir string) (backend.Store, error) {
	switch cfg.Backend {
	case config.BackendSQLite, config.BackendPostgres:
		opts := sqlstore.Options{Driver: sqlstore.DriverSQLite, DSN: filepath.Join(dataDir, sqliteFile)}
		if cfg.Backend == config.BackendPostgres {
			opts = sqlstore.Options{Driver: sqlstore.DriverPostgres, DSN: cfg.DSN}
		}
		s, err := sqlstore.Open(ctx, opts)
		if err != nil {
			return nil, err
		}
		return s, nil
	}
	s, err := memory.New(memory.Options{
		Latency:      cfg.Timing.Latency,
		SendDelay:    cfg.Timing.SendDelay,
		HashPassword: auth.HashPassword,
	})
	if err != nil {
		return nil, err
	}
	return s, nil
}

func runUI(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	a, err := setup(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	opts := ui.Options{
		Services: backend.Services{
			Store: a.store,
			Auth:  auth.NewService(a.store, a.cfg.JWTSecret, a.cfg.AdminEmails...),
		},
		Config:    a.cfg,
		ExportDir: a.dataDir,
	}

	if a.cfg.RedisAddr != "" {
		r, err := relay.Dial(ctx, a.cfg.RedisAddr)
		if err != nil {
			// chat still works locally without the relay
			observability.Logger().Warn("relay unavailable", "addr", a.cfg.RedisAddr, "error", err)
		} else {
			defer r.Close()
			opts.Relay = r
		}
	}

	if screenFlag != "" && !router.ScreenID(screenFlag).Known() {
		screenFlag = string(router.FromPath(screenFlag))
	}
	return ui.Run(ctx, opts, screenFlag)
}
