package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"tasklist/pkg/config"
	"tasklist/pkg/logging"
	"tasklist/pkg/storage"
	"tasklist/pkg/store"
)

const closeTimeout = 10 * time.Second

// App bundles everything a command needs
type App struct {
	Config   config.Config
	Palettes config.Palettes
	Slots    storage.Slots
	Store    *store.Store

	logCloser io.Closer
}

// openApp sets up logging, loads config, and opens storage and the store
func openApp(ctx context.Context, opts *options) (*App, error) {
	logCfg, err := logging.ConfigFromEnv()
	if err != nil {
		return nil, fmt.Errorf("error reading logging config: %w", err)
	}
	logCloser, err := logging.Init(logCfg, opts.verbose)
	if err != nil {
		return nil, fmt.Errorf("error initializing logging: %w", err)
	}

	app := &App{logCloser: logCloser}

	cfg, palettes, err := config.Load(opts.configPath)
	if err != nil {
		_ = logCloser.Close()
		return nil, err
	}
	if opts.ephemeral {
		cfg.Storage.Backend = storage.BackendMemory
	}
	app.Config, app.Palettes = cfg, palettes

	log := logging.Module("cli")
	log.Debug("opening storage", "backend", cfg.Storage.Backend)

	slots, err := storage.Open(ctx, cfg.Storage)
	if err != nil {
		_ = logCloser.Close()
		return nil, fmt.Errorf("error opening storage: %w", err)
	}
	app.Slots = slots

	st, err := store.Open(ctx, slots, store.WithLogger(logging.Module("store")))
	if err != nil {
		_ = slots.Close()
		_ = logCloser.Close()
		return nil, err
	}
	app.Store = st

	return app, nil
}

// Close flushes pending writes and releases storage and the log file
func (a *App) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), closeTimeout)
	defer cancel()

	var errs []error
	if err := a.Store.Close(ctx); err != nil && !errors.Is(err, store.ErrClosed) {
		errs = append(errs, fmt.Errorf("flush tasks: %w", err))
	}
	if err := a.Slots.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close storage: %w", err))
	}
	if err := a.logCloser.Close(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}
