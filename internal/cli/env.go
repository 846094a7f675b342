package cli

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"

	"taskline/internal/config"
	"taskline/internal/logging"
	"taskline/internal/storage"
)

// env is the state every command starts from.
type env struct {
	cfg     *config.Config
	logger  *slog.Logger
	closeFn func() error
}

func (o *options) loadConfig() (*config.Config, error) {
	if o.configPath != "" {
		return config.LoadFile(o.configPath)
	}
	return config.Load()
}

// setup loads the configuration and opens the logger it names.
func (o *options) setup() (*env, error) {
	cfg, err := o.loadConfig()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	logger, closer, err := logging.Open(cfg.Log.File, cfg.Log.Level)
	if err != nil {
		return nil, fmt.Errorf("open log: %w", err)
	}
	logger = logger.With("version", o.version)

	return &env{cfg: cfg, logger: logger, closeFn: closer.Close}, nil
}

func (e *env) close() {
	if e.closeFn != nil {
		_ = e.closeFn()
	}
}

// newStore creates a store for the configured data file with save logging
// and toggle persistence wired in. The caller loads it.
func (e *env) newStore() *storage.Store {
	store := storage.New(e.cfg.GetDataFile())
	store.SetPersistToggles(e.cfg.UX.PersistToggles)
	store.SetOnSave(func(ctx storage.SaveContext) {
		e.logger.Debug("saved", "path", ctx.Path, "op", ctx.Operation, "task", ctx.Description)
	})
	return store
}

// loadStore opens and loads the data file for a one-shot command. Problems
// that leave the list usable are reported to w and logged.
func (e *env) loadStore(w io.Writer) (*storage.Store, error) {
	store := e.newStore()
	path := store.Path()
	if err := store.Load(path); err != nil {
		var readErr *storage.ReadError
		if !errors.As(err, &readErr) && storage.RecordErrors(err) == nil {
			store.Close()
			return nil, fmt.Errorf("open %s: %w", path, err)
		}
		e.logger.Warn("load incomplete", "path", path, "err", err)
		reportLoadErr(w, err)
	}
	return store, nil
}

// reportLoadErr prints a non-fatal load problem. A data file that does not
// exist yet is not worth a warning.
func reportLoadErr(w io.Writer, err error) {
	if errors.Is(err, fs.ErrNotExist) {
		return
	}
	if recs := storage.RecordErrors(err); len(recs) > 0 {
		for _, r := range recs {
			fmt.Fprintf(w, "Warning: skipped %v\n", r)
		}
		return
	}
	fmt.Fprintf(w, "Warning: %v; starting with an empty list\n", err)
}
