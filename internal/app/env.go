package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/doglog-app/doglog/internal/config"
	"github.com/doglog-app/doglog/internal/journal"
	"github.com/doglog-app/doglog/internal/llm"
	"github.com/doglog-app/doglog/internal/logging"
	"github.com/doglog-app/doglog/internal/output"
	"github.com/doglog-app/doglog/internal/store"
	"github.com/doglog-app/doglog/internal/store/memory"
	"github.com/doglog-app/doglog/internal/store/postgres"
)

// nowFunc is replaced in tests.
var nowFunc = time.Now

// env is everything a command needs, built from the loaded config.
type env struct {
	cfg     *config.Config
	logger  *slog.Logger
	svc     *journal.Service
	gateway *llm.Gateway
	cache   llm.Cache

	// sqlite is the journal database when storage.driver is sqlite.
	sqlite  *store.DB
	closers []func() error
}

// openEnv loads config, applies output and logging settings, and opens the
// configured repository and analysis cache.
func openEnv(ctx context.Context) (*env, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	if flagNoColor || !cfg.Output.Color {
		output.SetNoColor(true)
	} else {
		output.AutoColor()
	}

	logCfg := logging.Config{Level: cfg.Log.Level, Format: cfg.Log.Format}
	if flagVerbose {
		logCfg.Level = "debug"
	}
	e := &env{cfg: cfg, logger: logging.New(os.Stderr, logCfg)}

	repo, err := e.openStorage(ctx)
	if err != nil {
		return nil, err
	}

	e.gateway = llm.NewGateway(llm.Config{
		APIKey:   cfg.LLM.APIKey,
		BaseURL:  cfg.LLM.BaseURL,
		Model:    cfg.LLM.Model,
		Timeout:  cfg.LLM.Timeout,
		CacheTTL: cfg.Cache.TTL,
	}, e.cache, llm.WithLogger(e.logger), llm.WithClock(nowFunc))

	e.svc = journal.NewService(repo,
		journal.WithInvalidator(e.gateway),
		journal.WithLogger(e.logger),
		journal.WithClock(nowFunc),
	)
	return e, nil
}

func (e *env) openStorage(ctx context.Context) (journal.Repository, error) {
	var (
		repo       journal.Repository
		storeCache llm.Cache
	)

	switch e.cfg.Storage.Driver {
	case "sqlite":
		db, err := store.Open(e.cfg.Storage.Path)
		if err != nil {
			return nil, fmt.Errorf("opening database: %w", err)
		}
		e.sqlite = db
		e.closers = append(e.closers, db.Close)
		repo, storeCache = db.Journal(), db.AnalysisCache()
	case "postgres":
		db, err := postgres.Open(ctx, e.cfg.Storage.DSN)
		if err != nil {
			return nil, fmt.Errorf("opening database: %w", err)
		}
		e.closers = append(e.closers, db.Close)
		repo, storeCache = db.Journal(), db.AnalysisCache()
	default:
		repo = memory.New()
	}

	e.cache = storeCache
	if e.cfg.Cache.Backend == "memory" || storeCache == nil {
		e.cache = llm.NewMemoryCache()
	}
	e.logger.Debug("storage opened", "driver", e.cfg.Storage.Driver, "cache", e.cfg.Cache.Backend)
	return repo, nil
}

// snapshotDB returns the SQLite database holding track snapshots. Other
// storage drivers keep snapshots in the default database file.
func (e *env) snapshotDB() (*store.DB, error) {
	if e.sqlite != nil {
		return e.sqlite, nil
	}
	db, err := store.Open(config.DBPath())
	if err != nil {
		return nil, fmt.Errorf("opening snapshot database: %w", err)
	}
	e.sqlite = db
	e.closers = append(e.closers, db.Close)
	return db, nil
}

func (e *env) now() time.Time {
	return nowFunc()
}

// Close releases everything openEnv opened.
func (e *env) Close() {
	var errs []error
	for i := len(e.closers) - 1; i >= 0; i-- {
		errs = append(errs, e.closers[i]())
	}
	if err := errors.Join(errs...); err != nil {
		e.logger.Warn("closing storage", "error", err)
	}
}

// resolveTimeRange applies --month over --range.
func resolveTimeRange(rangeFlag, monthFlag string) (journal.TimeRange, error) {
	if strings.TrimSpace(monthFlag) != "" {
		return journal.ParseTimeRange(monthFlag, nowFunc())
	}
	return journal.ParseTimeRange(rangeFlag, nowFunc())
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}

// ageString renders an age like "3y 2m" or "5m"; "-" when unknown.
func ageString(birth *time.Time, now time.Time) string {
	if birth == nil {
		return "-"
	}
	months := (now.Year()-birth.Year())*12 + int(now.Month()-birth.Month())
	if now.Day() < birth.Day() {
		months--
	}
	if months < 0 {
		return "-"
	}
	if months < 12 {
		return fmt.Sprintf("%dm", months)
	}
	if months%12 == 0 {
		return fmt.Sprintf("%dy", months/12)
	}
	return fmt.Sprintf("%dy %dm", months/12, months%12)
}
