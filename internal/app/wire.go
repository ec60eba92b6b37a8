package app

import (
	"context"
	"fmt"
	"io"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"calc/internal/domain"
	"calc/internal/expression"
	calcsvc "calc/internal/services/calculator"
	historysvc "calc/internal/services/history"
	plotsvc "calc/internal/services/plot"
	themesvc "calc/internal/services/theme"
	"calc/internal/store"
)

// Wire bundles the store, engine and services for the CLI and TUI.
type Wire struct {
	KV         domain.KVStore
	Engine     domain.Engine
	History    domain.HistoryService
	Calculator domain.CalculatorService
	Plot       domain.PlotService
	Theme      domain.ThemeService
	Log        *zap.Logger

	// PlotVariable is the variable plots bind unless told otherwise.
	PlotVariable string

	closer io.Closer
}

// NewWire constructs the dependency graph from cfg. A nil logger discards
// log output.
func NewWire(cfg Config, log *zap.Logger) (*Wire, error) {
	if log == nil {
		log = zap.NewNop()
	}

	kv, closer, err := openStore(cfg)
	if err != nil {
		return nil, err
	}
	log.Debug("Store opened", zap.String("backend", cfg.Store), zap.String("home", cfg.Home))

	engine := expression.NewEngine()
	history := historysvc.New(kv, log)

	return &Wire{
		KV:           kv,
		Engine:       engine,
		History:      history,
		Calculator:   calcsvc.New(engine, history, log),
		Plot:         plotsvc.New(engine, log),
		Theme:        themesvc.New(kv, cfg.InitialTheme(), log),
		Log:          log,
		PlotVariable: cfg.Plot.Variable,
		closer:       closer,
	}, nil
}

func openStore(cfg Config) (domain.KVStore, io.Closer, error) {
	switch cfg.Store {
	case StoreFile, "":
		return store.NewFileKV(cfg.Home), nil, nil
	case StoreSealed:
		kv, err := store.NewSealedKV(cfg.Home, cfg.Passphrase)
		if err != nil {
			return nil, nil, fmt.Errorf("sealed store: %w", err)
		}
		return kv, nil, nil
	case StoreSQLite:
		kv, err := store.NewSQLiteKV(cfg.Home)
		if err != nil {
			return nil, nil, fmt.Errorf("sqlite store: %w", err)
		}
		return kv, kv, nil
	case StoreMemory:
		return store.NewMemoryKV(), nil, nil
	default:
		return nil, nil, fmt.Errorf("%w: %q", ErrUnknownStore, cfg.Store)
	}
}

// Preloaded is the persisted state the calculator starts from.
type Preloaded struct {
	History []domain.HistoryEntry
	Theme   domain.Theme
}

// Preload loads history and theme concurrently. Both services swallow
// storage errors, so only cancellation of ctx is reported.
func (w *Wire) Preload(ctx context.Context) (Preloaded, error) {
	var out Preloaded
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		out.History = w.History.Load(gctx)
		return nil
	})
	g.Go(func() error {
		out.Theme = w.Theme.Load(gctx)
		return nil
	})
	if err := g.Wait(); err != nil {
		return out, err
	}
	return out, ctx.Err()
}

// Close releases the store, if it holds any resources.
func (w *Wire) Close() error {
	if w.closer == nil {
		return nil
	}
	return w.closer.Close()
}
