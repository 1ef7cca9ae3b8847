package importer

import (
	"context"

	"github.com/matheus3301/waimport/internal/lock"
	"github.com/matheus3301/waimport/internal/logging"
	"github.com/matheus3301/waimport/internal/store"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Params holds the resolved settings passed to the fx module.
type Params struct {
	StorePath string
	OwnName   string
	Server    string
	LogPath   string // optional JSON log file; empty = stderr only
}

// Module returns the fx module for one importer invocation, composing
// logger, store lock, store, allocator and engine.
func Module(p Params) fx.Option {
	return fx.Module("importer",
		fx.Supply(p),
		fx.Provide(
			provideLogger,
			provideLock,
			provideStore,
			provideImporter,
		),
	)
}

func provideLogger(p Params, lc fx.Lifecycle) (*zap.Logger, error) {
	logger, err := logging.New(p.LogPath, p.StorePath)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			_ = logger.Sync()
			return nil
		},
	})
	return logger, nil
}

func provideLock(p Params, logger *zap.Logger, lc fx.Lifecycle) (*lock.Lock, error) {
	l, err := lock.Acquire(p.StorePath)
	if err != nil {
		return nil, err
	}
	logger.Info("store lock acquired", zap.String("path", p.StorePath))
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			return l.Release()
		},
	})
	return l, nil
}

// provideStore opens (or bootstraps) the store and seeds the
// allocator. The lock dependency orders acquisition before the first
// database touch.
func provideStore(p Params, _ *lock.Lock, logger *zap.Logger, lc fx.Lifecycle) (*store.DB, *store.Allocator, error) {
	db, fresh, err := store.Open(p.StorePath)
	if err != nil {
		return nil, nil, err
	}
	result, err := db.Migrate()
	if err != nil {
		_ = db.Close()
		return nil, nil, err
	}
	if result.Changed {
		logger.Info("migrations applied", zap.Uint("version", result.Version))
	}

	alloc, err := store.NewAllocator(db, fresh)
	if err != nil {
		_ = db.Close()
		return nil, nil, err
	}

	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			return db.Close()
		},
	})
	logger.Info("store initialized",
		zap.String("path", p.StorePath),
		zap.Bool("fresh", fresh),
	)
	return db, alloc, nil
}

func provideImporter(p Params, db *store.DB, alloc *store.Allocator, logger *zap.Logger) *Importer {
	return New(db, alloc, p.OwnName, p.Server, logger)
}
