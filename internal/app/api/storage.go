package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	boardserver "github.com/Apurer/svgboard-api/go"
	boardmemory "github.com/Apurer/svgboard-api/internal/domains/boards/adapters/memory"
	boardpostgres "github.com/Apurer/svgboard-api/internal/domains/boards/adapters/persistence/postgres"
	boardsqlite "github.com/Apurer/svgboard-api/internal/domains/boards/adapters/persistence/sqlite"
	boardsports "github.com/Apurer/svgboard-api/internal/domains/boards/ports"
	"github.com/Apurer/svgboard-api/internal/platform/migrations"
	platformpostgres "github.com/Apurer/svgboard-api/internal/platform/postgres"
	platformsqlite "github.com/Apurer/svgboard-api/internal/platform/sqlite"
)

// storage is the set of board ports backed by one engine.
type storage struct {
	backend   string
	projects  boardsports.ProjectRepository
	snapshots boardsports.SnapshotRepository
	tx        boardsports.Transactor
	// pinger is nil for the memory backend.
	pinger boardserver.Pinger
	close  func() error
}

func memoryStorage() *storage {
	store := boardmemory.NewStore()
	return &storage{
		backend:   StorageMemory,
		projects:  store.Projects(),
		snapshots: store.Snapshots(),
		tx:        store,
		close:     func() error { return nil },
	}
}

// openStorage resolves the configured backend. An explicit backend that
// cannot be opened is an error; auto falls back to memory.
func openStorage(ctx context.Context, cfg Config, logger *slog.Logger) (*storage, error) {
	switch cfg.StorageBackend {
	case StorageMemory:
		return memoryStorage(), nil
	case StoragePostgres:
		return openPostgres(ctx, cfg)
	case StorageSQLite:
		return openSQLite(ctx, cfg.SQLitePath)
	case StorageAuto:
		var (
			st  *storage
			err error
		)
		switch {
		case cfg.PostgresDSN != "":
			st, err = openPostgres(ctx, cfg)
		case cfg.SQLitePath != "":
			st, err = openSQLite(ctx, cfg.SQLitePath)
		default:
			logger.Warn("no database configured, using in-memory board storage")
			return memoryStorage(), nil
		}
		if err != nil {
			logger.Warn("failed to open board storage, falling back to memory", slog.String("error", err.Error()))
			return memoryStorage(), nil
		}
		return st, nil
	}
	return nil, fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
}

func openPostgres(ctx context.Context, cfg Config) (*storage, error) {
	db, err := platformpostgres.Connect(ctx, cfg.PostgresDSN, cfg.PostgresDriver)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	if err := migrations.Run(db.WithContext(ctx)); err != nil {
		return nil, errors.Join(fmt.Errorf("migrate postgres: %w", err), platformpostgres.Close(db))
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, errors.Join(err, platformpostgres.Close(db))
	}
	return &storage{
		backend:   StoragePostgres,
		projects:  boardpostgres.NewProjectRepository(db),
		snapshots: boardpostgres.NewSnapshotRepository(db),
		tx:        platformpostgres.NewTransactor(db),
		pinger:    sqlDB,
		close:     sqlDB.Close,
	}, nil
}

func openSQLite(ctx context.Context, path string) (*storage, error) {
	db, err := platformsqlite.Open(ctx, path)
	if err != nil {
		return nil, err
	}
	if err := migrations.RunSQLite(ctx, db); err != nil {
		return nil, errors.Join(fmt.Errorf("migrate sqlite: %w", err), db.Close())
	}
	return &storage{
		backend:   StorageSQLite,
		projects:  boardsqlite.NewProjectRepository(db),
		snapshots: boardsqlite.NewSnapshotRepository(db),
		tx:        platformsqlite.NewTransactor(db),
		pinger:    db,
		close:     db.Close,
	}, nil
}
