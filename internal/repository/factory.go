package repository

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/dtroode/quantum-mirror/internal/config"
	"github.com/dtroode/quantum-mirror/internal/model"
	"github.com/dtroode/quantum-mirror/internal/repository/file"
	"github.com/dtroode/quantum-mirror/internal/repository/memory"
	"github.com/dtroode/quantum-mirror/internal/repository/postgres"
	"github.com/dtroode/quantum-mirror/internal/repository/redis"
	"github.com/dtroode/quantum-mirror/internal/repository/sqlite"
)

// Store engines selectable with STORE_ENGINE.
const (
	EngineFile     = "file"
	EngineSQLite   = "sqlite"
	EnginePostgres = "postgres"
	EngineRedis    = "redis"
	EngineMemory   = "memory"
)

// sqliteFile is the database file created under STORE_PATH when it names a directory.
const sqliteFile = "quantum-mirror.db"

// OpenBackend opens the durable store backend selected by cfg.
func OpenBackend(ctx context.Context, cfg *config.Config) (model.Backend, error) {
	switch cfg.Store.Engine {
	case EngineFile, "":
		return file.New(cfg.Store.Path)
	case EngineSQLite:
		path := cfg.Store.Path
		if filepath.Ext(path) == "" {
			if _, err := file.New(path); err != nil {
				return nil, err
			}
			path = filepath.Join(path, sqliteFile)
		}
		return sqlite.Open(path)
	case EnginePostgres:
		conn, err := postgres.Connect(ctx, cfg.Database.DSN)
		if err != nil {
			return nil, err
		}
		return postgres.NewKVRepository(conn), nil
	case EngineRedis:
		return redis.Open(cfg.Redis.Addr, cfg.Redis.Prefix)
	case EngineMemory:
		return memory.New(), nil
	default:
		return nil, fmt.Errorf("unknown store engine %q", cfg.Store.Engine)
	}
}
