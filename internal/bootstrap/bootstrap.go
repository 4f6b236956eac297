// Package bootstrap builds the logger and store shared by the api server and bountyctl.
package bootstrap

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/hosico-labs/bounty-backend/internal/config"
	"github.com/hosico-labs/bounty-backend/internal/repositories"
	"github.com/hosico-labs/bounty-backend/internal/repositories/memory"
	mongorepo "github.com/hosico-labs/bounty-backend/internal/repositories/mongodb"
	pgrepo "github.com/hosico-labs/bounty-backend/internal/repositories/postgres"
	"github.com/hosico-labs/bounty-backend/pkg/mongodb"
	"github.com/hosico-labs/bounty-backend/pkg/postgres"
	"golang.org/x/exp/slog"
)

// NewLogger builds a slog logger from the log section of the config
func NewLogger(cfg config.LogConfig, w io.Writer) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if strings.EqualFold(cfg.Format, "json") {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	return slog.New(handler)
}

// OpenStore connects to the configured backend and prepares its schema
func OpenStore(ctx context.Context, cfg *config.Config) (*repositories.Store, error) {
	switch cfg.Store.Driver {
	case config.DriverMongoDB:
		client, err := mongodb.NewClient(cfg.MongoDB.URI, cfg.MongoDB.ConnectTimeout)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
		}
		db := client.Database(cfg.MongoDB.Database)
		if err := mongorepo.EnsureIndexes(ctx, db); err != nil {
			_ = client.Disconnect(ctx)
			return nil, err
		}
		store := mongorepo.NewStore(db)
		store.Ping = client.Ping
		store.Close = client.Disconnect
		return store, nil

	case config.DriverPostgres:
		db, err := postgres.Open(cfg.Postgres.DSN, postgres.DefaultOptions())
		if err != nil {
			return nil, err
		}
		if err := pgrepo.Migrate(ctx, db); err != nil {
			_ = postgres.Close(ctx, db)
			return nil, err
		}
		store := pgrepo.NewStore(db)
		store.Ping = func(ctx context.Context) error { return postgres.Ping(ctx, db) }
		store.Close = func(ctx context.Context) error { return postgres.Close(ctx, db) }
		return store, nil

	case config.DriverMemory:
		slog.Warn("Using in-memory store; data is lost on restart")
		return memory.NewStore(), nil

	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
}
