package storage

import (
	"context"
	"fmt"
	"log/slog"

	"go.uber.org/fx"

	"github.com/polkiloo/ashconsole/internal/config"
	"github.com/polkiloo/ashconsole/internal/domain/repository"
	"github.com/polkiloo/ashconsole/internal/storage/file"
	"github.com/polkiloo/ashconsole/internal/storage/postgres"
)

// Module selects the token persistence backend: PostgreSQL when a
// DATABASE_URI is configured, otherwise the local session file.
var Module = fx.Provide(newTokenRepository)

type repositoryParams struct {
	fx.In

	Ctx       context.Context
	Lifecycle fx.Lifecycle
	Config    *config.Config
	Logger    *slog.Logger
}

func newTokenRepository(p repositoryParams) (repository.TokenRepository, error) {
	if p.Config.DatabaseURI == "" {
		p.Logger.Info("persisting session to file", slog.String("path", p.Config.TokenFile), slog.Bool("sealed", p.Config.TokenStoreKey != nil))
		return file.New(p.Config.TokenFile, p.Config.TokenStoreKey, p.Logger)
	}

	storage, err := postgres.New(p.Ctx, p.Config.DatabaseURI, p.Config.DeviceID, p.Logger)
	if err != nil {
		return nil, err
	}
	appendPoolHooks(p.Lifecycle, storage, p.Logger)
	p.Logger.Info("persisting session to postgres", slog.String("device", p.Config.DeviceID))
	return storage, nil
}

// pooled is a repository backed by a connection pool.
type pooled interface {
	HealthCheck(ctx context.Context) error
	Close()
}

// appendPoolHooks checks the database on start and closes the pool on stop.
func appendPoolHooks(lc fx.Lifecycle, db pooled, logger *slog.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := db.HealthCheck(ctx); err != nil {
				return fmt.Errorf("session database unreachable: %w", err)
			}
			logger.Debug("session database reachable")
			return nil
		},
		OnStop: func(context.Context) error {
			db.Close()
			return nil
		},
	})
}
