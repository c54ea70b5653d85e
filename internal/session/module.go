package session

import (
	"context"
	"log/slog"

	"go.uber.org/fx"

	"github.com/polkiloo/ashconsole/internal/domain/repository"
)

// Module provides the device session store and the login redirector.
var Module = fx.Provide(newStore, NewRedirector)

type storeParams struct {
	fx.In

	Ctx    context.Context
	Repo   repository.TokenRepository
	Logger *slog.Logger
}

func newStore(p storeParams) (*Store, error) {
	return NewStore(p.Ctx, p.Repo, p.Logger)
}
