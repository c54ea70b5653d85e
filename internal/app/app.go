package app

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"

	"github.com/polkiloo/ashconsole/internal/config"
	"github.com/polkiloo/ashconsole/internal/domain/model"
	"github.com/polkiloo/ashconsole/internal/server/http/handlers"
	"github.com/polkiloo/ashconsole/internal/session"
	"github.com/polkiloo/ashconsole/internal/usecase"
)

// Module wires application services, runtime components, and lifecycle hooks.
var Module = fx.Options(
	fx.Provide(
		NewConsoleFacade,
		func(f *ConsoleFacade) handlers.ConsoleFacade { return f },
		newHTTPServer,
	),
	fx.Invoke(resetBoardOnSignOut),
	fx.Invoke(registerLifecycle),
)

type serverParams struct {
	fx.In

	Config *config.Config
	Router *gin.Engine
}

func newHTTPServer(p serverParams) *http.Server {
	return &http.Server{
		Addr:    p.Config.RunAddress,
		Handler: p.Router,
	}
}

type signOutParams struct {
	fx.In

	Lifecycle fx.Lifecycle
	Store     *session.Store
	Board     *usecase.Board
}

// resetBoardOnSignOut empties the order list whenever the session is
// cleared, so the next operator never sees the previous list.
func resetBoardOnSignOut(p signOutParams) {
	unsubscribe := p.Store.Subscribe(func(pair model.TokenPair) {
		if pair.Empty() {
			p.Board.Reset()
		}
	})
	p.Lifecycle.Append(fx.StopHook(unsubscribe))
}

type lifecycleParams struct {
	fx.In

	Lifecycle  fx.Lifecycle
	Shutdowner fx.Shutdowner
	Logger     *slog.Logger
	Server     *http.Server
	Config     *config.Config
}

func registerLifecycle(p lifecycleParams) {
	p.Lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			p.Logger.Info("starting ashconsole",
				slog.String("addr", p.Server.Addr),
				slog.String("backend", p.Config.BackendURL),
			)
			go func() {
				if err := p.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					p.Logger.Error("http server terminated", slog.String("error", err.Error()))
					_ = p.Shutdowner.Shutdown()
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx := ctx
			cancel := func() {}
			if _, ok := ctx.Deadline(); !ok {
				shutdownCtx, cancel = context.WithTimeout(ctx, p.Config.ShutdownTimeout)
			}
			defer cancel()

			if err := p.Server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			p.Logger.Info("ashconsole stopped")
			return nil
		},
	})
}
