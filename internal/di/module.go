package di

import (
	"go.uber.org/fx"

	"github.com/polkiloo/ashconsole/internal/adapter/backend"
	"github.com/polkiloo/ashconsole/internal/app"
	"github.com/polkiloo/ashconsole/internal/config"
	"github.com/polkiloo/ashconsole/internal/logger"
	"github.com/polkiloo/ashconsole/internal/server/http/router"
	"github.com/polkiloo/ashconsole/internal/session"
	"github.com/polkiloo/ashconsole/internal/storage"
	"github.com/polkiloo/ashconsole/internal/usecase"
)

func Module(opts ...fx.Option) fx.Option {
	modules := []fx.Option{
		config.Module,
		logger.Module,
		storage.Module,
		session.Module,
		backend.Module,
		usecase.Module,
		router.Module,
		app.Module,
	}
	modules = append(modules, opts...)
	return fx.Options(modules...)
}
