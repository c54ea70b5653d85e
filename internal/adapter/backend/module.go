package backend

import (
	"log/slog"

	"go.uber.org/fx"

	"github.com/polkiloo/ashconsole/internal/config"
	"github.com/polkiloo/ashconsole/internal/domain/repository"
	"github.com/polkiloo/ashconsole/internal/session"
)

// Module exposes the backend client and its gateways to the fx graph.
var Module = fx.Provide(
	newClient,
	func(c *Client) repository.AccountGateway { return NewAccountGateway(c) },
	func(c *Client) repository.OrderGateway { return NewOrderGateway(c) },
)

type clientParams struct {
	fx.In

	Config     *config.Config
	Store      *session.Store
	Redirector *session.Redirector
	Logger     *slog.Logger
}

func newClient(p clientParams) (*Client, error) {
	return NewClient(p.Config.BackendURL, p.Config.RequestTimeout, p.Store, p.Redirector, p.Logger)
}
