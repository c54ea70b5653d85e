package usecase

import (
	"go.uber.org/fx"

	"github.com/polkiloo/ashconsole/internal/config"
	"github.com/polkiloo/ashconsole/internal/session"
)

// Module provides core business use cases to the fx container.
var Module = fx.Provide(
	func(s *session.Store) SessionStore { return s },
	NewAuthUseCase,
	NewResetFlow,
	NewOrderUseCase,
	NewBoard,
	newQuoteSettings,
	NewQuoteForm,
)

func newQuoteSettings(cfg *config.Config) QuoteSettings {
	return QuoteSettings{WorkingLanguage: cfg.WorkingLanguage, MaxUploadBytes: cfg.MaxUploadBytes}
}
