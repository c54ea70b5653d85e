package logger

import "go.uber.org/fx"

// Module provides the process-wide JSON *slog.Logger.
var Module = fx.Provide(New)
