package config

import "go.uber.org/fx"

// Module provides the console *Config read from .env, environment and flags.
var Module = fx.Provide(Load)
