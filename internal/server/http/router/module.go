package router

import "go.uber.org/fx"

// Module provides the console gin engine with all routes mounted.
var Module = fx.Provide(Setup)
