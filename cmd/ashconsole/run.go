package main

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/fx"
)

// run starts the console and blocks until a signal arrives or a component
// asks fx to shut down.
func run(ctx context.Context, app *fx.App) {
	if err := app.Err(); err != nil {
		fmt.Fprintf(os.Stderr, "invalid ashconsole configuration: %v\n", err)
		os.Exit(2)
	}
	if err := app.Start(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "failed to start ashconsole: %v\n", err)
		os.Exit(1)
	}

	select {
	case <-ctx.Done():
	case <-app.Done():
	}

	stopCtx, cancel := context.WithTimeout(context.Background(), app.StopTimeout())
	defer cancel()
	if err := app.Stop(stopCtx); err != nil {
		fmt.Fprintf(os.Stderr, "failed to stop ashconsole: %v\n", err)
		os.Exit(1)
	}
}
