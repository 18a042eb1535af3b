package main

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/fx"
)

func run(ctx context.Context, app *fx.App) {
	if err := app.Start(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "craftmarket: start: %v\n", err)
		os.Exit(1)
	}

	select {
	case <-ctx.Done():
	case sig := <-app.Done():
		fmt.Fprintf(os.Stderr, "craftmarket: received %s, shutting down\n", sig)
	}

	// ctx is cancelled by now; stop hooks bound their own timeouts.
	if err := app.Stop(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "craftmarket: stop: %v\n", err)
		os.Exit(1)
	}
}
