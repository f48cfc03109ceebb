package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := initializeApp()
	if err != nil {
		fmt.Fprintf(os.Stderr, "greenguardian: wire application: %v\n", err)
		os.Exit(1)
	}

	if err := app.Run(ctx); err != nil {
		stop()
		fmt.Fprintf(os.Stderr, "greenguardian: %v\n", err)
		os.Exit(1)
	}
}
