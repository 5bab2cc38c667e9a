package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"runtime"

	"clickcounter/internal/app"
)

func init() {
	// HighGUI must stay on the thread that created the window.
	runtime.LockOSThread()
}

func main() {
	application, err := app.NewApp()
	if err != nil {
		log.Fatalf("Failed to start: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := application.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatalf("Session failed: %v", err)
	}
}
