package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	newsvecmder "github.com/papercomputeco/newsvec/cmd/newsvec"
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := newsvecmder.NewNewsvecCmd().ExecuteContext(ctx)
	switch {
	case err == nil:
		return 0
	case errors.Is(err, context.Canceled):
		// 128 + SIGINT
		return 130
	default:
		return 1
	}
}
