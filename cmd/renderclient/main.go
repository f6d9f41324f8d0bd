package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/plastinin/renderclient/internal/cli"
)

func main() {
	// Контекст отменяется по SIGINT/SIGTERM: serve завершается штатно, render прерывает ожидание
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := cli.Run(ctx, os.Args); err != nil {
		stop()
		os.Exit(1)
	}
}
