package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"

	"todochain/internal/cli"
	"todochain/shared/logger"
)

func main() {
	logger.InitLogger()
	zerolog.SetGlobalLevel(zerolog.WarnLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	code := cli.Run(ctx, os.Args, os.Stdout, os.Stderr)

	stop()
	os.Exit(code)
}
