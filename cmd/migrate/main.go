package main

import (
	"errors"
	"os"

	"github.com/rs/zerolog/log"

	"todochain/config"
	"todochain/helper"
	"todochain/shared/logger"
)

const (
	argLength = 2
)

func main() {
	logger.InitLogger()

	if len(os.Args) < argLength {
		log.Fatal().Msg("Migration direction (up/down) is required")
	}

	cfg := config.Get()
	logger.SetLogLevel(cfg)

	if err := helper.Runner(cfg, os.Args[1]); err != nil {
		if errors.Is(err, helper.ErrUnknownAction) {
			log.Fatal().Err(err).Msg("Invalid direction. Use 'up', 'down', 'drop' or 'step-up'")
		}

		log.Fatal().Err(err).Str("action", os.Args[1]).Msg("Migration failed")
	}
}
