package main

import (
	"encoding/json"
	"flag"
	"os"

	"github.com/rs/zerolog/log"

	"todochain/config"
	"todochain/infras/jwt"
	"todochain/shared/constant"
	"todochain/shared/logger"
)

func main() {
	operator := flag.String("operator", "", "operator id the token is issued to")
	role := flag.String("role", constant.RoleOperator, "operator or reader")
	flag.Parse()

	logger.InitLogger()

	cfg := config.Get()
	logger.SetLogLevel(cfg)

	if *operator == "" {
		log.Fatal().Msg("-operator is required")
	}

	if *role != constant.RoleOperator && *role != constant.RoleReader {
		log.Fatal().Str("role", *role).Msg("role must be operator or reader")
	}

	token, err := jwt.New(cfg).GenerateToken(*operator, *role)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to issue token")
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")

	if err := encoder.Encode(token); err != nil {
		log.Fatal().Err(err).Msg("Failed to print token")
	}
}
