package di

import (
	"fmt"

	"github.com/benbjohnson/clock"
	"github.com/rs/zerolog/log"

	"todochain/config"
	"todochain/helper"
	"todochain/infras/kafka"
	"todochain/infras/otel"
	"todochain/infras/postgres"
	"todochain/internal/domains/ledger/repository"
	"todochain/shared/constant"
)

// provideAccountRepository picks the account store named by LEDGER_STORAGE.
func provideAccountRepository(cfg *config.Config, otel otel.Otel) (repository.Account, func(), error) {
	switch cfg.Ledger.Storage {
	case constant.LedgerStorageMemory, constant.Empty:
		log.Warn().Msg("Using in-memory ledger storage, state is lost on restart")

		return repository.NewMemory(), func() {}, nil
	case constant.LedgerStoragePostgres:
		if cfg.DB.Postgres.AutoMigrate {
			if err := helper.Up(cfg); err != nil {
				return nil, nil, fmt.Errorf("failed to migrate ledger schema: %w", err)
			}
		}

		conn, err := postgres.New(cfg)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect ledger storage: %w", err)
		}

		cleanup := func() {
			if err := conn.Close(); err != nil {
				log.Error().Err(err).Msg("Failed to close postgres connections")
			}
		}

		return repository.NewPostgres(conn, otel), cleanup, nil
	default:
		return nil, nil, fmt.Errorf("unknown ledger storage %q", cfg.Ledger.Storage)
	}
}

func provideKafka(cfg *config.Config) (kafka.Client, func()) {
	client := kafka.New(cfg)

	return client, func() {
		if err := client.Close(); err != nil {
			log.Error().Err(err).Msg("Failed to close kafka writers")
		}
	}
}

func provideClock() clock.Clock {
	return clock.New()
}
