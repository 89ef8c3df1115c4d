package redis

import (
	"context"
	"fmt"
	"net"

	goRedis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"todochain/config"
)

// New connects to the primary Redis used for the account cache and the rate limiter.
// It returns a nil client when caching is disabled.
func New(config *config.Config) (*goRedis.Client, error) {
	if !config.Cache.Enable {
		log.Warn().Msg("Cache disabled, skipping Redis connection")

		return nil, nil
	}

	primary := config.Cache.Redis.Primary

	client := goRedis.NewClient(&goRedis.Options{
		Addr:     net.JoinHostPort(primary.Host, primary.Port),
		Password: primary.Password,
		DB:       primary.DB,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		_ = client.Close()

		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	log.Info().
		Int("db", primary.DB).
		Str("host", primary.Host).
		Str("port", primary.Port).
		Msg("Connected to Redis")

	return client, nil
}
