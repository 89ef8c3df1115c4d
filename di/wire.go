//go:build wireinject
// +build wireinject

package di

import (
	"todochain/config"
	"todochain/infras/jwt"
	"todochain/infras/otel"
	"todochain/infras/redis"
	"todochain/infras/s3"
	"todochain/shared/cache"
	"todochain/transport/http"
	"todochain/transport/http/middleware"
	"todochain/transport/http/router"

	ledgerService "todochain/internal/domains/ledger/service"
	"todochain/internal/domains/ledger/system"
	todoService "todochain/internal/domains/todo/service"
	ledgerHandler "todochain/internal/handlers/ledger"
	todoHandler "todochain/internal/handlers/todo"

	"github.com/google/wire"
)

var configurations = wire.NewSet(
	config.Get,
)

var infrastructures = wire.NewSet(
	otel.New,
	redis.New,
	jwt.New,
	s3.New,
	provideKafka,
	provideClock,
)

var middlewares = wire.NewSet(
	middleware.NewAppMiddleware,
	middleware.NewAuthMiddleware,
)

var sharedHelpers = wire.NewSet(
	cache.NewRedisCache,
)

var ledgerDomain = wire.NewSet(
	provideAccountRepository,
	system.New,
	ledgerService.NewRegistry,
	ledgerService.New,
)

var todoDomain = wire.NewSet(
	wire.Bind(new(todoService.StorageProvisioner), new(*system.Program)),
	todoService.ProgramID,
	todoService.New,
	todoService.NewReader,
)

var domains = wire.NewSet(
	ledgerDomain,
	todoDomain,
)

var routing = wire.NewSet(
	wire.Struct(new(router.DomainHandlers), "*"),
	ledgerHandler.New,
	todoHandler.New,
	router.New,
)

func InitializeService() (*http.HTTP, func(), error) {
	wire.Build(
		configurations,
		infrastructures,
		middlewares,
		sharedHelpers,
		domains,
		routing,
		http.New,
	)

	return nil, nil, nil
}
