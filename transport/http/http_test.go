package http_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"todochain/config"
	"todochain/infras/jwt"
	"todochain/infras/otel/mocks"
	"todochain/internal/handlers/ledger"
	"todochain/internal/handlers/todo"
	"todochain/shared/cache"
	"todochain/shared/constant"
	transport "todochain/transport/http"
	"todochain/transport/http/middleware"
	"todochain/transport/http/router"
)

func TestHealth(t *testing.T) {
	cfg := &config.Config{}
	cfg.App.Name = "todochain"

	otel := mocks.NewOtel()
	auth := middleware.NewAuthMiddleware(jwt.New(cfg), otel, cfg)
	server := transport.New(
		cfg,
		router.New(router.DomainHandlers{
			Ledger: ledger.New(nil, auth, otel),
			Todo:   todo.New(nil, otel),
		}),
		middleware.NewAppMiddleware(otel, cfg, cache.NewRedisCache(nil, otel)),
		auth,
		otel,
	)

	recorder := httptest.NewRecorder()
	server.Handler().ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.NotEmpty(t, recorder.Header().Get(constant.RequestHeaderRequestID))
	assert.Equal(t, transport.ServerStateReady, server.State())
}
