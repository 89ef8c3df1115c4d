package middleware_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"todochain/config"
	"todochain/infras/otel/mocks"
	cacheMocks "todochain/shared/cache/mocks"
	"todochain/shared/constant"
	"todochain/transport/http/middleware"
)

func newConfig() *config.Config {
	cfg := &config.Config{}
	cfg.App.Name = "todochain"
	cfg.App.RateLimiter.Enable = true
	cfg.App.RateLimiter.MaxRequests = 2
	cfg.App.RateLimiter.WindowSeconds = 60

	return cfg
}

var noContent = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusNoContent)
})

func TestRateLimit(t *testing.T) {
	cfg := newConfig()
	cache := cacheMocks.NewMockRedisCache(gomock.NewController(t))
	handler := middleware.NewAppMiddleware(mocks.NewOtel(), cfg, cache).RateLimit()(noContent)

	key := "todochain:limiter:10.0.0.1:cli"

	gomock.InOrder(
		cache.EXPECT().Increment(gomock.Any(), key, 60).Return(int64(1), nil),
		cache.EXPECT().Increment(gomock.Any(), key, 60).Return(int64(2), nil),
		cache.EXPECT().Increment(gomock.Any(), key, 60).Return(int64(3), nil),
	)

	wantCodes := []int{http.StatusNoContent, http.StatusNoContent, http.StatusTooManyRequests}
	wantRemaining := []string{"1", "0", "0"}

	for i, want := range wantCodes {
		request := httptest.NewRequest(http.MethodGet, "/v1/clock", nil)
		request.Header.Set(constant.RequestHeaderForwardedFor, "10.0.0.1, 172.16.0.1")
		request.Header.Set(constant.RequestHeaderUserAgent, "cli")

		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, request)

		assert.Equal(t, want, recorder.Code)
		assert.Equal(t, "2", recorder.Header().Get(constant.RequestHeaderRateLimit))
		assert.Equal(t, wantRemaining[i], recorder.Header().Get(constant.RequestHeaderRateLimitRemaining))
	}
}

func TestRateLimit_CacheUnavailable(t *testing.T) {
	cache := cacheMocks.NewMockRedisCache(gomock.NewController(t))
	cache.EXPECT().Increment(gomock.Any(), gomock.Any(), gomock.Any()).Return(int64(0), errors.New("dial tcp: refused"))

	handler := middleware.NewAppMiddleware(mocks.NewOtel(), newConfig(), cache).RateLimit()(noContent)

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusNoContent, recorder.Code)
	assert.Empty(t, recorder.Header().Get(constant.RequestHeaderRateLimit))
}

func TestRateLimit_Disabled(t *testing.T) {
	cfg := newConfig()
	cfg.App.RateLimiter.Enable = false

	cache := cacheMocks.NewMockRedisCache(gomock.NewController(t))
	handler := middleware.NewAppMiddleware(mocks.NewOtel(), cfg, cache).RateLimit()(noContent)

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusNoContent, recorder.Code)
}

func TestRequestID(t *testing.T) {
	app := middleware.NewAppMiddleware(mocks.NewOtel(), newConfig(), nil)

	var seen string
	handler := app.RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = r.Context().Value(constant.ContextKeyRequestID).(string)
	}))

	t.Run("generated", func(t *testing.T) {
		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/", nil))

		require.NotEmpty(t, seen)
		assert.Equal(t, seen, recorder.Header().Get(constant.RequestHeaderRequestID))
	})

	t.Run("propagated", func(t *testing.T) {
		request := httptest.NewRequest(http.MethodGet, "/", nil)
		request.Header.Set(constant.RequestHeaderRequestID, "req-42")

		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, request)

		assert.Equal(t, "req-42", seen)
		assert.Equal(t, "req-42", recorder.Header().Get(constant.RequestHeaderRequestID))
	})
}
