package handler

import (
	"net/http"
	"sync"

	"todochain/config"
	"todochain/di"
	"todochain/shared/failure"
	"todochain/shared/logger"
	"todochain/transport/http/response"
)

var (
	once    sync.Once
	handler http.Handler
	initErr error
)

// Handler serves the API from a serverless function. The ledger is built once per instance.
func Handler(w http.ResponseWriter, r *http.Request) {
	r.RequestURI = r.URL.String()

	once.Do(func() {
		cfg := config.Get()

		logger.InitLogger()

		logger.SetLogLevel(cfg)

		server, _, err := di.InitializeService()
		if err != nil {
			initErr = err

			return
		}

		handler = server.Handler()
	})

	if initErr != nil {
		response.WithError(w, failure.InternalError(initErr))

		return
	}

	handler.ServeHTTP(w, r)
}
