package handler

import (
	"net/http"
	"seva/config"
	"seva/di"
	"seva/shared/logger"
	"sync"
)

var (
	app  http.Handler
	once sync.Once
)

// Handler is the serverless entry point. The dependency graph is built on the first request
// and reused while the instance stays warm.
func Handler(w http.ResponseWriter, r *http.Request) {
	once.Do(func() {
		logger.InitLogger()
		logger.SetLogLevel(config.Get())

		app = di.InitializeService()
	})

	r.RequestURI = r.URL.String()

	app.ServeHTTP(w, r)
}
