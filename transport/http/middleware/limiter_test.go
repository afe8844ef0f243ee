package middleware_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"seva/config"
	"seva/infras/otel/mocks"
	cacheMocks "seva/shared/cache/mocks"
	"seva/transport/http/middleware"
)

func newLimited(t *testing.T, enable bool) (*cacheMocks.MockRedisCache, http.Handler) {
	t.Helper()

	ctrl := gomock.NewController(t)
	redisCache := cacheMocks.NewMockRedisCache(ctrl)

	cfg := &config.Config{}
	cfg.App.Name = "seva"
	cfg.App.RateLimiter.Enable = enable
	cfg.App.RateLimiter.MaxRequests = 2
	cfg.App.RateLimiter.WindowSeconds = 60

	app := middleware.NewAppMiddleware(mocks.NewOtel(), cfg, redisCache)

	router := chi.NewRouter()
	router.Use(app.Tracing, app.RateLimit())
	router.Get("/ping", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	return redisCache, router
}

func ping(handler http.Handler) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.RemoteAddr = "10.0.0.7:51234"
	req.Header.Set("User-Agent", "seva-test")

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	return rec
}

func TestRateLimitFirstRequest(t *testing.T) {
	redisCache, handler := newLimited(t, true)

	redisCache.EXPECT().Incr(gomock.Any(), "limiter:10.0.0.7:seva-test", 60).Return(int64(1), nil)

	rec := ping(handler)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "2", rec.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "1", rec.Header().Get("X-RateLimit-Remaining"))
	assert.Equal(t, "60", rec.Header().Get("X-RateLimit-Window"))
}

func TestRateLimitExceeded(t *testing.T) {
	redisCache, handler := newLimited(t, true)

	redisCache.EXPECT().Incr(gomock.Any(), gomock.Any(), gomock.Any()).Return(int64(3), nil)

	rec := ping(handler)

	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "0", rec.Header().Get("X-RateLimit-Remaining"))
}

func TestRateLimitFailsOpen(t *testing.T) {
	redisCache, handler := newLimited(t, true)

	redisCache.EXPECT().Incr(gomock.Any(), gomock.Any(), gomock.Any()).Return(int64(0), errors.New("connection refused"))

	rec := ping(handler)

	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestClientIdentity(t *testing.T) {
	tests := []struct {
		name    string
		headers map[string]string
		wantKey string
	}{
		{name: "first forwarded hop", headers: map[string]string{"X-Forwarded-For": "203.0.113.9, 10.0.0.1", "User-Agent": "app"}, wantKey: "limiter:203.0.113.9:app"},
		{name: "real ip header", headers: map[string]string{"X-Real-IP": "198.51.100.4"}, wantKey: "limiter:198.51.100.4:unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			redisCache, handler := newLimited(t, true)

			redisCache.EXPECT().Incr(gomock.Any(), tt.wantKey, 60).Return(int64(1), nil)

			req := httptest.NewRequest(http.MethodGet, "/ping", nil)
			for key, value := range tt.headers {
				req.Header.Set(key, value)
			}

			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusNoContent, rec.Code)
		})
	}
}

func TestRateLimitDisabled(t *testing.T) {
	_, handler := newLimited(t, false)

	rec := ping(handler)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Header().Get("X-RateLimit-Limit"))
}
