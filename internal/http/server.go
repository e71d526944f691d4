package http

import (
	"context"
	"net/http"
	"sync"

	"github.com/guaraci/paylink-gateway/internal/config"
	"github.com/guaraci/paylink-gateway/internal/dispatch"
	"github.com/guaraci/paylink-gateway/internal/http/middleware"
	"github.com/guaraci/paylink-gateway/internal/link"
	"github.com/guaraci/paylink-gateway/internal/logger"
	"github.com/guaraci/paylink-gateway/internal/metrics"
	"github.com/labstack/echo/v4"
	echoMid "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type Server struct{ e *echo.Echo }

// Deps carries everything the handlers need. Notifier lives behind the
// coordinator; Redis may be nil (rate limiting then passes through).
type Deps struct {
	Cfg      config.Config
	Registry link.Registry
	Coord    *dispatch.Coordinator
	Janitor  *dispatch.Janitor
	Redis    *redis.Client
}

var registerMetricsOnce sync.Once

func NewServer(d Deps) *Server {
	e := echo.New()
	e.HideBanner = true
	// total request cap: two 5 MiB images plus fields and multipart framing
	e.Use(echoMid.Recover(), echoMid.Logger(), echoMid.BodyLimit("12M"))

	registerMetricsOnce.Do(func() {
		metrics.MustRegister(prometheus.DefaultRegisterer)
	})

	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// health
	e.GET("/healthz", func(c echo.Context) error { return c.String(http.StatusOK, "ok") })
	e.GET("/", rootStatusHandler())
	e.GET("/api/status", apiStatusHandler())

	rlMW := middleware.RateLimitMiddleware(middleware.RateLimitConfig{
		Redis:          d.Redis,
		Requests:       d.Cfg.RateLimit.Requests,
		Window:         d.Cfg.RateLimit.Window,
		RetryAfterHint: true,
	})

	// routes
	api := e.Group("/api", rlMW)
	api.POST("/generate-link", generateLinkHandler(d.Cfg.Links, d.Registry))
	api.POST("/submit-payment", submitPaymentHandler(d))

	return &Server{e: e}
}

func (s *Server) Start(addr string) error {
	logger.Log.Info("http: listening", zap.String("addr", addr))
	return s.e.Start(addr)
}
func (s *Server) Shutdown(ctx context.Context) error { return s.e.Shutdown(ctx) }

// Handler exposes the routing tree for httptest-based tests.
func (s *Server) Handler() http.Handler { return s.e }
