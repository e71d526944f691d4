package http

import (
	"net/http"
	"strings"

	"github.com/guaraci/paylink-gateway/internal/config"
	"github.com/guaraci/paylink-gateway/internal/link"
	"github.com/guaraci/paylink-gateway/internal/logger"
	"github.com/guaraci/paylink-gateway/internal/metrics"
	echo "github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

func generateLinkHandler(cfg config.LinksConfig, registry link.Registry) echo.HandlerFunc {
	return func(c echo.Context) error {
		id := link.New()

		// best-effort: a registry write failure must not block issuance
		if err := registry.Record(c.Request().Context(), id); err != nil {
			logger.Log.Warn("link registry record failed", zap.String("link_id", id), zap.Error(err))
		}

		metrics.LinksIssuedTotal.Inc()

		return c.JSON(http.StatusOK, map[string]string{
			"identifier": id,
			"fullUrl":    strings.TrimRight(cfg.BaseURL, "/") + "/pagamento/" + id,
		})
	}
}
