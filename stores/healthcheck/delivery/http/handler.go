package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/x-xyz/marketplace/base/ctx"
	hcdomain "github.com/x-xyz/marketplace/domain/healthcheck"
)

const (
	healthy   = "ok"
	unhealthy = "failed"
)

type healthResp struct {
	Healthy  string                   `json:"healthy"`
	Backends []hcdomain.BackendStatus `json:"backends"`
}

type healthCheckHandler struct {
	healthCheck hcdomain.HealthCheckUsecase
}

func New(e *echo.Echo, us hcdomain.HealthCheckUsecase) {
	handler := &healthCheckHandler{
		healthCheck: us,
	}
	e.GET("/health", handler.check)
	e.HEAD("/health", handler.check)
}

func (h *healthCheckHandler) check(c echo.Context) error {
	context := c.Get("ctx").(ctx.Ctx)

	res := healthResp{Healthy: healthy, Backends: h.healthCheck.Report(context)}
	for _, b := range res.Backends {
		if !b.Healthy {
			res.Healthy = unhealthy
			context.WithField("backend", b.Name).Error("health check failed: " + b.Error)
		}
	}

	if res.Healthy != healthy {
		return c.JSON(http.StatusServiceUnavailable, res)
	}
	return c.JSON(http.StatusOK, res)
}
