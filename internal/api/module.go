package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"

	"github.com/eg4lux/luxpower/internal/config"
	"github.com/eg4lux/luxpower/internal/device"
	"github.com/eg4lux/luxpower/internal/health"
	"github.com/eg4lux/luxpower/pkg/logger"
)

// Module provides the operational API server to the Fx application.
var Module = fx.Module("api",
	fx.Provide(
		ProvideHandlers,
		ProvideRouter,
		ProvideHTTPServer,
	),
	fx.Invoke(RegisterLifecycle),
)

// ProvideHandlers creates the API handlers.
func ProvideHandlers(station *device.Station, healthService *health.HealthService, log logger.Logger) *Handlers {
	return NewHandlers(station, healthService, log)
}

// ProvideRouter creates and configures the Gin router.
func ProvideRouter(handlers *Handlers, log logger.Logger) *gin.Engine {
	return SetupRoutes(handlers, log)
}

// ProvideHTTPServer creates the HTTP server.
func ProvideHTTPServer(cfg *config.Config, router *gin.Engine) *http.Server {
	return &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.API.Host, cfg.API.Port),
		Handler: router,
	}
}

// RegisterLifecycle registers lifecycle hooks for the HTTP server.
func RegisterLifecycle(lc fx.Lifecycle, server *http.Server, log logger.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info("starting api server", logger.String("addr", server.Addr))
			go func() {
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Error("api server error", logger.Err(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info("stopping api server")
			return server.Shutdown(ctx)
		},
	})
}
