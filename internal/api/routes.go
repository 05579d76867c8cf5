package api

import (
	"github.com/gin-gonic/gin"

	"github.com/eg4lux/luxpower/pkg/logger"
)

// SetupRoutes configures all API routes.
func SetupRoutes(handlers *Handlers, log logger.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()

	// Middleware
	router.Use(LoggerMiddleware(log))
	router.Use(CORSMiddleware())
	router.Use(ErrorHandlerMiddleware(log))
	router.Use(gin.Recovery())

	// Health check
	router.GET("/health", handlers.HealthCheck)

	// API routes
	api := router.Group("/api/v1")
	{
		api.GET("/devices", handlers.ListDevices)

		deviceGroup := api.Group("/devices/:serial")
		{
			deviceGroup.GET("/runtime", handlers.GetRuntime)
			deviceGroup.GET("/energy", handlers.GetEnergy)
			deviceGroup.GET("/battery", handlers.GetBattery)
			deviceGroup.GET("/gridboss", handlers.GetGridBOSS)

			deviceGroup.GET("/parameters", handlers.GetParameters)
			deviceGroup.POST("/parameters", handlers.SetParameters)
			deviceGroup.POST("/battery-soc-limits", handlers.SetBatterySOCLimits)
			deviceGroup.POST("/ac-charge-schedule/:period", handlers.SetACChargeSchedule)
			deviceGroup.GET("/ac-charge-schedule/:period", handlers.GetACChargeSchedule)

			deviceGroup.POST("/probe", handlers.RunBatteryProbe)
		}
	}

	return router
}
