package api

import (
	"github.com/gin-gonic/gin"

	"github.com/eg4lux/luxpower/pkg/logger"
)

// LoggerMiddleware provides request logging using the decoupled logger
// instead of gin's default writer-based logging.
func LoggerMiddleware(log logger.Logger) gin.HandlerFunc {
	middlewareLog := log.With(logger.String("component", "api_middleware"))

	return gin.LoggerWithFormatter(func(param gin.LogFormatterParams) string {
		fields := []logger.Field{
			logger.String("method", param.Method),
			logger.String("path", param.Path),
			logger.String("protocol", param.Request.Proto),
			logger.Int("status_code", param.StatusCode),
			logger.Duration("latency", param.Latency),
			logger.String("client_ip", param.ClientIP),
			logger.String("user_agent", param.Request.UserAgent()),
		}
		if param.ErrorMessage != "" {
			fields = append(fields, logger.String("error", param.ErrorMessage))
		}

		switch {
		case param.StatusCode >= 500:
			middlewareLog.Error("http request completed with server error", fields...)
		case param.StatusCode >= 400:
			middlewareLog.Warn("http request completed with client error", fields...)
		default:
			middlewareLog.Info("http request completed", fields...)
		}
		return ""
	})
}

// CORSMiddleware handles Cross-Origin Resource Sharing for the
// operational API, which is typically consumed by a browser dashboard
// running on a different origin than the inverter's local network.
func CORSMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	}
}

// ErrorHandlerMiddleware logs any errors gin.Context accumulated during
// request handling.
func ErrorHandlerMiddleware(log logger.Logger) gin.HandlerFunc {
	middlewareLog := log.With(logger.String("component", "error_middleware"))

	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) > 0 {
			err := c.Errors.Last()
			middlewareLog.Error("request completed with errors",
				logger.String("path", c.Request.URL.Path),
				logger.String("method", c.Request.Method),
				logger.Err(err))
		}
	}
}
