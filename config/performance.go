package config

import (
	"time"

	"serviceconnect-backend/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// SlowRequestThreshold is the latency above which a request is flagged.
// Mock endpoints sleep on purpose, so it sits above the longest simulated delay.
const SlowRequestThreshold = 2 * time.Second

func PerformanceLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		latency := time.Since(start)
		logger := utils.LoggerFrom(c)
		logger.Info("[PERF]",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", latency))

		if latency > SlowRequestThreshold {
			logger.Warn("slow request",
				zap.String("method", c.Request.Method),
				zap.String("path", c.Request.URL.Path),
				zap.Duration("latency", latency))
		}
	}
}
