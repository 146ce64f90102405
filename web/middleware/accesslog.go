package middleware

import (
	"time"

	"github.com/drsdgdbye/user-panel/logger"
	"github.com/drsdgdbye/user-panel/util/metrics"

	"github.com/gin-gonic/gin"
)

// AccessLog writes one line per request and records request metrics.
func AccessLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		elapsed := time.Since(start)
		status := c.Writer.Status()
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}

		metrics.HTTPRequestsTotal.WithLabelValues(c.Request.Method, route, statusClass(status)).Inc()
		metrics.HTTPRequestDuration.WithLabelValues(c.Request.Method, route).Observe(elapsed.Seconds())
		if status >= 400 {
			metrics.HTTPErrorsTotal.WithLabelValues(route).Inc()
		}

		line := "%s %s %s %d %s [%s]"
		args := []any{c.ClientIP(), c.Request.Method, c.Request.URL.Path, status, elapsed, GetRequestID(c)}
		switch {
		case status >= 500:
			logger.Errorf(line, args...)
		case status >= 400:
			logger.Infof(line, args...)
		default:
			logger.Debugf(line, args...)
		}
	}
}

func statusClass(status int) string {
	switch {
	case status >= 500:
		return "5xx"
	case status >= 400:
		return "4xx"
	case status >= 300:
		return "3xx"
	default:
		return "2xx"
	}
}
