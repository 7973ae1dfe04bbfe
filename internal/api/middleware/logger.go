package middleware

import (
	"time"

	"uploader/internal/logger"

	"github.com/gin-gonic/gin"
)

// Logger routes request logs through the shared logging facade so the
// status server's output interleaves cleanly with the upload workers'.
func Logger(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Info("%s %s -> %d in %s (%s)",
			c.Request.Method,
			c.Request.URL.Path,
			c.Writer.Status(),
			time.Since(start).Round(time.Microsecond),
			c.ClientIP(),
		)
	}
}
