package middleware

import (
	"net"
	"net/http"
	"os"
	"runtime/debug"
	"strings"

	"uploader/internal/logger"

	"github.com/gin-gonic/gin"
)

// Recovery turns handler panics into 500s instead of killing the upload
// run the status server rides along with.
func Recovery(log *logger.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		// A client hanging up mid-response is not a server fault.
		if isBrokenPipe(recovered) {
			c.Abort()
			return
		}

		log.Error("Panic in %s %s: %v\n%s", c.Request.Method, c.Request.URL.Path, recovered, debug.Stack())
		c.AbortWithStatus(http.StatusInternalServerError)
	})
}

func isBrokenPipe(recovered interface{}) bool {
	ne, ok := recovered.(*net.OpError)
	if !ok {
		return false
	}
	se, ok := ne.Err.(*os.SyscallError)
	if !ok {
		return false
	}
	msg := strings.ToLower(se.Error())
	return strings.Contains(msg, "broken pipe") || strings.Contains(msg, "connection reset by peer")
}
