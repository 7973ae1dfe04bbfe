package middleware

import (
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"syscall"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"uploader/internal/logger"
)

func TestRecovery_PanicBecomes500(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Logger(logger.NewNop()), Recovery(logger.NewNop()))
	r.GET("/boom", func(c *gin.Context) { panic("unexpected") })
	r.GET("/ok", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)

	// The engine survives the panic.
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ok", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestIsBrokenPipe(t *testing.T) {
	pipeErr := &net.OpError{Err: os.NewSyscallError("write", syscall.EPIPE)}
	assert.True(t, isBrokenPipe(pipeErr))
	assert.False(t, isBrokenPipe("unexpected"))
	assert.False(t, isBrokenPipe(&net.OpError{Err: os.NewSyscallError("write", syscall.ECONNREFUSED)}))
}
