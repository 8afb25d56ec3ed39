package http_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mallikarjuna-sindiri/sendy/internal/domain"
	api "github.com/mallikarjuna-sindiri/sendy/internal/http"
	"github.com/mallikarjuna-sindiri/sendy/internal/limiter"
	"github.com/mallikarjuna-sindiri/sendy/internal/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusFor(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{domain.Errorf(domain.ErrInvalidInput, "bad"), http.StatusBadRequest},
		{domain.Errorf(domain.ErrConflict, "exists"), http.StatusConflict},
		{domain.Errorf(domain.ErrNotFound, "missing"), http.StatusNotFound},
		{domain.Errorf(domain.ErrGone, "expired"), http.StatusGone},
		{domain.Errorf(domain.ErrUnauthorized, "nope"), http.StatusUnauthorized},
		{domain.Errorf(domain.ErrUnavailable, "off"), http.StatusNotImplemented},
		{errors.New("socket closed"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, api.StatusFor(tc.err), tc.err.Error())
	}
}

func TestRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(api.RequestID())
	r.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, log.RequestID(c.Request.Context()))
	})

	w := serve(r, "GET", "/", "", nil)
	minted := w.Header().Get(api.HeaderRequestID)
	require.NotEmpty(t, minted)
	assert.Equal(t, minted, w.Body.String())

	w = serve(r, "GET", "/", "", map[string]string{api.HeaderRequestID: "abc-123"})
	assert.Equal(t, "abc-123", w.Header().Get(api.HeaderRequestID))
	assert.Equal(t, "abc-123", w.Body.String())
}

type failingLimiter struct{}

func (failingLimiter) Allow(context.Context, string) (bool, error) {
	return false, errors.New("redis down")
}

func TestRateLimitUnlock(t *testing.T) {
	gin.SetMode(gin.TestMode)
	build := func(l limiter.Limiter) *gin.Engine {
		r := gin.New()
		r.POST("/domains/:slug/unlock", api.RateLimitUnlock(l), func(c *gin.Context) {
			c.Status(http.StatusOK)
		})
		return r
	}

	r := build(limiter.NewLocal(1, time.Minute))
	assert.Equal(t, http.StatusOK, serve(r, "POST", "/domains/demo/unlock", "", nil).Code)
	w := serve(r, "POST", "/domains/demo/unlock", "", nil)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.JSONEq(t, `{"error":"too many requests"}`, w.Body.String())
	assert.Equal(t, http.StatusOK, serve(r, "POST", "/domains/other/unlock", "", nil).Code)

	r = build(failingLimiter{})
	assert.Equal(t, http.StatusOK, serve(r, "POST", "/domains/demo/unlock", "", nil).Code)
}

func TestTimeout(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(api.Timeout(time.Second))
	r.GET("/", func(c *gin.Context) {
		_, ok := c.Request.Context().Deadline()
		if ok {
			c.Status(http.StatusOK)
			return
		}
		c.Status(http.StatusTeapot)
	})
	assert.Equal(t, http.StatusOK, serve(r, "GET", "/", "", nil).Code)
}

func TestCORS(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(api.CORS([]string{"http://localhost:5173"}))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := serve(r, "GET", "/", "", map[string]string{"Origin": "http://localhost:5173"})
	assert.Equal(t, "http://localhost:5173", w.Header().Get("Access-Control-Allow-Origin"))

	w = serve(r, "GET", "/", "", map[string]string{"Origin": "http://evil.example"})
	assert.Equal(t, http.StatusForbidden, w.Code)
}
