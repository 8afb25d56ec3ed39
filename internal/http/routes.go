package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mallikarjuna-sindiri/sendy/internal/limiter"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

type RouterOptions struct {
	CORSOrigins    []string
	RequestTimeout time.Duration
	Unlock         limiter.Limiter // nil disables unlock throttling
	Service        string          // Datadog service name; empty disables request spans
}

func NewRouter(h *Handler, opt RouterOptions) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestID())
	if opt.Service != "" {
		r.Use(Trace(opt.Service))
	}
	r.Use(Metrics())
	r.Use(AccessLog())
	r.Use(CORS(opt.CORSOrigins))

	r.GET("/healthz", h.Healthz)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	unlock := opt.Unlock
	if unlock == nil {
		unlock = limiter.Noop{}
	}

	api := r.Group("/domains", Timeout(opt.RequestTimeout))
	{
		api.POST("", h.CreateDomain)
		api.POST("/:slug/unlock", RateLimitUnlock(unlock), h.UnlockDomain)
		api.GET("/:slug", h.GetDomain)
		api.PUT("/:slug", h.UpdateDomain)
		api.DELETE("/:slug", h.DeleteDomain)
		api.POST("/:slug/files", h.PresignUpload)
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "route not found"})
	})
	return r
}
