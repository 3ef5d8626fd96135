package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"umkm-marketplace/internal/access"
	"umkm-marketplace/internal/core/server"
	"umkm-marketplace/internal/service"
	mdw "umkm-marketplace/internal/transport/http/middleware"
	resp "umkm-marketplace/internal/transport/http/response"
)

// Limits bounds what one engine accepts. Zero fields disable that limit.
type Limits struct {
	RPS         float64
	Burst       int
	Concurrency int64
	BodyBytes   int64
	Timeout     time.Duration
}

type Deps struct {
	Log      *zap.Logger
	Pipeline *access.Pipeline
	Auth     *service.AuthService
	Modules  *Registry
	Limits   Limits
}

func NewAPIEngine(d Deps) *gin.Engine {
	r := base(d)

	api := r.Group("/api/v1")
	api.Use(mdw.Authenticate(d.Pipeline, d.Log))

	mountAuthActions(api, d.Log, d.Auth)
	d.Modules.MountAllAPI(api)
	return r
}

// base is the engine shared by both binaries: guards, metrics, access log,
// health and metrics endpoints.
func base(d Deps) *gin.Engine {
	r := server.NewRouter(d.Log)
	r.Use(mdw.RequestID(), mdw.AccessLog(d.Log), mdw.Metrics())
	if d.Limits.RPS > 0 {
		r.Use(mdw.RateLimitPerIP(rate.Limit(d.Limits.RPS), max(1, d.Limits.Burst)))
	}
	if d.Limits.Concurrency > 0 {
		r.Use(mdw.ConcurrencyLimit(d.Limits.Concurrency))
	}
	if d.Limits.BodyBytes > 0 {
		r.Use(mdw.MaxBodyBytes(d.Limits.BodyBytes))
	}
	if d.Limits.Timeout > 0 {
		r.Use(mdw.Timeout(d.Limits.Timeout))
	}

	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": 1}) })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, resp.Error(http.StatusNotFound, ""))
	})
	return r
}
