package router

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"employee-api/internal/core/server"
	mdw "employee-api/internal/transport/http/middleware"
	resp "employee-api/internal/transport/http/response"
)

type Limits struct {
	RPS            float64
	Burst          int
	PerIPRPS       float64
	PerIPBurst     int
	MaxConcurrent  int64
	MaxBodyBytes   int64
	RequestTimeout time.Duration
}

type Options struct {
	BasePath    string // e.g. "/api"
	Mode        string
	CORSOrigins []string
	Limits      Limits
	// Health reports backing-store reachability for GET /health. Nil means always healthy.
	Health func(ctx context.Context) error
}

func NewAPIEngine(l *zap.Logger, o Options, mods ...APIModule) *gin.Engine {
	r := server.NewRouter(l, server.Options{Mode: o.Mode, CORSOrigins: o.CORSOrigins}, func(c *gin.Context, _ any) {
		resp.Abort(c, http.StatusInternalServerError, "internal error")
	})

	r.Use(mdw.RequestID(), mdw.Metrics(), mdw.AccessLog(l))
	if o.Limits.RPS > 0 {
		r.Use(mdw.RateLimit(rate.Limit(o.Limits.RPS), o.Limits.Burst))
	}
	if o.Limits.PerIPRPS > 0 {
		r.Use(mdw.RateLimitPerIP(rate.Limit(o.Limits.PerIPRPS), o.Limits.PerIPBurst))
	}
	// the deadline also bounds the wait for a concurrency slot
	if o.Limits.RequestTimeout > 0 {
		r.Use(mdw.Timeout(o.Limits.RequestTimeout))
	}
	if o.Limits.MaxConcurrent > 0 {
		r.Use(mdw.ConcurrencyLimit(o.Limits.MaxConcurrent))
	}
	if o.Limits.MaxBodyBytes > 0 {
		r.Use(mdw.MaxBodyBytes(o.Limits.MaxBodyBytes))
	}

	r.NoRoute(func(c *gin.Context) { resp.Fail(c, http.StatusNotFound, "route not found", "") })

	r.GET("/health", func(c *gin.Context) {
		if o.Health != nil {
			if err := o.Health(c.Request.Context()); err != nil {
				resp.Fail(c, http.StatusServiceUnavailable, "database unreachable", err.Error())
				return
			}
		}
		resp.OK(c, gin.H{"ok": 1})
	})
	r.GET("/metrics", gin.WrapH(mdw.MetricsHandler()))

	api := r.Group(o.BasePath)
	Mount(api, mods...)

	return r
}
