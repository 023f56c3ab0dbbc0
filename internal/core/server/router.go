package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"employee-api/internal/core/logger"
)

type Options struct {
	Mode        string   // gin mode: debug / release / test
	CORSOrigins []string // empty or "*" allows any origin
}

// NewRouter returns a gin engine with panic recovery and CORS installed.
// onPanic writes the response body for a recovered panic.
func NewRouter(l *zap.Logger, o Options, onPanic gin.RecoveryFunc) *gin.Engine {
	if o.Mode != "" {
		gin.SetMode(o.Mode)
	}
	gin.DefaultWriter = logger.ToWriter(l, zapcore.DebugLevel)
	gin.DefaultErrorWriter = logger.ToWriter(l, zapcore.ErrorLevel)

	r := gin.New()
	r.Use(ginzap.CustomRecoveryWithZap(l, true, onPanic))
	r.Use(cors.New(corsConfig(o.CORSOrigins)))
	return r
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.DefaultConfig()
	cfg.AllowMethods = []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions}
	cfg.ExposeHeaders = []string{"X-Request-ID"}
	cfg.MaxAge = 12 * time.Hour
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cfg
}

func StartHTTP(srv *http.Server, l *zap.Logger) error {
	l.Info("http starting", zap.String("addr", srv.Addr))
	return srv.ListenAndServe()
}

func BuildServer(addr string, handler http.Handler, rt, wt, it time.Duration) *http.Server {
	return &http.Server{
		Addr:           addr,
		Handler:        handler,
		ReadTimeout:    rt,
		WriteTimeout:   wt,
		IdleTimeout:    it,
		MaxHeaderBytes: 1 << 20, // 1MB
	}
}

func Addr(host string, port int) string { return fmt.Sprintf("%s:%d", host, port) }
