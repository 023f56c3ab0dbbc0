package main

import (
	"context"
	"errors"
	"fmt"
	stdlog "log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "go.uber.org/automaxprocs"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gorm.io/gorm"

	"employee-api/internal/core/config"
	"employee-api/internal/core/database"
	"employee-api/internal/core/logger"
	"employee-api/internal/core/server"
	"employee-api/internal/feature/employee"
	"employee-api/internal/repo"
	"employee-api/internal/service"
	"employee-api/internal/transport/http/handler"
	"employee-api/internal/transport/http/router"
)

func main() {
	_ = godotenv.Load()
	cfg, err := config.Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		stdlog.Fatalf("config: %v", err)
	}

	log, cleanup := newLogger(cfg)
	defer cleanup()
	undo := logger.RedirectStdLog(log, zapcore.InfoLevel)
	defer undo()

	db := mustOpenDB(cfg, log)
	defer func() { _ = database.Close(db) }()
	log.Info("database connected", zap.String("driver", cfg.DB.Driver))

	if cfg.DB.AutoMigrate {
		if err := employee.AutoMigrate(db); err != nil {
			log.Fatal("automigrate failed", zap.Error(err))
		}
		log.Info("automigrate done")
	}

	store := repo.NewEmployeeRepo(db)
	svc := service.NewEmployeeService(store)
	employees := handler.NewEmployeeHandler(svc, log)

	r := router.NewAPIEngine(log, router.Options{
		BasePath:    cfg.App.BasePath,
		Mode:        ginMode(cfg.App.Env),
		CORSOrigins: cfg.App.CORSOrigins,
		Limits: router.Limits{
			RPS:            cfg.Limits.RPS,
			Burst:          cfg.Limits.Burst,
			PerIPRPS:       cfg.Limits.PerIPRPS,
			PerIPBurst:     cfg.Limits.PerIPBurst,
			MaxConcurrent:  cfg.Limits.MaxConcurrent,
			MaxBodyBytes:   cfg.Limits.MaxBodyBytes,
			RequestTimeout: time.Duration(cfg.Limits.RequestTimeoutSec) * time.Second,
		},
		Health: func(ctx context.Context) error { return database.Ping(ctx, db) },
	}, employees)

	addr := server.Addr(cfg.App.HTTP.Host, cfg.App.HTTP.Port)
	srv := server.BuildServer(
		addr, r,
		time.Duration(cfg.App.HTTP.ReadTimeoutSec)*time.Second,
		time.Duration(cfg.App.HTTP.WriteTimeoutSec)*time.Second,
		time.Duration(cfg.App.HTTP.IdleTimeoutSec)*time.Second,
	)

	host4human := cfg.App.HTTP.Host
	if host4human == "" || host4human == "0.0.0.0" {
		host4human = "127.0.0.1"
	}
	baseURL := "http://" + host4human + ":" + fmt.Sprint(cfg.App.HTTP.Port)
	log.Info("employee api starting",
		zap.String("addr", addr),
		zap.String("health", baseURL+"/health"),
		zap.String("employees", baseURL+cfg.App.BasePath+"/employees"),
	)

	go func() {
		if err := server.StartHTTP(srv, log); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("employee api start failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Warn("shutdown", zap.Error(err))
	}
	log.Info("employee api stopped")
}

func newLogger(cfg *config.Config) (*zap.Logger, func()) {
	f := cfg.Log.File
	return logger.Build(logger.Options{
		Service: cfg.App.Name,
		Level:   cfg.Log.Level,
		JSON:    cfg.Log.JSON,
		Rotate: logger.FileRotate{
			Enable:     f.Enable,
			Filename:   f.Filename,
			MaxSizeMB:  f.MaxSizeMB,
			MaxBackups: f.MaxBackups,
			MaxAgeDays: f.MaxAgeDays,
			Compress:   f.Compress,
		},
	})
}

func ginMode(env string) string {
	switch env {
	case "prod", "production":
		return "release"
	case "test":
		return "test"
	}
	return "debug"
}

func mustOpenDB(cfg *config.Config, l *zap.Logger) *gorm.DB {
	db, err := database.NewGorm(database.Opts{
		Driver:             cfg.DB.Driver,
		DSN:                cfg.DB.DSN,
		Host:               cfg.DB.Host,
		Port:               cfg.DB.Port,
		Username:           cfg.DB.Username,
		Password:           cfg.DB.Password,
		Name:               cfg.DB.Name,
		MaxOpenConns:       cfg.DB.MaxOpenConns,
		MaxIdleConns:       cfg.DB.MaxIdleConns,
		ConnMaxLifetimeMin: cfg.DB.ConnMaxLifetimeMin,
		LogLevel:           cfg.DB.LogLevel,
		SlowThreshold:      200 * time.Millisecond,
		Logger:             l,
	})
	if err != nil {
		l.Fatal("db open", zap.Error(err))
	}
	return db
}
