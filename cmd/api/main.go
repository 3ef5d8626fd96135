package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "go.uber.org/automaxprocs"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"umkm-marketplace/internal/app"
	"umkm-marketplace/internal/core/config"
	"umkm-marketplace/internal/core/logger"
	"umkm-marketplace/internal/core/server"
	"umkm-marketplace/internal/transport/http/router"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load(os.Getenv("CONFIG_PATH"))
	if cfg.App.Env == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}
	log, cleanup := app.NewLogger(cfg)
	defer cleanup()
	defer logger.RedirectStdLog(log, zapcore.InfoLevel)()

	db, err := app.OpenDB(cfg, log)
	if err != nil {
		log.Fatal("db open", zap.Error(err))
	}
	log.Info("database connected", zap.String("driver", cfg.DB.Driver))

	c := app.NewCache(cfg, log)
	defer func() { _ = c.Close() }()

	r := router.NewAPIEngine(app.Wire(cfg, log, db, c))

	h := cfg.App.HTTP
	addr := server.Addr(h.Host, h.Port)
	srv := server.BuildServer(addr, r, server.Timeouts{
		Read:  time.Duration(h.ReadTimeoutSec) * time.Second,
		Write: time.Duration(h.WriteTimeoutSec) * time.Second,
		Idle:  time.Duration(h.IdleTimeoutSec) * time.Second,
	}, logger.StdLogger(log.Named("http"), zapcore.ErrorLevel))

	host4human := h.Host
	if host4human == "" || host4human == "0.0.0.0" {
		host4human = "127.0.0.1"
	}
	baseURL := "http://" + host4human + ":" + fmt.Sprint(h.Port)
	log.Info("user api starting",
		zap.String("addr", addr),
		zap.String("health", baseURL+"/health"),
		zap.String("api_v1", baseURL+"/api/v1"),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := server.Run(ctx, srv, log, 10*time.Second); err != nil {
		log.Fatal("user api FAILED", zap.Error(err))
	}
	log.Info("user api stopped gracefully")
}
