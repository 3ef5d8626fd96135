// Package app assembles the object graph shared by the user and admin
// binaries.
package app

import (
	"context"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gorm.io/gorm"

	"umkm-marketplace/internal/access"
	"umkm-marketplace/internal/core/auth"
	"umkm-marketplace/internal/core/cache"
	"umkm-marketplace/internal/core/config"
	"umkm-marketplace/internal/core/database"
	"umkm-marketplace/internal/core/logger"
	"umkm-marketplace/internal/feature/produk"
	"umkm-marketplace/internal/feature/umkm"
	"umkm-marketplace/internal/feature/user"
	"umkm-marketplace/internal/repo"
	"umkm-marketplace/internal/service"
	"umkm-marketplace/internal/transport/http/router"
)

func NewLogger(cfg *config.Config) (*zap.Logger, func()) {
	f := cfg.Log.File
	if f.Enable {
		return logger.NewWithRotate(cfg.Log.Level, cfg.Log.JSON, logger.FileRotate{
			Enable:     true,
			Filename:   f.Filename,
			MaxSizeMB:  f.MaxSizeMB,
			MaxBackups: f.MaxBackups,
			MaxAgeDays: f.MaxAgeDays,
			Compress:   f.Compress,
		})
	}
	return logger.New(cfg.Log.Level, cfg.Log.JSON)
}

func OpenDB(cfg *config.Config, l *zap.Logger) (*gorm.DB, error) {
	db, err := database.NewGorm(database.Opts{
		Driver:             cfg.DB.Driver,
		DSN:                cfg.DB.DSN,
		Username:           cfg.DB.Username,
		Password:           cfg.DB.Password,
		MaxOpenConns:       cfg.DB.MaxOpenConns,
		MaxIdleConns:       cfg.DB.MaxIdleConns,
		ConnMaxLifetimeMin: cfg.DB.ConnMaxLifetimeMin,
		LogLevel:           cfg.DB.LogLevel,
		Log:                logger.StdLogger(l.Named("gorm"), zapcore.InfoLevel),
	})
	if err != nil {
		return nil, err
	}
	if cfg.DB.AutoMigrate {
		if err := database.Migrate(db); err != nil {
			return nil, err
		}
		l.Info("automigrate done")
	}
	return db, nil
}

func NewJWTer(cfg *config.Config) *auth.JWTer {
	return &auth.JWTer{
		Secret: []byte(cfg.JWT.Secret),
		Issuer: cfg.JWT.Issuer,
		TTL:    cfg.JWT.TTL(),
		Leeway: cfg.JWT.Leeway(),
	}
}

// NewCache connects to redis when configured. An unreachable server is
// logged and the listing falls back to direct reads.
func NewCache(cfg *config.Config, l *zap.Logger) *cache.Cache {
	c := cache.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if c == nil {
		l.Info("redis disabled")
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := c.RDB.Ping(ctx).Err(); err != nil {
		l.Warn("redis unreachable, listing cache disabled", zap.String("addr", cfg.Redis.Addr), zap.Error(err))
		_ = c.Close()
		return nil
	}
	return c
}

// Wire builds the access pipeline, services and feature modules over db.
func Wire(cfg *config.Config, l *zap.Logger, db *gorm.DB, c *cache.Cache) router.Deps {
	jwter := NewJWTer(cfg)

	users := repo.NewUserRepo(db)
	umkms := repo.NewUMKMRepo(db)
	products := repo.NewProductRepo(db)

	pipeline := &access.Pipeline{
		Resolver:   access.NewResolver(jwter, cfg.Auth.PublicPaths),
		Suspension: access.NewSuspensionGate(users),
	}

	modules := new(router.Registry).Register(
		user.New(service.NewUserService(users), l),
		umkm.New(service.NewUMKMService(umkms, c, cfg.Redis.ListingTTL()), umkms, l),
		produk.New(service.NewProductService(products, umkms), umkms, products, l),
	)

	return router.Deps{
		Log:      l,
		Pipeline: pipeline,
		Auth:     service.NewAuthService(users, jwter),
		Modules:  modules,
		Limits: router.Limits{
			RPS:         cfg.Limits.RPS,
			Burst:       cfg.Limits.Burst,
			Concurrency: cfg.Limits.Concurrency,
			BodyBytes:   cfg.Limits.BodyBytes,
			Timeout:     time.Duration(cfg.Limits.TimeoutSec) * time.Second,
		},
	}
}
