package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type HTTP struct {
	Host            string
	Port            int
	ReadTimeoutSec  int
	WriteTimeoutSec int
	IdleTimeoutSec  int
}

type App struct {
	Name  string
	Env   string
	HTTP  HTTP
	Admin HTTP
}

type FileRotate struct {
	Enable     bool
	Filename   string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

type Log struct {
	Level string
	JSON  bool
	File  FileRotate
}

type JWT struct {
	Secret            string
	Issuer            string
	AccessTokenTTLMin int
	LeewaySec         int
}

func (j JWT) TTL() time.Duration    { return time.Duration(j.AccessTokenTTLMin) * time.Minute }
func (j JWT) Leeway() time.Duration { return time.Duration(j.LeewaySec) * time.Second }

type Auth struct {
	// PublicPaths skip identity and suspension checks entirely.
	PublicPaths []string
}

type Redis struct {
	Addr          string `mapstructure:"addr"`
	Password      string `mapstructure:"password"`
	DB            int    `mapstructure:"db"`
	ListingTTLSec int    `mapstructure:"listingTTLSec"`
}

func (r Redis) ListingTTL() time.Duration { return time.Duration(r.ListingTTLSec) * time.Second }

type DB struct {
	Driver             string
	DSN                string
	Username           string
	Password           string
	MaxOpenConns       int
	MaxIdleConns       int
	ConnMaxLifetimeMin int
	AutoMigrate        bool
	LogLevel           string
}

type Limits struct {
	RPS         float64
	Burst       int
	Concurrency int64
	BodyBytes   int64
	TimeoutSec  int
}

type Config struct {
	App    App
	Log    Log
	JWT    JWT
	Auth   Auth
	DB     DB
	Redis  Redis `mapstructure:"redis"`
	Limits Limits
}

var ErrMissingSecret = errors.New("jwt.secret is required")

// Load reads the YAML file at path (or CONFIG_PATH) with APP_* environment
// overrides and exits the process on failure.
func Load(path string) *Config {
	c, err := Read(path)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	return c
}

func Read(path string) (*Config, error) {
	v := viper.New()
	if path == "" {
		path = os.Getenv("CONFIG_PATH")
		if path == "" {
			path = "./configs/config.local.yaml"
		}
	}
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("APP")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if strings.TrimSpace(c.JWT.Secret) == "" {
		return nil, ErrMissingSecret
	}
	return &c, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "umkm-marketplace")
	v.SetDefault("app.env", "dev")
	v.SetDefault("app.http.port", 8080)
	v.SetDefault("app.http.readTimeoutSec", 5)
	v.SetDefault("app.http.writeTimeoutSec", 10)
	v.SetDefault("app.http.idleTimeoutSec", 60)
	v.SetDefault("app.admin.port", 8081)
	v.SetDefault("app.admin.readTimeoutSec", 5)
	v.SetDefault("app.admin.writeTimeoutSec", 10)
	v.SetDefault("app.admin.idleTimeoutSec", 60)
	v.SetDefault("log.level", "info")
	v.SetDefault("jwt.issuer", "umkm-marketplace")
	v.SetDefault("jwt.secret", "")
	v.SetDefault("auth.publicPaths", []string{"/api/v1/auth"})
	v.SetDefault("db.driver", "postgres")
	v.SetDefault("db.maxOpenConns", 20)
	v.SetDefault("db.maxIdleConns", 10)
	v.SetDefault("db.connMaxLifetimeMin", 30)
	v.SetDefault("redis.listingTTLSec", 30)
	v.SetDefault("limits.rps", 200)
	v.SetDefault("limits.burst", 400)
	v.SetDefault("limits.concurrency", 300)
	v.SetDefault("limits.bodyBytes", 16<<20)
	v.SetDefault("limits.timeoutSec", 10)
}
