package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server ServerConfig `mapstructure:"server"`
	Redis  RedisConfig  `mapstructure:"redis"`
	Ingest IngestConfig `mapstructure:"ingest"`
	Log    LogConfig    `mapstructure:"log"`
}

type ServerConfig struct {
	ListenAddr string `mapstructure:"listen_addr"`
	AuthToken  string `mapstructure:"auth_token"`
	NoAuth     bool   `mapstructure:"no_auth"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	Fallback bool   `mapstructure:"fallback"`
}

type IngestConfig struct {
	Workers          int           `mapstructure:"workers"`
	DirectoryTimeout time.Duration `mapstructure:"directory_timeout"`
	PageTimeout      time.Duration `mapstructure:"page_timeout"`
	UploadDirectory  string        `mapstructure:"upload_directory"`
	// Root bounds the server side paths a client may ask to ingest.
	Root string `mapstructure:"root"`
}

// JobTimeout covers the directory deadline plus the in flight files that finish after it.
func (c IngestConfig) JobTimeout() time.Duration {
	if c.DirectoryTimeout <= 0 {
		return JobTimeout
	}
	return max(JobTimeout, c.DirectoryTimeout+JobTimeoutMargin)
}

type LogConfig struct {
	Level string `mapstructure:"level"`
	JSON  bool   `mapstructure:"json"`
}

// Load reads an optional config file, a .env file if present, and environment overrides.
func Load(configPath string) (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./configs")
		v.AddConfigPath(".")
	}

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	logLevel := LOG_LEVEL_DEV
	if IS_PROD {
		logLevel = LOG_LEVEL_PROD
	}

	v.SetDefault("server.listen_addr", ServerListenAddr)
	v.SetDefault("server.auth_token", AuthToken)
	v.SetDefault("server.no_auth", NoAuthBypass)
	v.SetDefault("redis.addr", RedisAddr)
	v.SetDefault("redis.password", RedisPassword)
	v.SetDefault("redis.fallback", FALLBACK_REDIS_TO_INTERNALSTORE)
	v.SetDefault("ingest.workers", IngestWorkerCount)
	v.SetDefault("ingest.directory_timeout", DirectoryIngestTimeout)
	v.SetDefault("ingest.page_timeout", PageExtractTimeout)
	v.SetDefault("ingest.upload_directory", UploadDirectory)
	v.SetDefault("ingest.root", IngestRoot)
	v.SetDefault("log.level", logLevel)
	v.SetDefault("log.json", IS_PROD)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	_ = v.BindEnv("server.listen_addr", "LISTEN_ADDR")
	_ = v.BindEnv("server.auth_token", "AUTH_TOKEN")
	_ = v.BindEnv("redis.addr", "REDIS_ADDR")
	_ = v.BindEnv("redis.password", "REDIS_PASSWORD")
	_ = v.BindEnv("ingest.workers", "INGEST_WORKERS")
	_ = v.BindEnv("ingest.root", "INGEST_ROOT")
	_ = v.BindEnv("log.level", "LOG_LEVEL")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if cfg.Ingest.Workers < 1 {
		cfg.Ingest.Workers = 1
	}
	return &cfg, nil
}
