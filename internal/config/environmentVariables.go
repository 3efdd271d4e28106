package config

import (
	"time"
)

const (
	IS_PROD                         = false
	LOG_LEVEL_DEV                   = "debug"
	LOG_LEVEL_PROD                  = "info"
	FALLBACK_REDIS_TO_INTERNALSTORE = true //if redis init fails, it falls back to an internal in-memory store
	TRACE_ID_KEY                    = "traceId"
	RATE_LIMIT_PER_SECOND           = 2
	BURST_RATE_LIMIT_PER_SECOND     = 5
	RateLimiterIdleTTL              = 10 * time.Minute
	RateLimiterMaxClients           = 10000

	//auth
	NoAuthBypass = false
	AuthToken    = ""

	//ingestion
	IngestWorkerCount      = 4
	DirectoryIngestTimeout = 10 * time.Minute
	PageExtractTimeout     = 10 * time.Second
	MaxUploadSize          = 32 << 20 //32mb
	UploadDirectory        = "temporary_data"
	IngestRoot             = "data"

	RequestsPerNewWorkerCount int64 = 10
	MaxWorkerCount            int64 = 10
	MinWorkerCount            int64 = 1
	IdleWorkerTimeout               = 1 * time.Minute
	JobTimeout                      = 15 * time.Minute
	JobTimeoutMargin                = 5 * time.Minute
	JobStateSaveTimeout             = 5 * time.Second

	//serverTimeouts
	ReadTimeout            = 5 * time.Second
	WriteTimeout           = 10 * time.Second
	IdleTimeout            = 120 * time.Second
	ShutdownContextTimeout = 10 * time.Second

	//server listening port
	ServerListenAddr = ":3000"

	//job requests buffer limit
	BufferLimit = 100

	//redis
	redisHost     = "127.0.0.1"
	redisPort     = "6379"
	RedisAddr     = redisHost + ":" + redisPort
	RedisPassword = ""

	//redis has 16 DB we can use
	RedisJobStore      = 0
	RedisDocumentStore = 1

	//redis timeouts
	RedisJobStoreTTL      = 24 * time.Hour
	RedisDocumentStoreTTL = 24 * time.Hour
)
