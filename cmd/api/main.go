// @title           Document Ingestion API
// @version         1.0
// @description     This API queues asynchronous ingestion of text, tabular, structured-record and paginated files
// @termsOfService  http://swagger.io/terms/

// @contact.name    API Support
// @contact.url
// @contact.email

// @license.name    Apache 2.0
// @license.url     http://www.apache.org/licenses/LICENSE-2.0.html

// @host      localhost:3000
// @BasePath  /
// @schemes   http https
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/akolanti/DocIngest/internal/config"
	"github.com/akolanti/DocIngest/internal/data/store"
	jobmodel "github.com/akolanti/DocIngest/internal/domain/jobModel"
	"github.com/akolanti/DocIngest/internal/handlers"
	"github.com/akolanti/DocIngest/internal/job"
	"github.com/akolanti/DocIngest/internal/middleware"
	"github.com/akolanti/DocIngest/internal/pipeline"
	"github.com/akolanti/DocIngest/internal/server"
	"github.com/akolanti/DocIngest/internal/worker"
	"github.com/akolanti/DocIngest/pkg/logger_i"
)

var (
	configPath        string
	listenAddr        string
	requestCount      int64
	stopWorkerChannel chan bool
	workerWaitGroup   sync.WaitGroup
)

func main() {

	flag.StringVar(&configPath, "config", "", "path to a config file")
	flag.StringVar(&listenAddr, "listen-addr", "", "server listen address, overrides the config")
	flag.Parse()

	cfg, err := config.Load(configPath)
	if err != nil {
		logger_i.Init(logger_i.Options{})
		logger_i.NewLogger("main").Error("Could not load config", "error", err)
		os.Exit(1)
	}
	if listenAddr != "" {
		cfg.Server.ListenAddr = listenAddr
	}

	logger_i.Init(logger_i.Options{Level: cfg.Log.Level, JSON: cfg.Log.JSON})
	var logger = logger_i.NewLogger("main")

	//init buffered job channel
	jobChannel := make(chan jobmodel.Job, config.BufferLimit)
	dispatcherChannel := make(chan bool, 1)
	stopWorkerChannel = make(chan bool, 1)

	serviceContext, closeExternalServices := context.WithCancel(context.Background())
	defer closeExternalServices()

	//init job service and stores
	serviceConfig := job.ServiceConfig{
		JobChannel:        jobChannel,
		RequestCount:      requestCount,
		DispatcherChannel: dispatcherChannel,
	}
	logger.Info("Starting job service")

	jobStore := store.GetRedisJobStore(serviceContext, cfg.Redis)
	documentStore := store.GetRedisDocumentStore(serviceContext, cfg.Redis)
	if jobStore == nil || documentStore == nil {
		if !cfg.Redis.Fallback {
			logger.Error("Redis stores are offline and fallback is disabled. Shutting down.")
			return
		}
		logger.Warn("Redis stores are offline, falling back to in-memory stores")
		serviceConfig.JobStore = store.InitInMemoryJobStore()
		serviceConfig.DocumentStore = store.InitInMemoryDocumentStore()
	} else {
		serviceConfig.JobStore = jobStore
		serviceConfig.DocumentStore = documentStore
	}
	service := job.InitJobService(serviceConfig)

	pipelineService := pipeline.NewService(service.DocumentStore, cfg.Ingest)

	handlers.InitJobHandler(service, cfg.Ingest)
	middleware.Configure(cfg.Server)

	//init worker pool
	worker.InitServices(service, pipelineService, cfg.Ingest.JobTimeout())
	worker.InitWorkerPool(stopWorkerChannel, &workerWaitGroup)

	//server handling
	gracefulShutdown := make(chan os.Signal, 1)
	signal.Notify(gracefulShutdown, syscall.SIGINT, syscall.SIGTERM)
	stopExecution := make(chan bool, 1)

	shutdownParams := server.ShutdownParams{
		GracefulShutdown: gracefulShutdown,
		StopExecution:    stopExecution,
		WorkerStop:       stopWorkerChannel,
		Group:            &workerWaitGroup,
		CloseServices:    closeExternalServices,
	}
	go server.ShutDownHandler(shutdownParams)
	go server.CreateServer(cfg.Server.ListenAddr)

	<-stopExecution
	logger.Info("Server stopped")
}
