package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/ritvikra/PDFEmbedder/internal/config"
	"github.com/ritvikra/PDFEmbedder/internal/data/store"
	"github.com/ritvikra/PDFEmbedder/internal/doc"
	"github.com/ritvikra/PDFEmbedder/internal/domain/jobModel"
	"github.com/ritvikra/PDFEmbedder/internal/enrich/embedding"
	"github.com/ritvikra/PDFEmbedder/internal/enrich/embedding/googleEmbedding"
	"github.com/ritvikra/PDFEmbedder/internal/enrich/embedding/httpEmbedding"
	"github.com/ritvikra/PDFEmbedder/internal/enrich/ocr"
	"github.com/ritvikra/PDFEmbedder/internal/handlers"
	"github.com/ritvikra/PDFEmbedder/internal/job"
	"github.com/ritvikra/PDFEmbedder/internal/notify"
	"github.com/ritvikra/PDFEmbedder/internal/processor"
	"github.com/ritvikra/PDFEmbedder/internal/rag/vectorDB"
	"github.com/ritvikra/PDFEmbedder/internal/rag/vectorDB/qdrantDB"
	"github.com/ritvikra/PDFEmbedder/internal/server"
	"github.com/ritvikra/PDFEmbedder/internal/worker"
	"github.com/ritvikra/PDFEmbedder/pkg/logger_i"
)

var (
	listenAddr        string
	stopWorkerChannel chan bool
	workerWaitGroup   sync.WaitGroup
)

func main() {

	logger_i.Init()
	var logger = logger_i.NewLogger("main")

	//config
	flag.StringVar(&listenAddr, "listen-addr", config.ServerListenAddr, "server listen address")
	flag.Parse()

	//init buffered job channel
	jobChannel := make(chan string, config.BufferLimit)
	dispatcherChannel := make(chan bool, 1)
	stopWorkerChannel = make(chan bool, 1)

	serviceContext, closeExternalServices := context.WithCancel(context.Background())
	defer closeExternalServices()

	//init job service and stores
	serviceConfig := job.ServiceConfig{
		JobChannel:        jobChannel,
		DispatcherChannel: dispatcherChannel,
		JobStore:          store.GetRedisJobStore(serviceContext),
		DocumentStore:     store.GetRedisDocumentStore(serviceContext),
	}
	logger.Info("Starting job service")

	if serviceConfig.JobStore == nil || serviceConfig.DocumentStore == nil {
		if !config.FALLBACK_REDIS_TO_INTERNALSTORE {
			logger.Error("Redis stores are offline")
			return
		}
		logger.Error("Redis stores are offline, falling back to in-memory stores")
		serviceConfig.JobStore = store.InitInMemoryJobStore()
		serviceConfig.DocumentStore = store.InitInMemoryDocumentStore()
	}
	jobService := job.InitJobService(serviceConfig)
	docService := doc.InitDocService(serviceConfig.DocumentStore, serviceConfig.JobStore)

	//embedding provider selection
	var provider embedding.Provider
	if config.EmbeddingProvider == "google" {
		provider = googleEmbedding.GetGoogleEmbeddingClient(serviceContext, config.GoogleEmbeddingModel, config.GoogleEmbeddingAPIKey)
	} else {
		provider = httpEmbedding.NewClient()
	}
	embeddingService := embedding.NewService(provider)
	ocrClient := ocr.NewClient()

	var indexer vectorDB.Indexer
	if config.VectorIndexEnabled {
		vectorDB := qdrantDB.GetQdrantClient(serviceContext)
		if vectorDB == nil {
			logger.Error("Vector index unavailable, documents will not be indexed")
		} else {
			indexer = vectorDB
		}
	}

	jobService.RegisterProcessor(jobModel.JobTypeHtml,
		processor.NewHtmlProcessor(jobService, serviceConfig.DocumentStore, embeddingService, indexer))
	jobService.RegisterProcessor(jobModel.JobTypePdf,
		processor.NewPdfProcessor(jobService, serviceConfig.DocumentStore, embeddingService, ocrClient, processor.NewPageRenderer(), indexer))

	//notification registry broadcasts a snapshot on every job mutation
	registry := notify.NewRegistry(jobService.GetJobById)
	jobService.SetOnChanged(func(jobId string) {
		registry.Publish(context.Background(), jobId)
	})
	wsHandler := notify.NewWsHandler(registry)

	handlers.InitJobHandler(jobService, docService)

	//init worker pool
	worker.InitServices(jobService)
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
	go server.CreateServer(listenAddr, wsHandler)

	<-stopExecution
	logger.Info("Server stopped")
}
