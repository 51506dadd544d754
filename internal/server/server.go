package server

import (
	"context"
	"errors"
	"net/http"
	"os"
	"sync"

	"github.com/ritvikra/PDFEmbedder/internal/adapter/utils"
	"github.com/ritvikra/PDFEmbedder/internal/config"
	"github.com/ritvikra/PDFEmbedder/internal/middleware"
	"github.com/ritvikra/PDFEmbedder/pkg/logger_i"
)

var (
	server  *http.Server
	_logger *logger_i.Logger
)

type ShutdownParams struct {
	GracefulShutdown chan os.Signal
	StopExecution    chan bool
	WorkerStop       chan bool
	Group            *sync.WaitGroup
	CloseServices    context.CancelFunc
}

func CreateServer(listenAddr string, wsHandler http.Handler) {
	_logger = logger_i.NewLogger("Server")

	r := utils.GetRouter()

	r.Router.Get("/", middleware.GetHandler)

	r.Router.Post("/jobs", middleware.CreateJobHandler)
	r.Router.Get("/jobs", middleware.ListJobsHandler)
	r.Router.Get("/jobs/status/{status}", middleware.GetJobsByStatusHandler)
	r.Router.Get("/jobs/type/{type}", middleware.GetJobsByTypeHandler)
	r.Router.Get("/jobs/{id}", middleware.GetJobHandler)
	r.Router.Delete("/jobs/{id}", middleware.DeleteJobHandler)
	r.Router.Post("/jobs/{id}/retry", middleware.RetryJobHandler)

	r.Router.Get("/documents", middleware.ListDocumentsHandler)
	r.Router.Get("/documents/search", middleware.SearchDocumentsHandler)
	r.Router.Get("/documents/url", middleware.GetDocumentsByUrlHandler)
	r.Router.Get("/documents/job/{jobId}", middleware.GetDocumentsByJobHandler)
	r.Router.Get("/documents/type/{type}", middleware.GetDocumentsByTypeHandler)
	r.Router.Get("/documents/{id}", middleware.GetDocumentHandler)
	r.Router.Get("/documents/{id}/chunks", middleware.GetDocumentChunksHandler)
	r.Router.Get("/documents/{id}/pages", middleware.GetDocumentPagesHandler)
	r.Router.Get("/documents/{id}/with-job", middleware.GetDocumentWithJobHandler)
	r.Router.Delete("/documents/{id}", middleware.DeleteDocumentHandler)

	//websocket upgrades bypass the http middleware chain
	r.Router.Handle("/ws", wsHandler)

	server = &http.Server{
		Addr:         listenAddr,
		Handler:      r.Router,
		ReadTimeout:  config.ReadTimeout,
		WriteTimeout: config.WriteTimeout,
		IdleTimeout:  config.IdleTimeout,
	}

	_logger.Info("Server is listening at", "address", listenAddr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		_logger.Error("Server crashed", "error :", err.Error(), "addr", listenAddr)
	}
}

func ShutDownHandler(shutdownParams ShutdownParams) {
	state := <-shutdownParams.GracefulShutdown
	println("\nServer is shutting down", state)

	ctx, cancel := context.WithTimeout(context.Background(), config.ShutdownContextTimeout)
	defer cancel()

	done := make(chan struct{})

	go func() {
		server.SetKeepAlivesEnabled(false)

		if err := server.Shutdown(ctx); err != nil {
			_logger.Error("Could not shutdown gracefully: %s", err)
		}

		//close workers
		close(shutdownParams.WorkerStop)
		shutdownParams.Group.Wait()
		shutdownParams.CloseServices()
		close(shutdownParams.StopExecution)
		close(done)
	}()

	select {
	case <-done:
		_logger.Info("Gracefully is shutting down")
	case <-ctx.Done():
		_logger.Info("Force Shut down")
		os.Exit(1)
	}
}
