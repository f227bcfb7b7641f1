package server

import (
	"context"
	"errors"
	"net/http"
	"os"
	"sync"

	"github.com/docuchat/RagAPI/internal/adapter/utils"
	"github.com/docuchat/RagAPI/internal/config"
	"github.com/docuchat/RagAPI/internal/middleware"
	"github.com/docuchat/RagAPI/pkg/logger_i"
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

func CreateServer(listenAddr string) {
	_logger = logger_i.NewLogger("Server")

	r := utils.GetRouter()

	r.Router.Get("/", middleware.GetHandler)
	r.Router.Get("/health", middleware.GetHealthHandler)

	r.Router.Post("/chat", middleware.ChatHandler)
	r.Router.Post("/retrieve", middleware.RetrieveHandler)

	r.Router.Post("/documents", middleware.PostDocumentHandler)
	r.Router.Post("/documents/batch", middleware.PostDocumentsBatchHandler)
	r.Router.Post("/upload", middleware.PostUploadHandler)

	r.Router.Get("/files", middleware.GetFilesHandler)
	r.Router.Get("/files/stats", middleware.GetFileStatsHandler)
	r.Router.Get("/files/{hash}", middleware.GetFileHandler)
	r.Router.Delete("/files/{hash}", middleware.DeleteFileHandler)

	r.Router.Get("/conversations", middleware.GetConversationsHandler)
	r.Router.Get("/conversation/{id}", middleware.GetConversationHandler)
	r.Router.Delete("/conversation/{id}", middleware.DeleteConversationHandler)

	r.Router.Get("/collection_info", middleware.GetCollectionInfoHandler)

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
