package handlers

import (
	"net/http"
	"sync"

	"github.com/docuchat/RagAPI/internal/chat"
	"github.com/docuchat/RagAPI/internal/ingest"
	"github.com/docuchat/RagAPI/internal/vectorstore"
	"github.com/docuchat/RagAPI/internal/worker"
	"github.com/docuchat/RagAPI/pkg/logger_i"
)

var (
	handlerInstance *ServiceHandler //private singleton
	once            sync.Once
	logRH           *logger_i.Logger
	logDH           *logger_i.Logger
)

type ServiceHandler struct {
	chat   chat.Service
	ingest ingest.Service
	index  vectorstore.Index
	queue  *worker.Queue
}

func InitHandlers(chatService chat.Service, ingestService ingest.Service, index vectorstore.Index, queue *worker.Queue) {
	once.Do(func() {
		handlerInstance = &ServiceHandler{
			chat:   chatService,
			ingest: ingestService,
			index:  index,
			queue:  queue,
		}

		logRH = logger_i.NewLogger("RequestHandler")
		logDH = logger_i.NewLogger("DocumentHandler")
		logRH.Info("Starting request handlers")
	})
}

func GetHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}
