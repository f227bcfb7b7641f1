package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/docuchat/RagAPI/internal/chat"
	"github.com/docuchat/RagAPI/internal/config"
	"github.com/docuchat/RagAPI/internal/data/store"
	"github.com/docuchat/RagAPI/internal/domain/chatModel"
	"github.com/docuchat/RagAPI/internal/domain/docModel"
	"github.com/docuchat/RagAPI/internal/handlers"
	"github.com/docuchat/RagAPI/internal/ingest"
	"github.com/docuchat/RagAPI/internal/rag/embedding/googleEmbedding"
	"github.com/docuchat/RagAPI/internal/rag/llm"
	"github.com/docuchat/RagAPI/internal/rag/llm/openaiChat"
	"github.com/docuchat/RagAPI/internal/server"
	"github.com/docuchat/RagAPI/internal/vectorstore"
	"github.com/docuchat/RagAPI/internal/vectorstore/qdrantDB"
	"github.com/docuchat/RagAPI/internal/worker"
	"github.com/docuchat/RagAPI/pkg/logger_i"
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

	stopWorkerChannel = make(chan bool, 1)

	serviceContext, closeExternalServices := context.WithCancel(context.Background())
	defer closeExternalServices()

	//durable stores with in-memory fallback when redis is offline
	var fileLedger docModel.FileLedger
	if redisLedger := store.GetRedisFileLedger(serviceContext); redisLedger != nil {
		fileLedger = redisLedger
	} else {
		logger.Error("Redis file ledger is offline, falling back to memory")
		fileLedger = store.InitInMemoryFileLedger()
	}

	var conversations chatModel.ConversationStore
	if redisChats := store.GetRedisConversationStore(serviceContext); redisChats != nil {
		conversations = redisChats
	} else {
		logger.Error("Redis conversation store is offline, falling back to memory")
		conversations = store.InitInMemoryConversationStore()
	}

	embedder := googleEmbedding.GetGoogleEmbeddingClient(serviceContext, config.GoogleEmbeddingModel, config.GoogleEmbeddingAPIKey)
	if embedder == nil {
		logger.Error("Embedding client failed to initialize. Shutting down.")
		return
	}

	var vectorIndex vectorstore.Index
	if holder := qdrantDB.GetQdrantIndex(serviceContext, embedder); holder != nil {
		vectorIndex = holder
	} else {
		logger.Error("Vector index failed to initialize. Shutting down.")
		return
	}

	//a missing generation backend degrades chat instead of killing the server
	var llmProvider llm.Provider
	if provider := openaiChat.GetOpenAIClient(serviceContext, config.OpenAIModel, config.OpenAIAPIKey); provider != nil {
		llmProvider = provider
	} else {
		logger.Error("OpenAI client failed to initialize, chat will answer with the fallback response")
	}

	ingestService := ingest.NewService(fileLedger, vectorIndex)
	chatService := chat.NewService(conversations, vectorIndex, llmProvider)

	queue := worker.InitQueue()
	handlers.InitHandlers(chatService, ingestService, vectorIndex, queue)

	//init worker pool
	worker.InitServices(ingestService, queue)
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
	go server.CreateServer(listenAddr)

	<-stopExecution
	logger.Info("Server stopped")
}
