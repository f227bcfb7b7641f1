package config

import (
	"log/slog"
	"time"
)

const (
	IS_PROD        = false
	LOG_LEVEL_PROD = slog.LevelInfo
	TRACE_ID_KEY   = "traceId"

	RATE_LIMIT_PER_SECOND       = 2
	BURST_RATE_LIMIT_PER_SECOND = 5

	NoAuthBypass = true
	AuthToken    = ""

	//chunking
	ChunkSize    = 1000
	ChunkOverlap = 200
	MinChunkSize = 100 //chunks whose trimmed length is <= this are discarded

	//retrieval & conversation
	DefaultNResults        = 5
	MaxConversationHistory = 10 //turns kept in the prompt window, full transcript stays stored
	ContextExcerptLimit    = 2  //texts echoed back on the chat response, the prompt still sees all of them

	//vector index
	EmbeddingOutputDimensionality int32 = 1536
	CollectionName                      = "documents"
	QdrantConnectionTimeout             = 30 * time.Second
	QdrantHost                          = "localhost"
	QdrantGrpcPort                      = 6334
	QdrantUseTLS                        = false
	QdrantPoolSize                      = 1

	//generation backend
	OpenAIModel      = "gpt-4o-mini"
	OpenAIAPIKey     = ""
	MaxOutputTokens  = 500
	ModelTemperature = 0.7
	SystemPrompt     = "You are a helpful AI assistant. Use the following context to answer questions accurately and conversationally. If the context doesn't contain relevant information, politely say so and provide a general helpful response."
	NoContextNotice  = "No relevant context found."
	FallbackResponse = "I apologize, but I'm having trouble generating a response right now. Please try again."

	//per-call budget against external services, each call retried once on failure
	GenerationTimeout = 30 * time.Second
	RetrievalTimeout  = 15 * time.Second

	//embeddings
	GoogleEmbeddingModel  = "gemini-embedding-001"
	GoogleEmbeddingAPIKey = ""

	//worker pool for document ingestion
	RequestsPerNewWorkerCount int64 = 10
	MaxWorkerCount            int64 = 10
	MinWorkerCount            int64 = 1
	IdleWorkerTimeout               = 1 * time.Minute

	//ingest queue buffer limit
	BufferLimit = 100

	//uploads
	MaxUploadSize   = 32 << 20 //32mb
	UploadDirectory = "temporary_data"

	//serverTimeouts
	ReadTimeout            = 5 * time.Second
	WriteTimeout           = 30 * time.Second
	IdleTimeout            = 120 * time.Second
	ShutdownContextTimeout = 10 * time.Second

	//server listening port
	ServerListenAddr = ":3000"

	//redis
	redisHost = "127.0.0.1"
	redisPort = "6379"
	RedisAddr = redisHost + ":" + redisPort

	RedisPassword = ""

	//redis has 16 DB we can use
	RedisFileLedgerDB   = 0
	RedisConversationDB = 1
)
