package chat

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/docuchat/RagAPI/internal/adapter/utils"
	"github.com/docuchat/RagAPI/internal/config"
	"github.com/docuchat/RagAPI/internal/domain/chatModel"
	"github.com/docuchat/RagAPI/internal/metrics"
	"github.com/docuchat/RagAPI/internal/rag/llm"
	"github.com/docuchat/RagAPI/internal/vectorstore"
	"github.com/docuchat/RagAPI/pkg/logger_i"
)

// Service answers questions against the indexed documents and keeps the
// per-conversation transcripts.
type Service interface {
	Chat(ctx context.Context, query string, conversationID string, nResults int) (chatModel.ChatResult, error)
	Retrieve(ctx context.Context, query string, nResults int) []vectorstore.Result
	History(ctx context.Context, conversationID string) ([]chatModel.Turn, error)
	Conversations(ctx context.Context) ([]string, error)
	DeleteConversation(ctx context.Context, conversationID string) bool
}

type service struct {
	conversations chatModel.ConversationStore
	index         vectorstore.Index
	llmProvider   llm.Provider
	logger        *logger_i.Logger
	locks         *keyedMutex
}

func NewService(conversations chatModel.ConversationStore, index vectorstore.Index, llmProvider llm.Provider) Service {
	return &service{
		conversations: conversations,
		index:         index,
		llmProvider:   llmProvider,
		logger:        logger_i.NewLogger("Chat Service :"),
		locks:         newKeyedMutex(),
	}
}

// Chat runs retrieve-then-generate for one question. Concurrent calls on
// the same conversation are serialized so every question/answer pair lands
// on the transcript adjacent and in order. A generation failure is masked
// with the fixed fallback text and flagged on the result, the user turn is
// still recorded.
func (s *service) Chat(ctx context.Context, query string, conversationID string, nResults int) (chatModel.ChatResult, error) {
	if conversationID == "" {
		conversationID = utils.GetNewUUID()
	}
	log := s.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY), "conversation Id", conversationID)

	id, err := s.conversations.GetOrCreate(ctx, conversationID)
	if err != nil {
		log.Error("failed to open conversation", "error", err)
		return chatModel.ChatResult{}, err
	}

	results := s.Retrieve(ctx, query, nResults)

	texts := make([]string, 0, len(results))
	for _, r := range results {
		texts = append(texts, r.Text)
	}

	unlock := s.locks.lock(id)
	defer unlock()

	history, err := s.conversations.History(ctx, id)
	if err != nil {
		log.Error("failed to load history", "error", err)
		history = nil
	}
	window := utils.LastN(history, config.MaxConversationHistory)

	answer, degraded, reason := s.generate(ctx, log, query, texts, window)
	if degraded {
		metrics.IncrementDegradedResponses()
	}

	if err := s.conversations.Append(ctx, id, chatModel.Turn{Role: chatModel.RoleUser, Content: query}); err != nil {
		log.Error("failed to append user turn", "error", err)
	}
	if err := s.conversations.Append(ctx, id, chatModel.Turn{Role: chatModel.RoleAssistant, Content: answer}); err != nil {
		log.Error("failed to append assistant turn", "error", err)
	}

	//the response echoes back only the top texts, the prompt saw all of them
	return chatModel.ChatResult{
		Response:       answer,
		ConversationID: id,
		RetrievedCount: len(results),
		ContextExcerpt: utils.FirstN(texts, config.ContextExcerptLimit),
		Degraded:       degraded,
		DegradedReason: reason,
	}, nil
}

// Retrieve returns the closest chunks for a query. An unreachable index
// yields an empty set, chat still answers from general knowledge then.
func (s *service) Retrieve(ctx context.Context, query string, nResults int) []vectorstore.Result {
	if nResults <= 0 {
		nResults = config.DefaultNResults
	}

	searchCtx, cancel := context.WithTimeout(ctx, config.RetrievalTimeout)
	defer cancel()

	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("vector_search", time.Since(start)) }()

	return s.index.Query(searchCtx, query, nResults)
}

func (s *service) History(ctx context.Context, conversationID string) ([]chatModel.Turn, error) {
	return s.conversations.History(ctx, conversationID)
}

func (s *service) Conversations(ctx context.Context) ([]string, error) {
	return s.conversations.AllIDs(ctx)
}

func (s *service) DeleteConversation(ctx context.Context, conversationID string) bool {
	return s.conversations.Delete(ctx, conversationID)
}

func (s *service) generate(ctx context.Context, log *logger_i.Logger, query string, texts []string, window []chatModel.Turn) (answer string, degraded bool, reason string) {
	if s.llmProvider == nil {
		log.Error("no generation backend configured")
		return config.FallbackResponse, true, "generation backend unavailable"
	}

	contextBlock := config.NoContextNotice
	if len(texts) > 0 {
		contextBlock = strings.Join(texts, "\n\n")
	}
	systemPrompt := config.SystemPrompt + "\n\nContext:\n" + contextBlock

	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("llm_generation", time.Since(start)) }()

	answer, err := s.callWithTimeout(ctx, systemPrompt, window, query)
	if err != nil {
		log.Error("generation failed, retrying once", "error", err)
		answer, err = s.callWithTimeout(ctx, systemPrompt, window, query)
	}
	if err != nil {
		log.Error("generation failed after retry", "error", err)
		return config.FallbackResponse, true, "generation failed"
	}
	return answer, false, ""
}

func (s *service) callWithTimeout(ctx context.Context, systemPrompt string, window []chatModel.Turn, query string) (string, error) {
	genCtx, cancel := context.WithTimeout(ctx, config.GenerationTimeout)
	defer cancel()
	return s.llmProvider.Generate(genCtx, systemPrompt, window, query)
}

// keyedMutex hands out one mutex per conversation id. Entries are not
// reaped, a conversation's mutex lives as long as the process.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newKeyedMutex() *keyedMutex {
	return &keyedMutex{locks: make(map[string]*sync.Mutex)}
}

func (k *keyedMutex) lock(id string) func() {
	k.mu.Lock()
	m, ok := k.locks[id]
	if !ok {
		m = new(sync.Mutex)
		k.locks[id] = m
	}
	k.mu.Unlock()

	m.Lock()
	return m.Unlock
}
