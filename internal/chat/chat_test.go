package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/docuchat/RagAPI/internal/config"
	"github.com/docuchat/RagAPI/internal/data/store"
	"github.com/docuchat/RagAPI/internal/domain/chatModel"
	"github.com/docuchat/RagAPI/internal/domain/docModel"
	"github.com/docuchat/RagAPI/internal/vectorstore"
)

type fakeIndex struct {
	results []vectorstore.Result
}

func (f *fakeIndex) Add(ctx context.Context, text string, meta docModel.ChunkMeta) (string, error) {
	return "", nil
}
func (f *fakeIndex) AddBatch(ctx context.Context, chunks []docModel.Chunk) ([]string, error) {
	return nil, nil
}
func (f *fakeIndex) Query(ctx context.Context, query string, limit int) []vectorstore.Result {
	if limit < len(f.results) {
		return f.results[:limit]
	}
	return f.results
}
func (f *fakeIndex) Delete(ctx context.Context, ids []string) (bool, error) { return false, nil }
func (f *fakeIndex) Stats(ctx context.Context) (vectorstore.Stats, error) {
	return vectorstore.Stats{}, nil
}

type fakeProvider struct {
	mu         sync.Mutex
	generateFn func(systemPrompt string, history []chatModel.Turn, query string) (string, error)
	calls      int
	lastPrompt string
	lastWindow []chatModel.Turn
}

func (f *fakeProvider) Generate(ctx context.Context, systemPrompt string, history []chatModel.Turn, query string) (string, error) {
	f.mu.Lock()
	f.calls++
	f.lastPrompt = systemPrompt
	f.lastWindow = history
	f.mu.Unlock()
	if f.generateFn != nil {
		return f.generateFn(systemPrompt, history, query)
	}
	return "generated answer", nil
}

func someResults(n int) []vectorstore.Result {
	results := make([]vectorstore.Result, n)
	for i := range results {
		results[i] = vectorstore.Result{Text: fmt.Sprintf("context snippet %d", i), Distance: float64(i) / 10}
	}
	return results
}

func TestChatAppendsTurnsInOrder(t *testing.T) {
	conversations := store.InitInMemoryConversationStore()
	svc := NewService(conversations, &fakeIndex{results: someResults(3)}, &fakeProvider{})
	ctx := context.Background()

	result, err := svc.Chat(ctx, "what is in the documents?", "conv-1", 5)
	if err != nil {
		t.Fatalf("Chat failed: %v", err)
	}
	if result.Response != "generated answer" || result.Degraded {
		t.Errorf("unexpected result: %+v", result)
	}
	if result.RetrievedCount != 3 {
		t.Errorf("expected 3 retrieved docs, got %d", result.RetrievedCount)
	}

	history, _ := svc.History(ctx, "conv-1")
	if len(history) != 2 {
		t.Fatalf("expected 2 turns after one chat, got %d", len(history))
	}
	if history[0].Role != chatModel.RoleUser || history[0].Content != "what is in the documents?" {
		t.Errorf("first turn wrong: %+v", history[0])
	}
	if history[1].Role != chatModel.RoleAssistant || history[1].Content != "generated answer" {
		t.Errorf("second turn wrong: %+v", history[1])
	}

	// a second exchange grows the transcript by exactly two
	if _, err := svc.Chat(ctx, "follow up", "conv-1", 5); err != nil {
		t.Fatalf("second Chat failed: %v", err)
	}
	history, _ = svc.History(ctx, "conv-1")
	if len(history) != 4 {
		t.Errorf("expected 4 turns after two chats, got %d", len(history))
	}
}

func TestChatGeneratesFreshConversationId(t *testing.T) {
	svc := NewService(store.InitInMemoryConversationStore(), &fakeIndex{}, &fakeProvider{})

	result, err := svc.Chat(context.Background(), "hello", "", 0)
	if err != nil {
		t.Fatalf("Chat failed: %v", err)
	}
	if result.ConversationID == "" {
		t.Error("expected a generated conversation id")
	}

	ids, _ := svc.Conversations(context.Background())
	if len(ids) != 1 || ids[0] != result.ConversationID {
		t.Errorf("conversation not registered: %v", ids)
	}
}

func TestChatFallbackOnGenerationFailure(t *testing.T) {
	provider := &fakeProvider{
		generateFn: func(string, []chatModel.Turn, string) (string, error) {
			return "", errors.New("model overloaded")
		},
	}
	svc := NewService(store.InitInMemoryConversationStore(), &fakeIndex{results: someResults(2)}, provider)

	result, err := svc.Chat(context.Background(), "question", "conv-err", 5)
	if err != nil {
		t.Fatalf("Chat must mask generation failures, got %v", err)
	}
	if !result.Degraded {
		t.Error("expected a degraded result")
	}
	if result.Response != config.FallbackResponse {
		t.Errorf("expected the fixed fallback text, got %q", result.Response)
	}
	if provider.calls != 2 {
		t.Errorf("expected exactly one retry, got %d calls", provider.calls)
	}

	// the failed exchange is still part of the transcript
	history, _ := svc.History(context.Background(), "conv-err")
	if len(history) != 2 || history[1].Content != config.FallbackResponse {
		t.Errorf("transcript not recorded on failure: %+v", history)
	}
}

func TestChatRetrySucceeds(t *testing.T) {
	attempts := 0
	provider := &fakeProvider{
		generateFn: func(string, []chatModel.Turn, string) (string, error) {
			attempts++
			if attempts == 1 {
				return "", errors.New("transient")
			}
			return "recovered answer", nil
		},
	}
	svc := NewService(store.InitInMemoryConversationStore(), &fakeIndex{}, provider)

	result, err := svc.Chat(context.Background(), "question", "conv-retry", 5)
	if err != nil {
		t.Fatalf("Chat failed: %v", err)
	}
	if result.Degraded || result.Response != "recovered answer" {
		t.Errorf("retry did not recover: %+v", result)
	}
}

func TestChatEmptyIndexUsesNoContextNotice(t *testing.T) {
	provider := &fakeProvider{}
	svc := NewService(store.InitInMemoryConversationStore(), &fakeIndex{}, provider)

	result, err := svc.Chat(context.Background(), "anything indexed?", "conv-empty", 5)
	if err != nil {
		t.Fatalf("Chat failed: %v", err)
	}
	if result.RetrievedCount != 0 || len(result.ContextExcerpt) != 0 {
		t.Errorf("expected no retrieved context: %+v", result)
	}
	if !strings.Contains(provider.lastPrompt, config.NoContextNotice) {
		t.Errorf("system prompt missing the no-context notice:\n%s", provider.lastPrompt)
	}
}

func TestChatContextExcerptIsCapped(t *testing.T) {
	provider := &fakeProvider{}
	svc := NewService(store.InitInMemoryConversationStore(), &fakeIndex{results: someResults(5)}, provider)

	result, err := svc.Chat(context.Background(), "question", "conv-excerpt", 5)
	if err != nil {
		t.Fatalf("Chat failed: %v", err)
	}
	if result.RetrievedCount != 5 {
		t.Errorf("expected 5 retrieved docs, got %d", result.RetrievedCount)
	}
	if len(result.ContextExcerpt) != config.ContextExcerptLimit {
		t.Fatalf("excerpt holds %d texts, want %d", len(result.ContextExcerpt), config.ContextExcerptLimit)
	}
	if result.ContextExcerpt[0] != "context snippet 0" || result.ContextExcerpt[1] != "context snippet 1" {
		t.Errorf("excerpt must keep the closest hits first: %v", result.ContextExcerpt)
	}
	// the capped excerpt is response-side only, the prompt carries every hit
	for i := 0; i < 5; i++ {
		if !strings.Contains(provider.lastPrompt, fmt.Sprintf("context snippet %d", i)) {
			t.Errorf("prompt missing retrieved text %d", i)
		}
	}
}

func TestChatTrimsHistoryWindow(t *testing.T) {
	conversations := store.InitInMemoryConversationStore()
	provider := &fakeProvider{}
	svc := NewService(conversations, &fakeIndex{}, provider)
	ctx := context.Background()

	id, _ := conversations.GetOrCreate(ctx, "conv-long")
	for i := 0; i < 15; i++ {
		_ = conversations.Append(ctx, id, chatModel.Turn{Role: chatModel.RoleUser, Content: fmt.Sprintf("q%d", i)})
		_ = conversations.Append(ctx, id, chatModel.Turn{Role: chatModel.RoleAssistant, Content: fmt.Sprintf("a%d", i)})
	}

	if _, err := svc.Chat(ctx, "latest question", id, 5); err != nil {
		t.Fatalf("Chat failed: %v", err)
	}

	if len(provider.lastWindow) != config.MaxConversationHistory {
		t.Errorf("prompt window holds %d turns, want %d", len(provider.lastWindow), config.MaxConversationHistory)
	}
	// the window ends with the newest stored turn
	last := provider.lastWindow[len(provider.lastWindow)-1]
	if last.Content != "a14" {
		t.Errorf("window not anchored at the newest turn: %+v", last)
	}

	// full transcript is untouched by trimming
	history, _ := svc.History(ctx, id)
	if len(history) != 32 {
		t.Errorf("expected 32 stored turns, got %d", len(history))
	}
}

func TestChatNilProviderDegrades(t *testing.T) {
	svc := NewService(store.InitInMemoryConversationStore(), &fakeIndex{}, nil)

	result, err := svc.Chat(context.Background(), "question", "conv-nil", 5)
	if err != nil {
		t.Fatalf("Chat failed: %v", err)
	}
	if !result.Degraded || result.Response != config.FallbackResponse {
		t.Errorf("expected degraded fallback: %+v", result)
	}
}

func TestDeleteConversation(t *testing.T) {
	svc := NewService(store.InitInMemoryConversationStore(), &fakeIndex{}, &fakeProvider{})
	ctx := context.Background()

	if _, err := svc.Chat(ctx, "hi", "conv-del", 5); err != nil {
		t.Fatalf("Chat failed: %v", err)
	}
	if !svc.DeleteConversation(ctx, "conv-del") {
		t.Error("expected delete to report success")
	}
	if svc.DeleteConversation(ctx, "conv-del") {
		t.Error("second delete must report false")
	}
	if history, _ := svc.History(ctx, "conv-del"); len(history) != 0 {
		t.Error("history must be empty after delete")
	}
}
