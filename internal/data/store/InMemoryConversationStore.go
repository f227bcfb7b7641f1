package store

import (
	"context"
	"sort"
	"sync"

	"github.com/docuchat/RagAPI/internal/domain/chatModel"
)

type InMemoryConversationStore struct {
	chatLock *sync.RWMutex
	chatMap  map[string][]chatModel.Turn
}

func InitInMemoryConversationStore() *InMemoryConversationStore {
	return &InMemoryConversationStore{
		chatLock: new(sync.RWMutex),
		chatMap:  make(map[string][]chatModel.Turn),
	}
}

func (store *InMemoryConversationStore) GetOrCreate(ctx context.Context, conversationID string) (string, error) {
	store.chatLock.Lock()
	defer store.chatLock.Unlock()

	if _, found := store.chatMap[conversationID]; !found {
		store.chatMap[conversationID] = make([]chatModel.Turn, 0)
	}
	return conversationID, nil
}

func (store *InMemoryConversationStore) Append(ctx context.Context, conversationID string, turn chatModel.Turn) error {
	store.chatLock.Lock()
	defer store.chatLock.Unlock()
	store.chatMap[conversationID] = append(store.chatMap[conversationID], turn)
	return nil
}

func (store *InMemoryConversationStore) History(ctx context.Context, conversationID string) ([]chatModel.Turn, error) {
	store.chatLock.RLock()
	defer store.chatLock.RUnlock()

	turns := store.chatMap[conversationID]
	out := make([]chatModel.Turn, len(turns))
	copy(out, turns)
	return out, nil
}

func (store *InMemoryConversationStore) AllIDs(ctx context.Context) ([]string, error) {
	store.chatLock.RLock()
	defer store.chatLock.RUnlock()

	ids := make([]string, 0, len(store.chatMap))
	for id := range store.chatMap {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

func (store *InMemoryConversationStore) Delete(ctx context.Context, conversationID string) bool {
	store.chatLock.Lock()
	defer store.chatLock.Unlock()

	if _, found := store.chatMap[conversationID]; !found {
		return false
	}
	delete(store.chatMap, conversationID)
	return true
}
