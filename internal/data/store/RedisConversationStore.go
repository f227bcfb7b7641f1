package store

import (
	"context"
	"encoding/json"
	"sort"

	"github.com/docuchat/RagAPI/internal/config"
	"github.com/docuchat/RagAPI/internal/data/redisStore"
	"github.com/docuchat/RagAPI/internal/domain/chatModel"
	"github.com/docuchat/RagAPI/pkg/logger_i"
)

const (
	chatKeyPrefix = "chat:"
	chatIndexKey  = "conversations"
)

type RedisConversationStore struct {
	store  *redisStore.Store
	logger *logger_i.Logger
}

func GetRedisConversationStore(ctx context.Context) *RedisConversationStore {
	internal := redisStore.GetRedisStore(ctx, config.RedisConversationDB)
	if internal == nil {
		return nil
	}
	return &RedisConversationStore{
		store:  internal,
		logger: logger_i.NewLogger("ConversationStore"),
	}
}

func (s *RedisConversationStore) GetOrCreate(ctx context.Context, conversationID string) (string, error) {
	log := s.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY), "conversation Id", conversationID)
	err := s.store.SetAdd(ctx, chatIndexKey, conversationID)
	if err != nil {
		log.Error("failed to register conversation", "err", err)
		return conversationID, err
	}
	return conversationID, nil
}

func (s *RedisConversationStore) Append(ctx context.Context, conversationID string, turn chatModel.Turn) error {
	log := s.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY), "conversation Id", conversationID)
	data, err := json.Marshal(turn)
	if err != nil {
		log.Error("error marshalling turn", "err", err)
		return err
	}

	if err := s.store.SetAdd(ctx, chatIndexKey, conversationID); err != nil {
		log.Error("failed to register conversation", "err", err)
		return err
	}
	err = s.store.ListPush(ctx, chatKeyPrefix+conversationID, data)
	if err != nil {
		log.Error("error saving turn", "err", err)
	}
	return err
}

func (s *RedisConversationStore) History(ctx context.Context, conversationID string) ([]chatModel.Turn, error) {
	log := s.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY), "conversation Id", conversationID)

	raw, err := s.store.ListGetAll(ctx, chatKeyPrefix+conversationID)
	if s.store.IsNil(err) {
		return []chatModel.Turn{}, nil
	} else if err != nil {
		log.Error("error getting history", "err", err)
		return nil, err
	}

	turns := make([]chatModel.Turn, 0, len(raw))
	for _, item := range raw {
		var turn chatModel.Turn
		if err := json.Unmarshal([]byte(item), &turn); err != nil {
			log.Error("skipping malformed turn", "err", err)
			continue
		}
		turns = append(turns, turn)
	}
	return turns, nil
}

func (s *RedisConversationStore) AllIDs(ctx context.Context) ([]string, error) {
	ids, err := s.store.SetMembers(ctx, chatIndexKey)
	if err != nil {
		return nil, err
	}
	sort.Strings(ids)
	return ids, nil
}

func (s *RedisConversationStore) Delete(ctx context.Context, conversationID string) bool {
	found, err := s.store.Exists(ctx, chatKeyPrefix+conversationID)
	if err != nil {
		s.logger.Error("failed to check conversation", "conversation Id", conversationID, "err", err)
		return false
	}

	indexed, err := s.store.SetMembers(ctx, chatIndexKey)
	if err == nil && !found {
		for _, id := range indexed {
			if id == conversationID {
				found = true
				break
			}
		}
	}
	if !found {
		return false
	}

	if err := s.store.Del(ctx, chatKeyPrefix+conversationID); err != nil {
		s.logger.Error("failed to delete conversation", "conversation Id", conversationID, "err", err)
		return false
	}
	if err := s.store.SetRemove(ctx, chatIndexKey, conversationID); err != nil {
		s.logger.Error("failed to unindex conversation", "conversation Id", conversationID, "err", err)
	}
	return true
}

func TestConversationStore(store *redisStore.Store) *RedisConversationStore {
	return &RedisConversationStore{
		store:  store,
		logger: logger_i.NewLogger("test redis chat"),
	}
}
