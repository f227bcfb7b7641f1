package store

import (
	"context"
	"encoding/json"
	"sort"

	"github.com/docuchat/RagAPI/internal/config"
	"github.com/docuchat/RagAPI/internal/data/redisStore"
	"github.com/docuchat/RagAPI/internal/domain/docModel"
	"github.com/docuchat/RagAPI/pkg/logger_i"
)

const (
	fileKeyPrefix = "file:"
	fileIndexKey  = "files"
)

type RedisFileLedger struct {
	store  *redisStore.Store
	logger *logger_i.Logger
}

func GetRedisFileLedger(ctx context.Context) *RedisFileLedger {
	internal := redisStore.GetRedisStore(ctx, config.RedisFileLedgerDB)
	if internal == nil {
		return nil
	}
	return &RedisFileLedger{
		store:  internal,
		logger: logger_i.NewLogger("FileLedger"),
	}
}

func (s *RedisFileLedger) RegisterIfNew(ctx context.Context, record docModel.FileRecord) (docModel.FileRecord, bool, error) {
	log := s.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY), "file hash", record.FileHash)
	data, err := json.Marshal(record)
	if err != nil {
		return record, false, err
	}

	written, err := s.store.SetIfAbsent(ctx, fileKeyPrefix+record.FileHash, data, 0)
	if err != nil {
		log.Error("failed to register file", "err", err)
		return record, false, err
	}
	if !written {
		existing, found := s.Get(ctx, record.FileHash)
		if found {
			log.Debug("file already registered")
			return existing, false, nil
		}
		return record, false, nil
	}

	if err := s.store.SetAdd(ctx, fileIndexKey, record.FileHash); err != nil {
		log.Error("failed to index file hash", "err", err)
		return record, true, err
	}
	log.Debug("registered new file")
	return record, true, nil
}

func (s *RedisFileLedger) Update(ctx context.Context, record docModel.FileRecord) error {
	log := s.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY), "file hash", record.FileHash)
	data, err := json.Marshal(record)
	if err != nil {
		return err
	}

	err = s.store.Set(ctx, fileKeyPrefix+record.FileHash, data, 0)
	if err != nil {
		log.Error("failed to update file record", "err", err)
	}
	return err
}

func (s *RedisFileLedger) Get(ctx context.Context, fileHash string) (docModel.FileRecord, bool) {
	var record docModel.FileRecord
	val, err := s.store.Get(ctx, fileKeyPrefix+fileHash)
	if s.store.IsNil(err) {
		return record, false
	} else if err != nil {
		s.logger.Error("failed to get file record", "file hash", fileHash, "err", err)
		return record, false
	}

	if err := json.Unmarshal([]byte(val), &record); err != nil {
		return record, false
	}
	return record, true
}

func (s *RedisFileLedger) List(ctx context.Context) ([]docModel.FileRecord, error) {
	hashes, err := s.store.SetMembers(ctx, fileIndexKey)
	if err != nil {
		return nil, err
	}
	sort.Strings(hashes)

	records := make([]docModel.FileRecord, 0, len(hashes))
	for _, hash := range hashes {
		if record, found := s.Get(ctx, hash); found {
			records = append(records, record)
		}
	}
	return records, nil
}

func (s *RedisFileLedger) Remove(ctx context.Context, fileHash string) bool {
	if _, found := s.Get(ctx, fileHash); !found {
		return false
	}
	if err := s.store.Del(ctx, fileKeyPrefix+fileHash); err != nil {
		s.logger.Error("failed to delete file record", "file hash", fileHash, "err", err)
		return false
	}
	if err := s.store.SetRemove(ctx, fileIndexKey, fileHash); err != nil {
		s.logger.Error("failed to unindex file hash", "file hash", fileHash, "err", err)
	}
	return true
}

func (s *RedisFileLedger) Stats(ctx context.Context) (docModel.LedgerStats, error) {
	stats := docModel.LedgerStats{FileTypes: make(map[string]int)}
	records, err := s.List(ctx)
	if err != nil {
		return stats, err
	}
	for _, record := range records {
		stats.TotalFiles++
		stats.TotalChunks += record.TotalChunks
		stats.TotalSizeBytes += record.SizeBytes
		stats.FileTypes[record.Extension]++
	}
	return stats, nil
}

func TestFileLedger(store *redisStore.Store) *RedisFileLedger {
	return &RedisFileLedger{
		store:  store,
		logger: logger_i.NewLogger("test redis ledger"),
	}
}
