package store

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/docuchat/RagAPI/internal/domain/docModel"
	"github.com/docuchat/RagAPI/pkg/logger_i"
)

var inMemLogger = logger_i.NewLogger("InMem FileLedger")

var ErrUnknownFile = errors.New("unknown file hash")

type InMemoryFileLedger struct {
	fileMutex *sync.RWMutex
	fileMap   map[string]docModel.FileRecord
}

func InitInMemoryFileLedger() *InMemoryFileLedger {
	return &InMemoryFileLedger{
		fileMutex: new(sync.RWMutex),
		fileMap:   make(map[string]docModel.FileRecord),
	}
}

func (ledger *InMemoryFileLedger) RegisterIfNew(ctx context.Context, record docModel.FileRecord) (docModel.FileRecord, bool, error) {
	ledger.fileMutex.Lock()
	defer ledger.fileMutex.Unlock()

	if existing, found := ledger.fileMap[record.FileHash]; found {
		inMemLogger.Info(record.FileHash, " : already registered")
		return existing, false, nil
	}
	ledger.fileMap[record.FileHash] = record
	return record, true, nil
}

func (ledger *InMemoryFileLedger) Update(ctx context.Context, record docModel.FileRecord) error {
	ledger.fileMutex.Lock()
	defer ledger.fileMutex.Unlock()

	if _, found := ledger.fileMap[record.FileHash]; !found {
		return ErrUnknownFile
	}
	ledger.fileMap[record.FileHash] = record
	return nil
}

func (ledger *InMemoryFileLedger) Get(ctx context.Context, fileHash string) (docModel.FileRecord, bool) {
	ledger.fileMutex.RLock()
	defer ledger.fileMutex.RUnlock()
	record, found := ledger.fileMap[fileHash]
	return record, found
}

func (ledger *InMemoryFileLedger) List(ctx context.Context) ([]docModel.FileRecord, error) {
	ledger.fileMutex.RLock()
	defer ledger.fileMutex.RUnlock()

	records := make([]docModel.FileRecord, 0, len(ledger.fileMap))
	for _, record := range ledger.fileMap {
		records = append(records, record)
	}
	sort.Slice(records, func(i, j int) bool {
		return records[i].FileHash < records[j].FileHash
	})
	return records, nil
}

func (ledger *InMemoryFileLedger) Remove(ctx context.Context, fileHash string) bool {
	ledger.fileMutex.Lock()
	defer ledger.fileMutex.Unlock()

	if _, found := ledger.fileMap[fileHash]; !found {
		return false
	}
	delete(ledger.fileMap, fileHash)
	return true
}

func (ledger *InMemoryFileLedger) Stats(ctx context.Context) (docModel.LedgerStats, error) {
	ledger.fileMutex.RLock()
	defer ledger.fileMutex.RUnlock()

	stats := docModel.LedgerStats{FileTypes: make(map[string]int)}
	for _, record := range ledger.fileMap {
		stats.TotalFiles++
		stats.TotalChunks += record.TotalChunks
		stats.TotalSizeBytes += record.SizeBytes
		stats.FileTypes[record.Extension]++
	}
	return stats, nil
}
