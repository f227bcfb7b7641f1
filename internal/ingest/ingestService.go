package ingest

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/docuchat/RagAPI/internal/config"
	"github.com/docuchat/RagAPI/internal/domain/docModel"
	"github.com/docuchat/RagAPI/internal/ingest/chunker"
	"github.com/docuchat/RagAPI/internal/ingest/dedup"
	"github.com/docuchat/RagAPI/internal/ingest/extract"
	"github.com/docuchat/RagAPI/internal/metrics"
	"github.com/docuchat/RagAPI/internal/vectorstore"
	"github.com/docuchat/RagAPI/pkg/logger_i"
)

// Task is one queued ingestion unit handed to the worker pool. The file
// was already hashed and registered, the worker runs the rest of the
// pipeline.
type Task struct {
	FileHash string
	Path     string
	Filename string
	Tags     map[string]string
	TraceId  string
}

// Service covers the document side of the system: the upload dedup gate,
// the extract-chunk-index pipeline and ledger queries.
type Service interface {
	RegisterUpload(ctx context.Context, path string, filename string, size int64) (docModel.FileRecord, bool, error)
	ProcessFile(ctx context.Context, task Task) docModel.FileRecord
	IndexText(ctx context.Context, text string, tags map[string]string) ([]string, error)
	DeleteFile(ctx context.Context, fileHash string) (docModel.FileRecord, bool, error)
	ListFiles(ctx context.Context) ([]docModel.FileRecord, error)
	GetFile(ctx context.Context, fileHash string) (docModel.FileRecord, bool)
	FileStats(ctx context.Context) (docModel.LedgerStats, error)
}

type service struct {
	ledger   docModel.FileLedger
	index    vectorstore.Index
	registry *extract.Registry
	splitter *chunker.Splitter
	logger   *logger_i.Logger
}

func NewService(ledger docModel.FileLedger, index vectorstore.Index) Service {
	return &service{
		ledger:   ledger,
		index:    index,
		registry: extract.NewRegistry(),
		splitter: chunker.NewSplitter(config.ChunkSize, config.ChunkOverlap, config.MinChunkSize),
		logger:   logger_i.NewLogger("Ingest Service :"),
	}
}

// RegisterUpload hashes the stored upload and registers it in the ledger.
// accepted=false means the exact same bytes are already known, the caller
// gets the existing record and must not queue the file again.
func (s *service) RegisterUpload(ctx context.Context, path string, filename string, size int64) (docModel.FileRecord, bool, error) {
	log := s.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY), "filename", filename)

	record := docModel.FileRecord{
		Filename:   filename,
		Extension:  strings.ToLower(filepath.Ext(filename)),
		SizeBytes:  size,
		Status:     docModel.StatusReceived,
		UploadedAt: time.Now().UTC(),
	}

	fileHash, err := dedup.HashFile(path)
	if err != nil {
		log.Error("failed to hash upload", "error", err)
		return record, false, err
	}
	record.FileHash = fileHash
	record.Status = docModel.StatusHashed

	existing, accepted, err := s.ledger.RegisterIfNew(ctx, record)
	if err != nil {
		return record, false, err
	}
	if !accepted {
		log.Info("duplicate upload rejected", "file hash", fileHash)
		//the returned copy is marked duplicate, the stored record keeps its
		//real pipeline status
		existing.Status = docModel.StatusDuplicate
		return existing, false, nil
	}

	record.Status = docModel.StatusUnique
	if err := s.ledger.Update(ctx, record); err != nil {
		log.Error("failed to advance record status", "error", err)
	}
	log.Debug("registered new upload", "file hash", fileHash)
	return record, true, nil
}

// ProcessFile runs extract, chunk and index for one registered upload.
// Indexing is all-or-nothing: a failed batch write leaves no chunks behind
// and the record goes to Failed with the reason kept on it.
func (s *service) ProcessFile(ctx context.Context, task Task) docModel.FileRecord {
	log := s.logger.With("traceId", task.TraceId, "file hash", task.FileHash)
	start := time.Now()

	record, found := s.ledger.Get(ctx, task.FileHash)
	if !found {
		log.Error("task references an unregistered file")
		metrics.CaptureIngestMetrics("failed", time.Since(start))
		return docModel.FileRecord{FileHash: task.FileHash, Status: docModel.StatusFailed, FailedReason: "file not registered"}
	}

	defer s.cleanupUpload(task.Path, log)

	text, err := s.registry.Extract(task.Path, task.Filename)
	if err != nil {
		metrics.CaptureIngestMetrics("failed", time.Since(start))
		return s.failRecord(ctx, record, extractFailureReason(err), log)
	}
	record = s.advance(ctx, record, docModel.StatusExtracted, log)

	pieces := s.splitter.Split(text)
	if len(pieces) == 0 {
		metrics.CaptureIngestMetrics("failed", time.Since(start))
		return s.failRecord(ctx, record, "no chunks retained after splitting", log)
	}
	record.TotalChunks = len(pieces)
	record = s.advance(ctx, record, docModel.StatusChunked, log)

	chunks := make([]docModel.Chunk, len(pieces))
	for i, piece := range pieces {
		chunks[i] = docModel.Chunk{
			Text: piece,
			Meta: docModel.ChunkMeta{
				SourceFileHash: record.FileHash,
				Filename:       record.Filename,
				ChunkIndex:     i,
				TotalChunks:    len(pieces),
				ChunkSize:      len(piece),
				Tags:           task.Tags,
			},
		}
	}

	ids, err := s.index.AddBatch(ctx, chunks)
	if err != nil {
		metrics.CaptureIngestMetrics("failed", time.Since(start))
		return s.failRecord(ctx, record, "vector index write failed", log)
	}
	record.ChunkIDs = ids
	record = s.advance(ctx, record, docModel.StatusIndexed, log)

	record = s.advance(ctx, record, docModel.StatusCompleted, log)
	metrics.CaptureIngestMetrics("completed", time.Since(start))
	log.Info("file ingested", "chunks", len(ids))
	return record
}

// IndexText chunks and indexes caller-supplied text without a ledger
// entry. Backs the direct document endpoints.
func (s *service) IndexText(ctx context.Context, text string, tags map[string]string) ([]string, error) {
	pieces := s.splitter.Split(text)
	if len(pieces) == 0 {
		return nil, extract.ErrEmptyContent
	}

	chunks := make([]docModel.Chunk, len(pieces))
	for i, piece := range pieces {
		chunks[i] = docModel.Chunk{
			Text: piece,
			Meta: docModel.ChunkMeta{
				ChunkIndex:  i,
				TotalChunks: len(pieces),
				ChunkSize:   len(piece),
				Tags:        tags,
			},
		}
	}
	return s.index.AddBatch(ctx, chunks)
}

// DeleteFile removes the indexed chunks first and only then drops the
// ledger record, so a half-failed delete stays visible.
func (s *service) DeleteFile(ctx context.Context, fileHash string) (docModel.FileRecord, bool, error) {
	log := s.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY), "file hash", fileHash)

	record, found := s.ledger.Get(ctx, fileHash)
	if !found {
		return docModel.FileRecord{}, false, nil
	}

	removed, err := s.index.Delete(ctx, record.ChunkIDs)
	if err != nil {
		log.Error("failed to delete chunks from index", "error", err)
		return record, true, err
	}
	if !removed && len(record.ChunkIDs) > 0 {
		log.Warn("none of the recorded chunk ids were present in the index")
	}

	s.ledger.Remove(ctx, fileHash)
	log.Info("file deleted", "chunks", len(record.ChunkIDs))
	return record, true, nil
}

func (s *service) ListFiles(ctx context.Context) ([]docModel.FileRecord, error) {
	return s.ledger.List(ctx)
}

func (s *service) GetFile(ctx context.Context, fileHash string) (docModel.FileRecord, bool) {
	return s.ledger.Get(ctx, fileHash)
}

func (s *service) FileStats(ctx context.Context) (docModel.LedgerStats, error) {
	return s.ledger.Stats(ctx)
}

func (s *service) advance(ctx context.Context, record docModel.FileRecord, status docModel.FileStatus, log *logger_i.Logger) docModel.FileRecord {
	record.Status = status
	if err := s.ledger.Update(ctx, record); err != nil {
		log.Error("failed to persist status", "status", status, "error", err)
	}
	log.Debug("ProcessFile", "Current Status", status)
	return record
}

func (s *service) failRecord(ctx context.Context, record docModel.FileRecord, reason string, log *logger_i.Logger) docModel.FileRecord {
	log.Error("ingestion failed", "reason", reason)
	record.Status = docModel.StatusFailed
	record.FailedReason = reason
	record.ChunkIDs = nil
	if err := s.ledger.Update(ctx, record); err != nil {
		log.Error("failed to persist failure", "error", err)
	}
	return record
}

func (s *service) cleanupUpload(path string, log *logger_i.Logger) {
	if path == "" {
		return
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Error("failed to remove temp upload", "path", path, "error", err)
	}
}

func extractFailureReason(err error) string {
	switch {
	case errors.Is(err, extract.ErrUnsupportedFileType):
		return "unsupported file type"
	case errors.Is(err, extract.ErrEmptyContent):
		return "no extractable text"
	case errors.Is(err, extract.ErrDecodingFailure):
		return "undecodable text encoding"
	default:
		return "extraction failed"
	}
}
