package docModel

import (
	"context"
	"time"
)

type FileStatus string

const (
	StatusReceived  FileStatus = "Received"
	StatusHashed    FileStatus = "Hashed"
	StatusDuplicate FileStatus = "Duplicate"
	StatusUnique    FileStatus = "Unique"
	StatusExtracted FileStatus = "Extracted"
	StatusChunked   FileStatus = "Chunked"
	StatusIndexed   FileStatus = "Indexed"
	StatusCompleted FileStatus = "Completed"
	StatusFailed    FileStatus = "Failed"
)

// FileRecord is the client-side ledger entry mapping a content hash to the
// chunk ids that were written, so delete-by-file can be expressed as
// "delete these ids from the index". The vector index owns chunk storage.
type FileRecord struct {
	FileHash     string     `json:"file_hash"`
	Filename     string     `json:"filename"`
	Extension    string     `json:"file_extension"`
	SizeBytes    int64      `json:"file_size"`
	ChunkIDs     []string   `json:"chunk_ids,omitempty"`
	TotalChunks  int        `json:"total_chunks"`
	Status       FileStatus `json:"status"`
	FailedReason string     `json:"failed_reason,omitempty"`
	UploadedAt   time.Time  `json:"uploaded_at"`
}

// ChunkMeta is the fixed core schema attached to every indexed chunk, plus
// an open Tags map for caller-supplied metadata.
type ChunkMeta struct {
	SourceFileHash string            `json:"source_file_hash"`
	Filename       string            `json:"filename"`
	ChunkIndex     int               `json:"chunk_index"`
	TotalChunks    int               `json:"total_chunks"`
	ChunkSize      int               `json:"chunk_size"`
	Tags           map[string]string `json:"tags,omitempty"`
}

type Chunk struct {
	ID   string    `json:"id"`
	Text string    `json:"text"`
	Meta ChunkMeta `json:"metadata"`
}

type LedgerStats struct {
	TotalFiles     int            `json:"total_files"`
	TotalChunks    int            `json:"total_chunks"`
	TotalSizeBytes int64          `json:"total_size_bytes"`
	FileTypes      map[string]int `json:"file_types"`
}

// FileLedger tracks uploaded files by content hash. RegisterIfNew is the
// dedup gate: the first registration of a hash wins, later ones get the
// existing record back.
type FileLedger interface {
	RegisterIfNew(ctx context.Context, record FileRecord) (existing FileRecord, accepted bool, err error)
	Update(ctx context.Context, record FileRecord) error
	Get(ctx context.Context, fileHash string) (FileRecord, bool)
	List(ctx context.Context) ([]FileRecord, error)
	Remove(ctx context.Context, fileHash string) bool
	Stats(ctx context.Context) (LedgerStats, error)
}
