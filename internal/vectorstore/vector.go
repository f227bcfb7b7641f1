package vectorstore

import (
	"context"
	"errors"

	"github.com/docuchat/RagAPI/internal/domain/docModel"
)

var ErrIndexWrite = errors.New("vector index write failed")

// Result is one retrieval hit. Distance is 1 - cosine similarity, lower
// means closer.
type Result struct {
	Text     string             `json:"text"`
	Meta     docModel.ChunkMeta `json:"metadata"`
	Distance float64            `json:"distance"`
}

type Stats struct {
	CollectionName string `json:"collection_name"`
	PointsCount    uint64 `json:"points_count"`
	Dimension      uint64 `json:"dimension"`
	Status         string `json:"status"`
}

// Index is the write/read surface over the vector database. Add and
// AddBatch assign ids and return them so the caller can record what was
// written. Query degrades to an empty result set on backend failure, it
// never surfaces an error to the caller. Delete is idempotent and reports
// whether any of the ids were actually present.
type Index interface {
	Add(ctx context.Context, text string, meta docModel.ChunkMeta) (string, error)
	AddBatch(ctx context.Context, chunks []docModel.Chunk) ([]string, error)
	Query(ctx context.Context, query string, limit int) []Result
	Delete(ctx context.Context, ids []string) (bool, error)
	Stats(ctx context.Context) (Stats, error)
}
