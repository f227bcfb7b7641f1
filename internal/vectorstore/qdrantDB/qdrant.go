package qdrantDB

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/docuchat/RagAPI/internal/adapter/utils"
	"github.com/docuchat/RagAPI/internal/config"
	"github.com/docuchat/RagAPI/internal/domain/docModel"
	"github.com/docuchat/RagAPI/internal/rag/embedding"
	"github.com/docuchat/RagAPI/internal/vectorstore"
	"github.com/docuchat/RagAPI/pkg/logger_i"
	"github.com/qdrant/go-client/qdrant"
)

var logger *logger_i.Logger
var qdrantInstance *qdrant.Client
var once sync.Once
var dimension = uint64(config.EmbeddingOutputDimensionality)
var collectionName = config.CollectionName

type ClientHolder struct {
	QObj     *qdrant.Client
	embedder embedding.Embedder
}

// GetQdrantIndex dials qdrant on first use and ensures the collection
// exists. Returns nil when the backend is unreachable.
func GetQdrantIndex(ctx context.Context, embedder embedding.Embedder) *ClientHolder {

	once.Do(func() {
		logger = logger_i.NewLogger("Qdrant")
		res := newClient()
		if res != nil {
			qdrantInstance = res
			go closeQdrant(ctx, qdrantInstance)
		}
	})

	if qdrantInstance == nil {
		return nil
	}
	return &ClientHolder{
		QObj:     qdrantInstance,
		embedder: embedder,
	}
}

func newClient() *qdrant.Client {

	host := os.Getenv("QDRANT_HOST")
	port, er := strconv.Atoi(os.Getenv("QDRANT_PORT"))

	if host == "" || er != nil {
		host = config.QdrantHost
		port = config.QdrantGrpcPort
	}

	client, err := qdrant.NewClient(&qdrant.Config{
		Host:     host,
		Port:     port,
		UseTLS:   config.QdrantUseTLS,
		PoolSize: uint(config.QdrantPoolSize),
	})
	if err != nil {
		logger.Error("could not instantiate: ", "error:", err)
		return nil
	}

	err = createCollection(context.Background(), client, collectionName)
	if err != nil {
		logger.Error("could not create collection: ", "collectionName", collectionName, "error:", err)
		return nil
	}

	return client
}

func closeQdrant(ctx context.Context, qi *qdrant.Client) {
	<-ctx.Done()
	logger.Info("Shutting down Qdrant")
	err := qi.Close()
	if err != nil {
		logger.Error("could not close Qdrant: ", "error:", err)
	}
	logger.Info("Closed Qdrant")
}

func (db *ClientHolder) Add(ctx context.Context, text string, meta docModel.ChunkMeta) (string, error) {
	ids, err := db.AddBatch(ctx, []docModel.Chunk{{Text: text, Meta: meta}})
	if err != nil {
		return "", err
	}
	return ids[0], nil
}

// AddBatch embeds and upserts all chunks in one call. All-or-nothing: a
// failed embedding or upsert leaves nothing behind and returns no ids.
func (db *ClientHolder) AddBatch(ctx context.Context, chunks []docModel.Chunk) ([]string, error) {
	log := logger.With("traceId", ctx.Value(config.TRACE_ID_KEY))
	if len(chunks) == 0 {
		return nil, nil
	}

	texts := make([]string, len(chunks))
	for i, chunk := range chunks {
		texts[i] = chunk.Text
	}

	vectors, err := db.embedder.BatchEmbedding(ctx, texts)
	if err != nil {
		log.Error("Error embedding batch: ", "error:", err)
		return nil, fmt.Errorf("%w: %v", vectorstore.ErrIndexWrite, err)
	}
	if len(vectors) != len(chunks) {
		return nil, fmt.Errorf("%w: got %d chunks but %d vectors", vectorstore.ErrIndexWrite, len(chunks), len(vectors))
	}

	indexedAt := time.Now().Unix()
	ids := make([]string, len(chunks))
	qdrantPoints := make([]*qdrant.PointStruct, len(chunks))

	for i, chunk := range chunks {
		id := chunk.ID
		if id == "" {
			id = utils.GetNewUUID()
		}
		ids[i] = id

		payload := map[string]any{
			"content":          chunk.Text,
			"source_file_hash": chunk.Meta.SourceFileHash,
			"filename":         chunk.Meta.Filename,
			"chunk_index":      int64(chunk.Meta.ChunkIndex),
			"total_chunks":     int64(chunk.Meta.TotalChunks),
			"chunk_size":       int64(chunk.Meta.ChunkSize),
			"indexed_at":       indexedAt,
		}
		for k, v := range chunk.Meta.Tags {
			payload["tag_"+k] = v
		}

		qdrantPoints[i] = &qdrant.PointStruct{
			Id:      qdrant.NewID(id),
			Vectors: qdrant.NewVectors(vectors[i]...),
			Payload: qdrant.NewValueMap(payload),
		}
	}

	_, err = db.QObj.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: collectionName,
		Points:         qdrantPoints,
		Wait:           qdrant.PtrOf(true),
	})

	if err != nil {
		log.Error("Error upserting batch: ", "error:", err)
		return nil, fmt.Errorf("%w: %v", vectorstore.ErrIndexWrite, err)
	}

	return ids, nil
}

// Query embeds the query text and returns the closest chunks. Any backend
// failure degrades to an empty result set.
func (db *ClientHolder) Query(ctx context.Context, query string, limit int) []vectorstore.Result {
	log := logger.With("traceId", ctx.Value(config.TRACE_ID_KEY))
	if limit <= 0 {
		limit = config.DefaultNResults
	}

	vector, err := db.embedder.GetEmbedding(ctx, query)
	if err != nil {
		log.Error("Error embedding query: ", "error:", err)
		return nil
	}

	hits, err := db.QObj.Query(ctx, &qdrant.QueryPoints{
		CollectionName: collectionName,
		Query:          qdrant.NewQuery(vector...),
		Limit:          qdrant.PtrOf(uint64(limit)),
		WithPayload:    qdrant.NewWithPayload(true),
	})

	if err != nil {
		log.Error("Error querying Qdrant: ", "error:", err)
		return nil
	}

	results := make([]vectorstore.Result, 0, len(hits))
	for _, hit := range hits {
		meta := docModel.ChunkMeta{
			SourceFileHash: hit.Payload["source_file_hash"].GetStringValue(),
			Filename:       hit.Payload["filename"].GetStringValue(),
			ChunkIndex:     int(hit.Payload["chunk_index"].GetIntegerValue()),
			TotalChunks:    int(hit.Payload["total_chunks"].GetIntegerValue()),
			ChunkSize:      int(hit.Payload["chunk_size"].GetIntegerValue()),
		}
		for key, val := range hit.Payload {
			if len(key) > 4 && key[:4] == "tag_" {
				if meta.Tags == nil {
					meta.Tags = make(map[string]string)
				}
				meta.Tags[key[4:]] = val.GetStringValue()
			}
		}

		results = append(results, vectorstore.Result{
			Text:     hit.Payload["content"].GetStringValue(),
			Meta:     meta,
			Distance: 1 - float64(hit.GetScore()),
		})
	}

	log.Debug("Found matches", "count", len(results))
	return results
}

// Delete removes the given points and reports whether any of them existed.
// Deleting unknown ids is not an error, the caller just gets false back.
func (db *ClientHolder) Delete(ctx context.Context, ids []string) (bool, error) {
	if len(ids) == 0 {
		return false, nil
	}

	pointIds := make([]*qdrant.PointId, len(ids))
	for i, id := range ids {
		pointIds[i] = qdrant.NewID(id)
	}

	existing, err := db.QObj.Get(ctx, &qdrant.GetPoints{
		CollectionName: collectionName,
		Ids:            pointIds,
	})
	if err != nil {
		logger.Error("Error looking up points: ", "error:", err)
		return false, err
	}
	if len(existing) == 0 {
		return false, nil
	}

	_, err = db.QObj.Delete(ctx, &qdrant.DeletePoints{
		CollectionName: collectionName,
		Points:         qdrant.NewPointsSelector(pointIds...),
		Wait:           qdrant.PtrOf(true),
	})
	if err != nil {
		logger.Error("Error deleting points: ", "error:", err)
		return false, err
	}
	return true, nil
}

func (db *ClientHolder) Stats(ctx context.Context) (vectorstore.Stats, error) {
	count, err := db.QObj.Count(ctx, &qdrant.CountPoints{
		CollectionName: collectionName,
		Exact:          qdrant.PtrOf(true),
	})
	if err != nil {
		return vectorstore.Stats{CollectionName: collectionName, Status: "unreachable"}, err
	}

	return vectorstore.Stats{
		CollectionName: collectionName,
		PointsCount:    count,
		Dimension:      dimension,
		Status:         "green",
	}, nil
}

func createCollection(ctx context.Context, client *qdrant.Client, collectionName string) error {
	if collectionName == "" {
		return errors.New("empty collection name")
	}

	exists, err := client.CollectionExists(ctx, collectionName)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	err = client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: collectionName,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     dimension,
			Distance: qdrant.Distance_Cosine,
		}),
	})
	return err
}
