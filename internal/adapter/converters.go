package adapter

import (
	"github.com/docuchat/RagAPI/internal/api"
	"github.com/docuchat/RagAPI/internal/domain/chatModel"
	"github.com/docuchat/RagAPI/internal/domain/docModel"
	"github.com/docuchat/RagAPI/internal/vectorstore"
)

func ToChatResponse(result chatModel.ChatResult) api.ChatResponse {
	return api.ChatResponse{
		Response:       result.Response,
		ConversationID: result.ConversationID,
		RetrievedCount: result.RetrievedCount,
		ContextUsed:    result.ContextExcerpt,
		Degraded:       result.Degraded,
		DegradedReason: result.DegradedReason,
	}
}

func ToRetrieveResponse(results []vectorstore.Result) api.RetrieveResponse {
	chunks := make([]api.RetrievedChunk, 0, len(results))
	for _, r := range results {
		chunks = append(chunks, api.RetrievedChunk{
			Text: r.Text,
			Metadata: api.ChunkMetadata{
				SourceFileHash: r.Meta.SourceFileHash,
				Filename:       r.Meta.Filename,
				ChunkIndex:     r.Meta.ChunkIndex,
				TotalChunks:    r.Meta.TotalChunks,
				ChunkSize:      r.Meta.ChunkSize,
				Tags:           r.Meta.Tags,
			},
			Distance: r.Distance,
		})
	}
	return api.RetrieveResponse{Results: chunks, Count: len(chunks)}
}

func ToIndexedResponse(chunkIDs []string) api.IndexedResponse {
	return api.IndexedResponse{ChunkIDs: chunkIDs, Count: len(chunkIDs)}
}

func ToUploadResponse(record docModel.FileRecord) api.UploadResponse {
	return api.UploadResponse{
		FileHash: record.FileHash,
		Filename: record.Filename,
		Status:   string(record.Status),
	}
}

func ToFileResponse(record docModel.FileRecord) api.FileResponse {
	return api.FileResponse{
		FileHash:     record.FileHash,
		Filename:     record.Filename,
		Extension:    record.Extension,
		SizeBytes:    record.SizeBytes,
		TotalChunks:  record.TotalChunks,
		Status:       string(record.Status),
		FailedReason: record.FailedReason,
		UploadedAt:   record.UploadedAt,
	}
}

func ToFileListResponse(records []docModel.FileRecord) api.FileListResponse {
	files := make([]api.FileResponse, 0, len(records))
	for _, record := range records {
		files = append(files, ToFileResponse(record))
	}
	return api.FileListResponse{Files: files, Count: len(files)}
}

func ToFileStatsResponse(stats docModel.LedgerStats) api.FileStatsResponse {
	return api.FileStatsResponse{
		TotalFiles:     stats.TotalFiles,
		TotalChunks:    stats.TotalChunks,
		TotalSizeBytes: stats.TotalSizeBytes,
		FileTypes:      stats.FileTypes,
	}
}

func ToConversationResponse(id string, history []chatModel.Turn) api.ConversationResponse {
	turns := make([]api.Turn, 0, len(history))
	for _, turn := range history {
		turns = append(turns, api.Turn{Role: string(turn.Role), Content: turn.Content})
	}
	return api.ConversationResponse{ConversationID: id, History: turns, Count: len(turns)}
}

func ToCollectionInfoResponse(stats vectorstore.Stats) api.CollectionInfoResponse {
	return api.CollectionInfoResponse{
		CollectionName: stats.CollectionName,
		PointsCount:    stats.PointsCount,
		Dimension:      stats.Dimension,
		Status:         stats.Status,
	}
}

func BadRequest(id string, message string, code int) api.ErrorResponse {
	return api.ErrorResponse{
		Code:    code,
		Message: message,
		Id:      id,
	}
}
