package api

import "time"

type ErrorResponse struct {
	Code    int    `json:"code" example:"400"`
	Message string `json:"message" example:"Bad Request"`
	Id      string `json:"id,omitempty"`
}

// requests---------------------

type ChatRequest struct {
	Message        string `json:"message" validate:"required"`
	ConversationID string `json:"conversation_id,omitempty"`
	NResults       int    `json:"n_results,omitempty"`
}

type RetrieveRequest struct {
	Query    string `json:"query" validate:"required"`
	NResults int    `json:"n_results,omitempty"`
}

type DocumentRequest struct {
	Text     string            `json:"text" validate:"required"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

type BatchDocumentsRequest struct {
	Documents []DocumentRequest `json:"documents" validate:"required"`
}

// responses--------------------

type ChatResponse struct {
	Response       string   `json:"response"`
	ConversationID string   `json:"conversation_id"`
	RetrievedCount int      `json:"retrieved_docs_count"`
	ContextUsed    []string `json:"context_used,omitempty"`
	Degraded       bool     `json:"degraded"`
	DegradedReason string   `json:"degraded_reason,omitempty"`
}

type ChunkMetadata struct {
	SourceFileHash string            `json:"source_file_hash,omitempty"`
	Filename       string            `json:"filename,omitempty"`
	ChunkIndex     int               `json:"chunk_index"`
	TotalChunks    int               `json:"total_chunks"`
	ChunkSize      int               `json:"chunk_size"`
	Tags           map[string]string `json:"tags,omitempty"`
}

type RetrievedChunk struct {
	Text     string        `json:"text"`
	Metadata ChunkMetadata `json:"metadata"`
	Distance float64       `json:"distance"`
}

type RetrieveResponse struct {
	Results []RetrievedChunk `json:"results"`
	Count   int              `json:"count"`
}

type IndexedResponse struct {
	ChunkIDs []string `json:"chunk_ids"`
	Count    int      `json:"count"`
}

type UploadResponse struct {
	FileHash string `json:"file_hash"`
	Filename string `json:"filename"`
	Status   string `json:"status"`
}

type FileResponse struct {
	FileHash     string    `json:"file_hash"`
	Filename     string    `json:"filename"`
	Extension    string    `json:"file_extension"`
	SizeBytes    int64     `json:"file_size"`
	TotalChunks  int       `json:"total_chunks"`
	Status       string    `json:"status"`
	FailedReason string    `json:"failed_reason,omitempty"`
	UploadedAt   time.Time `json:"uploaded_at"`
}

type FileListResponse struct {
	Files []FileResponse `json:"files"`
	Count int            `json:"count"`
}

type FileStatsResponse struct {
	TotalFiles     int            `json:"total_files"`
	TotalChunks    int            `json:"total_chunks"`
	TotalSizeBytes int64          `json:"total_size_bytes"`
	FileTypes      map[string]int `json:"file_types"`
}

type Turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ConversationListResponse struct {
	ConversationIDs []string `json:"conversation_ids"`
	Count           int      `json:"count"`
}

type ConversationResponse struct {
	ConversationID string `json:"conversation_id"`
	History        []Turn `json:"history"`
	Count          int    `json:"count"`
}

type DeleteResponse struct {
	Id      string `json:"id"`
	Deleted bool   `json:"deleted"`
}

type CollectionInfoResponse struct {
	CollectionName string `json:"collection_name"`
	PointsCount    uint64 `json:"points_count"`
	Dimension      uint64 `json:"dimension"`
	Status         string `json:"status"`
}

type HealthResponse struct {
	Status string `json:"status"`
}
