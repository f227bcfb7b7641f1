package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/docuchat/RagAPI/internal/adapter"
	"github.com/docuchat/RagAPI/internal/adapter/utils"
	"github.com/docuchat/RagAPI/internal/api"
	"github.com/docuchat/RagAPI/internal/config"
	"github.com/docuchat/RagAPI/internal/ingest"
	"github.com/docuchat/RagAPI/internal/ingest/extract"
)

// PostDocumentHandler indexes caller-supplied text directly, no file and
// no ledger entry involved.
func PostDocumentHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		return
	}

	var requestData api.DocumentRequest
	defer closeBody(r.Body)
	if err := json.NewDecoder(r.Body).Decode(&requestData); err != nil || requestData.Text == "" {
		logDH.Warn("Bad Document Request: ", "error:", err)
		WriteErrorResponse(w, http.StatusBadRequest, "", "Bad Request")
		return
	}

	ids, err := handlerInstance.ingest.IndexText(r.Context(), requestData.Text, requestData.Metadata)
	if err != nil {
		writeIndexError(w, err)
		return
	}
	writeJsonResponse(w, http.StatusCreated, adapter.ToIndexedResponse(ids))
}

func PostDocumentsBatchHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		return
	}

	var requestData api.BatchDocumentsRequest
	defer closeBody(r.Body)
	if err := json.NewDecoder(r.Body).Decode(&requestData); err != nil || len(requestData.Documents) == 0 {
		logDH.Warn("Bad Batch Request: ", "error:", err)
		WriteErrorResponse(w, http.StatusBadRequest, "", "Bad Request")
		return
	}

	var allIds []string
	for i, doc := range requestData.Documents {
		if doc.Text == "" {
			WriteErrorResponse(w, http.StatusBadRequest, "", fmt.Sprintf("document %d has no text", i))
			return
		}
		ids, err := handlerInstance.ingest.IndexText(r.Context(), doc.Text, doc.Metadata)
		if err != nil {
			writeIndexError(w, err)
			return
		}
		allIds = append(allIds, ids...)
	}
	writeJsonResponse(w, http.StatusCreated, adapter.ToIndexedResponse(allIds))
}

// PostUploadHandler receives a file via multipart/form-data, stores it in
// the temp directory, runs the dedup gate and queues the ingestion task.
// Re-uploading known bytes is answered with 409 and the existing record.
func PostUploadHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		logDH.Warn("Invalid Context by request ", r.RemoteAddr)
		return
	}

	targetDir, errString := getTargetDirectory()
	if errString != "" {
		logDH.Error("Couldn't get target directory :", "err", errString)
		WriteErrorResponse(w, http.StatusInternalServerError, "", errString)
		return
	}

	if err := r.ParseMultipartForm(config.MaxUploadSize); err != nil {
		WriteErrorResponse(w, http.StatusBadRequest, "", "File too large or bad request")
		return
	}

	fileReader, fileMetadata, err := r.FormFile("document")
	if err != nil {
		WriteErrorResponse(w, http.StatusBadRequest, "", "Could not retrieve file")
		return
	}
	defer fileReader.Close()

	filename := fmt.Sprintf("%d-%s", time.Now().UnixNano(), fileMetadata.Filename)
	tempFilePath := filepath.Join(targetDir, filename)
	destinationFileWriter, err := os.Create(tempFilePath)
	if err != nil {
		WriteErrorResponse(w, http.StatusInternalServerError, fileMetadata.Filename, "Storage error")
		return
	}
	defer destinationFileWriter.Close()

	written, err := io.Copy(destinationFileWriter, fileReader)
	if err != nil {
		WriteErrorResponse(w, http.StatusInternalServerError, fileMetadata.Filename, "Write error")
		return
	}

	record, accepted, err := handlerInstance.ingest.RegisterUpload(r.Context(), tempFilePath, fileMetadata.Filename, written)
	if err != nil {
		WriteErrorResponse(w, http.StatusInternalServerError, fileMetadata.Filename, "Internal Server Error")
		return
	}
	if !accepted {
		if removeErr := os.Remove(tempFilePath); removeErr != nil {
			logDH.Error("Couldn't remove duplicate upload", "error", removeErr)
		}
		writeJsonResponse(w, http.StatusConflict, adapter.ToUploadResponse(record))
		return
	}

	handlerInstance.queue.Enqueue(ingest.Task{
		FileHash: record.FileHash,
		Path:     tempFilePath,
		Filename: fileMetadata.Filename,
		TraceId:  traceIdFromContext(r.Context()),
	})
	writeJsonResponse(w, http.StatusAccepted, adapter.ToUploadResponse(record))
}

func GetFilesHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		return
	}

	records, err := handlerInstance.ingest.ListFiles(r.Context())
	if err != nil {
		logDH.Error("Failed to list files", "error", err)
		WriteErrorResponse(w, http.StatusInternalServerError, "", "Internal Server Error")
		return
	}
	writeJsonResponse(w, http.StatusOK, adapter.ToFileListResponse(records))
}

func GetFileHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		return
	}

	hash := utils.GetChiURLParam(r, "hash")
	record, found := handlerInstance.ingest.GetFile(r.Context(), hash)
	if !found {
		WriteErrorResponse(w, http.StatusNotFound, hash, "File not found")
		return
	}
	writeJsonResponse(w, http.StatusOK, adapter.ToFileResponse(record))
}

func DeleteFileHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		return
	}

	hash := utils.GetChiURLParam(r, "hash")
	_, found, err := handlerInstance.ingest.DeleteFile(r.Context(), hash)
	if err != nil {
		WriteErrorResponse(w, http.StatusInternalServerError, hash, "Could not delete indexed chunks")
		return
	}
	if !found {
		WriteErrorResponse(w, http.StatusNotFound, hash, "File not found")
		return
	}
	writeJsonResponse(w, http.StatusOK, api.DeleteResponse{Id: hash, Deleted: true})
}

func GetFileStatsHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		return
	}

	stats, err := handlerInstance.ingest.FileStats(r.Context())
	if err != nil {
		logDH.Error("Failed to compute stats", "error", err)
		WriteErrorResponse(w, http.StatusInternalServerError, "", "Internal Server Error")
		return
	}
	writeJsonResponse(w, http.StatusOK, adapter.ToFileStatsResponse(stats))
}

func GetCollectionInfoHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		return
	}

	if handlerInstance.index == nil {
		WriteErrorResponse(w, http.StatusServiceUnavailable, "", "Vector index unavailable")
		return
	}
	stats, err := handlerInstance.index.Stats(r.Context())
	if err != nil {
		WriteErrorResponse(w, http.StatusServiceUnavailable, "", "Vector index unavailable")
		return
	}
	writeJsonResponse(w, http.StatusOK, adapter.ToCollectionInfoResponse(stats))
}

func GetHealthHandler(w http.ResponseWriter, r *http.Request) {
	writeJsonResponse(w, http.StatusOK, api.HealthResponse{Status: "ok"})
}

func writeIndexError(w http.ResponseWriter, err error) {
	if errors.Is(err, extract.ErrEmptyContent) {
		WriteErrorResponse(w, http.StatusBadRequest, "", "No indexable text")
		return
	}
	logDH.Error("Index write failed", "error", err)
	WriteErrorResponse(w, http.StatusInternalServerError, "", "Index write failed")
}
