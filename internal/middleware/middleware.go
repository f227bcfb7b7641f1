package middleware

import (
	"net/http"
	"strconv"

	"github.com/docuchat/RagAPI/internal/handlers"
	"github.com/docuchat/RagAPI/internal/metrics"
	"github.com/docuchat/RagAPI/pkg/logger_i"
)

type requestResponseStruct struct {
	writer     http.ResponseWriter
	req        *http.Request
	badRequest failureStruct
	logger     *logger_i.Logger
}

type failureStruct struct {
	isBadRequest bool
	httpCode     int
	errorMessage string
	id           string
}

var GetHandler = Wrap(handlers.GetHandler)
var GetHealthHandler = Wrap(handlers.GetHealthHandler)

var ChatHandler = Wrap(handlers.ChatHandler)
var RetrieveHandler = Wrap(handlers.RetrieveHandler)
var GetConversationsHandler = Wrap(handlers.GetConversationsHandler)
var GetConversationHandler = Wrap(handlers.GetConversationHandler)
var DeleteConversationHandler = Wrap(handlers.DeleteConversationHandler)

var PostDocumentHandler = Wrap(handlers.PostDocumentHandler)
var PostDocumentsBatchHandler = Wrap(handlers.PostDocumentsBatchHandler)
var PostUploadHandler = Wrap(handlers.PostUploadHandler)
var GetFilesHandler = Wrap(handlers.GetFilesHandler)
var GetFileHandler = Wrap(handlers.GetFileHandler)
var DeleteFileHandler = Wrap(handlers.DeleteFileHandler)
var GetFileStatsHandler = Wrap(handlers.GetFileStatsHandler)
var GetCollectionInfoHandler = Wrap(handlers.GetCollectionInfoHandler)

func Wrap(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rec := &metrics.HttpStatusRecorder{ResponseWriter: w, Status: 200} //metrics
		re := processRequest(requestResponseStruct{req: r, writer: rec})

		if re.badRequest.isBadRequest {
			handleBadRequest(re)
			return
		}
		next(rec, re.req)

		metrics.HttpRequestsTotal.WithLabelValues(r.URL.Path, strconv.Itoa(rec.Status)).Inc() //metrics
	}
}

func processRequest(re requestResponseStruct) requestResponseStruct {
	re.logger = logger_i.NewLogger("middleware")
	re.logger.Info("New request received")
	re = injectTrace(re)
	re = authenticate(re)
	if re.badRequest.isBadRequest {
		return re //stop if auth fails
	}
	re = rateLimiter(re)
	return re
}
