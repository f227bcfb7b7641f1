package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/docuchat/RagAPI/internal/adapter"
	"github.com/docuchat/RagAPI/internal/adapter/utils"
	"github.com/docuchat/RagAPI/internal/api"
)

// ChatHandler answers one question synchronously: retrieve context, ask
// the model, record both turns on the conversation.
func ChatHandler(w http.ResponseWriter, request *http.Request) {
	if !validateContext(request.Context()) {
		logRH.Warn("Invalid Context by request ", request.RemoteAddr)
		return
	}

	var requestData api.ChatRequest
	defer closeBody(request.Body)
	if err := json.NewDecoder(request.Body).Decode(&requestData); err != nil || requestData.Message == "" {
		logRH.Warn("Bad Chat Request: ", "error:", err, "request data:", requestData)
		WriteErrorResponse(w, http.StatusBadRequest, requestData.ConversationID, "Bad Request")
		return
	}

	result, err := handlerInstance.chat.Chat(request.Context(), requestData.Message, requestData.ConversationID, requestData.NResults)
	if err != nil {
		logRH.Error("Chat failed", "error", err)
		WriteErrorResponse(w, http.StatusInternalServerError, requestData.ConversationID, "Internal Server Error")
		return
	}

	writeJsonResponse(w, http.StatusOK, adapter.ToChatResponse(result))
}

// RetrieveHandler exposes raw retrieval without generation.
func RetrieveHandler(w http.ResponseWriter, request *http.Request) {
	if !validateContext(request.Context()) {
		logRH.Warn("Invalid Context by request ", request.RemoteAddr)
		return
	}

	var requestData api.RetrieveRequest
	defer closeBody(request.Body)
	if err := json.NewDecoder(request.Body).Decode(&requestData); err != nil || requestData.Query == "" {
		logRH.Warn("Bad Retrieve Request: ", "error:", err)
		WriteErrorResponse(w, http.StatusBadRequest, "", "Bad Request")
		return
	}

	results := handlerInstance.chat.Retrieve(request.Context(), requestData.Query, requestData.NResults)
	writeJsonResponse(w, http.StatusOK, adapter.ToRetrieveResponse(results))
}

func GetConversationsHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		return
	}

	ids, err := handlerInstance.chat.Conversations(r.Context())
	if err != nil {
		logRH.Error("Failed to list conversations", "error", err)
		WriteErrorResponse(w, http.StatusInternalServerError, "", "Internal Server Error")
		return
	}
	writeJsonResponse(w, http.StatusOK, api.ConversationListResponse{ConversationIDs: ids, Count: len(ids)})
}

func GetConversationHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		return
	}

	id := utils.GetChiURLParam(r, "id")
	if id == "" {
		WriteErrorResponse(w, http.StatusBadRequest, "", "conversation id is required")
		return
	}

	history, err := handlerInstance.chat.History(r.Context(), id)
	if err != nil {
		logRH.Error("Failed to load conversation", "conversation Id", id, "error", err)
		WriteErrorResponse(w, http.StatusInternalServerError, id, "Internal Server Error")
		return
	}
	writeJsonResponse(w, http.StatusOK, adapter.ToConversationResponse(id, history))
}

func DeleteConversationHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		return
	}

	id := utils.GetChiURLParam(r, "id")
	if !handlerInstance.chat.DeleteConversation(r.Context(), id) {
		WriteErrorResponse(w, http.StatusNotFound, id, "Conversation not found")
		return
	}
	writeJsonResponse(w, http.StatusOK, api.DeleteResponse{Id: id, Deleted: true})
}

func closeBody(body io.ReadCloser) {
	if err := body.Close(); err != nil {
		logRH.Error("Couldn't close the request body :", "error", err)
	}
}
