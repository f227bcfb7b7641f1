package chatModel

import "context"

type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Turn is one role-tagged message in a conversation transcript.
type Turn struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// ChatResult carries the generated answer plus diagnostics. Degraded is set
// when the generation backend failed and Response holds the fixed fallback
// text, so callers can tell a masked failure from a genuine answer without
// parsing the response string.
type ChatResult struct {
	Response       string   `json:"response"`
	ConversationID string   `json:"conversation_id"`
	RetrievedCount int      `json:"retrieved_docs_count"`
	ContextExcerpt []string `json:"context_used,omitempty"`
	Degraded       bool     `json:"degraded"`
	DegradedReason string   `json:"degraded_reason,omitempty"`
}

// ConversationStore is an append-only per-conversation transcript.
// GetOrCreate with an unknown client-supplied id initializes an empty
// transcript under that id. History of an unknown id is an empty slice,
// never an error.
type ConversationStore interface {
	GetOrCreate(ctx context.Context, conversationID string) (string, error)
	Append(ctx context.Context, conversationID string, turn Turn) error
	History(ctx context.Context, conversationID string) ([]Turn, error)
	AllIDs(ctx context.Context) ([]string, error)
	Delete(ctx context.Context, conversationID string) bool
}
