package llm

import (
	"context"

	"github.com/docuchat/RagAPI/internal/domain/chatModel"
)

type Provider interface {
	Generate(ctx context.Context, systemPrompt string, history []chatModel.Turn, userQuery string) (string, error)
}
