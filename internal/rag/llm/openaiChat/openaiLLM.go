package openaiChat

import (
	"context"
	"errors"
	"sync"

	"github.com/docuchat/RagAPI/internal/config"
	"github.com/docuchat/RagAPI/internal/domain/chatModel"
	"github.com/docuchat/RagAPI/internal/rag/llm"
	"github.com/docuchat/RagAPI/pkg/logger_i"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

type llmClient struct {
	client    openai.Client
	modelName string
}

var logger *logger_i.Logger
var openaiClient *llmClient
var once sync.Once

var errEmptyCompletion = errors.New("empty completion")

func GetOpenAIClient(ctx context.Context, modelName string, apikey string) llm.Provider {
	once.Do(func() {
		logger = logger_i.NewLogger("llm_openai")
		newOpenAIClient(ctx, modelName, apikey)
	})

	if openaiClient == nil {
		return nil
	}
	return &llmClient{client: openaiClient.client, modelName: openaiClient.modelName}
}

func newOpenAIClient(ctx context.Context, modelName string, apikey string) {
	c := openai.NewClient(option.WithAPIKey(apikey))
	openaiClient = &llmClient{client: c, modelName: modelName}
	logger.Debug("OpenAI " + modelName + " client created")
	logger.Info("OpenAI client created")
	go closeClient(ctx, openaiClient)
}

func closeClient(ctx context.Context, llm *llmClient) {
	<-ctx.Done()
	logger.Info("Closing OpenAI client")
	llm.modelName = ""
}

// Generate sends the system prompt, the trimmed history and the current
// question as one chat completion call. Roles map 1:1 onto the wire format.
func (c *llmClient) Generate(ctx context.Context, systemPrompt string, history []chatModel.Turn, userQuery string) (string, error) {
	log := logger.With("traceId", ctx.Value(config.TRACE_ID_KEY))

	messages := make([]openai.ChatCompletionMessageParamUnion, 0, len(history)+2)
	messages = append(messages, openai.SystemMessage(systemPrompt))
	for _, turn := range history {
		switch turn.Role {
		case chatModel.RoleSystem:
			messages = append(messages, openai.SystemMessage(turn.Content))
		case chatModel.RoleAssistant:
			messages = append(messages, openai.AssistantMessage(turn.Content))
		case chatModel.RoleUser:
			messages = append(messages, openai.UserMessage(turn.Content))
		}
	}
	messages = append(messages, openai.UserMessage(userQuery))

	completion, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:       openai.ChatModel(c.modelName),
		Messages:    messages,
		MaxTokens:   openai.Int(config.MaxOutputTokens),
		Temperature: openai.Float(config.ModelTemperature),
	})
	if err != nil {
		log.Error("Error generating completion", "error", err)
		return "", err
	}
	if len(completion.Choices) == 0 {
		log.Error("Completion came back with no choices")
		return "", errEmptyCompletion
	}

	return completion.Choices[0].Message.Content, nil
}
