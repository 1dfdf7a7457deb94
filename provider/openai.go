package provider

import (
	"context"
	"fmt"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"aidbg/model"
)

// OpenAIProvider implements Provider against any OpenAI-compatible chat
// completions endpoint using the official OpenAI Go SDK.
type OpenAIProvider struct {
	client      openai.Client
	model       string
	temperature float64
}

// NewOpenAIProvider creates a provider for the given endpoint. The API key
// may be empty for endpoints that do not authenticate.
func NewOpenAIProvider(baseURL, apiKey, modelName string, temperature float64) (*OpenAIProvider, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("base URL is required")
	}
	if modelName == "" {
		return nil, fmt.Errorf("model is required")
	}

	client := openai.NewClient(
		option.WithBaseURL(baseURL),
		option.WithAPIKey(apiKey),
	)

	return &OpenAIProvider{
		client:      client,
		model:       modelName,
		temperature: temperature,
	}, nil
}

// Chat implements Provider.Chat with streaming support.
func (p *OpenAIProvider) Chat(ctx context.Context, messages []model.Message, callback StreamCallback) error {
	params := openai.ChatCompletionNewParams{
		Messages:    convertMessages(messages),
		Model:       openai.ChatModel(p.model),
		Temperature: openai.Float(p.temperature),
	}

	stream := p.client.Chat.Completions.NewStreaming(ctx, params)

	for stream.Next() {
		chunk := stream.Current()
		if len(chunk.Choices) > 0 && chunk.Choices[0].Delta.Content != "" {
			if callback != nil {
				if err := callback(chunk.Choices[0].Delta.Content); err != nil {
					return err
				}
			}
		}
	}

	if err := stream.Err(); err != nil {
		return Classify(err)
	}

	return nil
}

// Ping implements Provider.Ping by attempting to list models.
func (p *OpenAIProvider) Ping(ctx context.Context) error {
	if _, err := p.client.Models.List(ctx); err != nil {
		return Classify(err)
	}
	return nil
}

// convertMessages converts transcript messages to the SDK's union type.
func convertMessages(messages []model.Message) []openai.ChatCompletionMessageParamUnion {
	result := make([]openai.ChatCompletionMessageParamUnion, len(messages))

	for i, msg := range messages {
		switch msg.Role {
		case model.RoleSystem:
			result[i] = openai.SystemMessage(msg.Content)
		case model.RoleAssistant:
			result[i] = openai.AssistantMessage(msg.Content)
		default:
			result[i] = openai.UserMessage(msg.Content)
		}
	}

	return result
}
