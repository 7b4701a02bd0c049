package llm

import (
	"context"
	"fmt"

	"github.com/Harshitk-cp/mailmap/internal/domain"
	openai "github.com/sashabaranov/go-openai"
)

const openAIModel = openai.GPT4oMini

type OpenAIClassifier struct {
	client *openai.Client
}

func NewOpenAIClassifier(apiKey string) *OpenAIClassifier {
	return &OpenAIClassifier{client: openai.NewClient(apiKey)}
}

func (c *OpenAIClassifier) Classify(ctx context.Context, msg domain.EmailMessage) (*domain.Classification, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       openAIModel,
		Temperature: 0.1,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: classifySystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: classifyUserPrompt(msg)},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("openai classify: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("openai classify: empty response")
	}

	return parseClassification(resp.Choices[0].Message.Content)
}
