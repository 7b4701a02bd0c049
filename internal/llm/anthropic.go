package llm

import (
	"context"
	"fmt"

	"github.com/Harshitk-cp/mailmap/internal/domain"
	anthropic "github.com/liushuangls/go-anthropic/v2"
)

const anthropicModel = anthropic.ModelClaude3Dot5HaikuLatest

type AnthropicClassifier struct {
	client *anthropic.Client
}

func NewAnthropicClassifier(apiKey string) *AnthropicClassifier {
	return &AnthropicClassifier{client: anthropic.NewClient(apiKey)}
}

func (c *AnthropicClassifier) Classify(ctx context.Context, msg domain.EmailMessage) (*domain.Classification, error) {
	resp, err := c.client.CreateMessages(ctx, anthropic.MessagesRequest{
		Model:     anthropicModel,
		MaxTokens: 2048,
		System:    classifySystemPrompt,
		Messages: []anthropic.Message{
			anthropic.NewUserTextMessage(classifyUserPrompt(msg)),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("anthropic classify: %w", err)
	}
	if len(resp.Content) == 0 {
		return nil, fmt.Errorf("anthropic classify: empty response")
	}

	return parseClassification(resp.Content[0].GetText())
}
