package translate

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

// OpenAIProvider translates through the chat completion API.
type OpenAIProvider struct {
	client *openai.Client
}

func NewOpenAIProvider(apiKey string) *OpenAIProvider {
	return &OpenAIProvider{client: openai.NewClient(apiKey)}
}

func (o *OpenAIProvider) Name() string { return "openai" }

func (o *OpenAIProvider) Translate(ctx context.Context, text, targetLang string) (string, error) {
	langName := languageName(targetLang)

	ctx, cancel := context.WithTimeout(ctx, 20*time.Second)
	defer cancel()

	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: openai.GPT4oMini,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: fmt.Sprintf("You are a translator that translates news text into %s. Keep the meaning and journalistic tone. Output only the translation itself.", langName),
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: text,
			},
		},
		MaxCompletionTokens: 2000,
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("no response from OpenAI")
	}

	return SanitizeAIText(strings.TrimSpace(resp.Choices[0].Message.Content)), nil
}

// languageName maps the few tags we serve to prompt-friendly names.
func languageName(tag string) string {
	switch tag {
	case "sw":
		return "Swahili"
	case "en":
		return "English"
	default:
		return tag
	}
}
