package llm

import (
	"context"
	"errors"
	"fmt"

	httputils "voxchat/voxchat/utils/http"
	"voxchat/voxchat/utils/logging"

	openai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// OpenAIClient talks to any OpenAI-compatible chat completions API.
type OpenAIClient struct {
	client openai.Client
	model  string
}

func NewOpenAIClient(baseURL, apiKey, model string) *OpenAIClient {
	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		// retries belong to the chat controller
		option.WithMaxRetries(0),
	}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	return &OpenAIClient{client: openai.NewClient(opts...), model: model}
}

func (c *OpenAIClient) Generate(ctx context.Context, prompt string) (string, error) {
	defer logging.LogDuration(ctx, "openai_generate")()

	res, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:    c.model,
		Messages: []openai.ChatCompletionMessageParamUnion{openai.UserMessage(prompt)},
	})
	if err != nil {
		var apiErr *openai.Error
		if errors.As(err, &apiErr) {
			return "", fmt.Errorf("openai request failed: %w", &httputils.StatusError{Code: apiErr.StatusCode, Body: apiErr.Message})
		}
		return "", fmt.Errorf("openai request failed: %w", err)
	}
	if len(res.Choices) == 0 || res.Choices[0].Message.Content == "" {
		return "", fmt.Errorf("no content in openai response")
	}
	return res.Choices[0].Message.Content, nil
}
