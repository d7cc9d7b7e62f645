package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	httputils "voxchat/voxchat/utils/http"
	"voxchat/voxchat/utils/logging"

	"github.com/go-resty/resty/v2"
)

// GeminiClient calls the generateContent endpoint of the Gemini API.
type GeminiClient struct {
	client *resty.Client
	apiKey string
	model  string
}

func NewGeminiClient(baseURL, apiKey, model string, timeout time.Duration) *GeminiClient {
	return &GeminiClient{
		client: httputils.NewClient(baseURL, timeout),
		apiKey: apiKey,
		model:  model,
	}
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiRequest struct {
	Contents []geminiContent `json:"contents"`
}

type geminiResponse struct {
	Candidates []struct {
		Content      geminiContent `json:"content"`
		FinishReason string        `json:"finishReason"`
	} `json:"candidates"`
	PromptFeedback struct {
		BlockReason string `json:"blockReason"`
	} `json:"promptFeedback"`
}

func (c *GeminiClient) Generate(ctx context.Context, prompt string) (string, error) {
	defer logging.LogDuration(ctx, "gemini_generate")()

	req := geminiRequest{
		Contents: []geminiContent{{Role: "user", Parts: []geminiPart{{Text: prompt}}}},
	}
	var resp geminiResponse
	path := fmt.Sprintf("/models/%s:generateContent", c.model)
	if err := httputils.PostJSON(ctx, c.client, path, map[string]string{"x-goog-api-key": c.apiKey}, req, &resp); err != nil {
		return "", fmt.Errorf("gemini request failed: %w", err)
	}

	if len(resp.Candidates) == 0 {
		if resp.PromptFeedback.BlockReason != "" {
			return "", fmt.Errorf("gemini blocked the prompt: %s", resp.PromptFeedback.BlockReason)
		}
		return "", fmt.Errorf("no candidates in gemini response")
	}
	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		sb.WriteString(part.Text)
	}
	if sb.Len() == 0 {
		return "", fmt.Errorf("empty gemini response (finish reason %q)", resp.Candidates[0].FinishReason)
	}
	return sb.String(), nil
}
