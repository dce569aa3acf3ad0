package summarize

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"newsagent/internal/config"
)

const openAISystemPrompt = "You are a financial news summarizer. Create concise, informative summaries of news articles in 2-3 sentences."

// OpenAI summarizes through the OpenAI chat completions API.
type OpenAI struct {
	cfg    *config.SummarizerConfig
	client *http.Client
	logger *slog.Logger
}

// NewOpenAI creates the OpenAI-backed summarizer.
func NewOpenAI(cfg *config.SummarizerConfig, logger *slog.Logger) *OpenAI {
	return &OpenAI{
		cfg: cfg,
		client: &http.Client{
			Timeout: cfg.RequestTimeout,
		},
		logger: logger.With("component", "openai_summarizer"),
	}
}

func (o *OpenAI) Method() string { return "OpenAI GPT" }

// Summarize asks the model for a 2-3 sentence summary. Long bodies are
// truncated before sending to keep the prompt inside the context window.
func (o *OpenAI) Summarize(ctx context.Context, body string) (string, error) {
	text := body
	if len(text) > 4000 {
		text = text[:4000]
	}

	payload := map[string]any{
		"model": o.cfg.OpenAIModel,
		"messages": []map[string]string{
			{"role": "system", "content": openAISystemPrompt},
			{"role": "user", "content": fmt.Sprintf("Summarize this news article:\n\n%s", text)},
		},
		"max_tokens":  150,
		"temperature": 0.3,
	}

	reqBody, _ := json.Marshal(payload)
	endpoint := o.cfg.OpenAIEndpoint
	if endpoint == "" {
		endpoint = "https://api.openai.com/v1"
	}

	req, err := http.NewRequestWithContext(ctx, "POST", endpoint+"/chat/completions", bytes.NewReader(reqBody))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+o.cfg.OpenAIAPIKey)

	resp, err := o.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("openai request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("openai returned status %d", resp.StatusCode)
	}

	var result struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("decode openai response: %w", err)
	}
	if len(result.Choices) == 0 {
		return "", fmt.Errorf("no choices in openai response")
	}
	return strings.TrimSpace(result.Choices[0].Message.Content), nil
}
