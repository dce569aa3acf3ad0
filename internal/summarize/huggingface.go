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

// HuggingFace summarizes through a hosted inference endpoint such as
// facebook/bart-large-cnn.
type HuggingFace struct {
	cfg    *config.SummarizerConfig
	client *http.Client
	logger *slog.Logger
}

// NewHuggingFace creates the hosted-inference summarizer.
func NewHuggingFace(cfg *config.SummarizerConfig, logger *slog.Logger) *HuggingFace {
	return &HuggingFace{
		cfg: cfg,
		client: &http.Client{
			Timeout: cfg.RequestTimeout,
		},
		logger: logger.With("component", "huggingface_summarizer"),
	}
}

func (h *HuggingFace) Method() string { return "Hugging Face" }

// Summarize posts the truncated body to the inference endpoint. Hosted
// summarization models cap input length hard, so the cut here is shorter
// than for chat models.
func (h *HuggingFace) Summarize(ctx context.Context, body string) (string, error) {
	text := body
	if len(text) > 1000 {
		text = text[:1000]
	}

	payload := map[string]any{
		"inputs": text,
	}
	reqBody, _ := json.Marshal(payload)

	req, err := http.NewRequestWithContext(ctx, "POST", h.cfg.HuggingFaceModel, bytes.NewReader(reqBody))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+h.cfg.HuggingFaceAPIKey)

	resp, err := h.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("huggingface request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("huggingface returned status %d", resp.StatusCode)
	}

	var result []struct {
		SummaryText string `json:"summary_text"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("decode huggingface response: %w", err)
	}
	if len(result) == 0 || result[0].SummaryText == "" {
		return "", fmt.Errorf("empty huggingface response")
	}
	return strings.TrimSpace(result[0].SummaryText), nil
}
