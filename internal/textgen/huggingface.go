package textgen

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"fjacquet/sdw-news/internal/logging"
)

// maxErrorSnippet bounds how much of an error body ends up in an error message.
const maxErrorSnippet = 200

// HuggingFace talks to the OpenAI-compatible chat completions router of the
// Hugging Face inference API.
type HuggingFace struct {
	httpClient *http.Client
	baseURL    string
	token      string
	model      string
	logger     logging.Logger
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
	Temperature float64       `json:"temperature"`
	TopP        float64       `json:"top_p"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// NewHuggingFace creates a client for baseURL. A zero timeout leaves the http
// client unbounded; callers then rely on ctx.
func NewHuggingFace(baseURL, token, model string, timeout time.Duration, logger logging.Logger) *HuggingFace {
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	return &HuggingFace{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		token:      token,
		model:      model,
		logger:     logger,
	}
}

// Name implements Provider.
func (h *HuggingFace) Name() string { return "huggingface" }

// Model returns the model identifier sent with each request.
func (h *HuggingFace) Model() string { return h.model }

// Generate implements Provider.
func (h *HuggingFace) Generate(ctx context.Context, req Request) (string, error) {
	messages := make([]chatMessage, 0, 2)
	if req.System != "" {
		messages = append(messages, chatMessage{Role: "system", Content: req.System})
	}
	messages = append(messages, chatMessage{Role: "user", Content: req.Prompt})

	body, err := json.Marshal(chatCompletionRequest{
		Model:       h.model,
		Messages:    messages,
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
		TopP:        req.TopP,
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal chat request: %w", err)
	}

	url := h.baseURL + "/chat/completions"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create chat request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+h.token)
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := h.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("failed to call %s: %w", url, err)
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			h.logger.WithError(cerr).Warn("Failed to close response body")
		}
	}()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read chat response: %w", err)
	}
	h.logger.Debug("Chat completion returned",
		logging.Field{Key: logging.FieldModel, Value: h.model},
		logging.Field{Key: "status", Value: resp.StatusCode},
		logging.Field{Key: logging.FieldDuration, Value: time.Since(start).Milliseconds()})

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("chat completion failed with status %d: %s", resp.StatusCode, snippet(respBody))
	}

	var parsed chatCompletionResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", fmt.Errorf("failed to parse chat response: %w", err)
	}
	if parsed.Error != nil && parsed.Error.Message != "" {
		return "", fmt.Errorf("chat completion error: %s", parsed.Error.Message)
	}
	if len(parsed.Choices) == 0 || strings.TrimSpace(parsed.Choices[0].Message.Content) == "" {
		return "", ErrEmptyResponse
	}
	return parsed.Choices[0].Message.Content, nil
}

// Close implements Provider.
func (h *HuggingFace) Close() error {
	h.httpClient.CloseIdleConnections()
	return nil
}

func snippet(b []byte) string {
	s := strings.TrimSpace(string(b))
	r := []rune(s)
	if len(r) > maxErrorSnippet {
		return string(r[:maxErrorSnippet]) + "..."
	}
	return s
}
