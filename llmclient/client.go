package llmclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"transit-agent/config"
	apperrors "transit-agent/errors"

	"go.uber.org/zap"
)

// Message is a single chat message in the llama.cpp / OpenAI-compatible schema.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Messages    []Message `json:"messages"`
	Stream      bool      `json:"stream"`
	Temperature *float64  `json:"temperature,omitempty"` // Per-request temperature override
}

type chatResponse struct {
	Choices []struct {
		Message Message `json:"message"`
	} `json:"choices"`
}

// Embedding request/response mirror llama.cpp's expected schema
type embeddingRequest struct {
	Content string `json:"content"`
}

type embeddingResponse []struct {
	Embedding [][]float32 `json:"embedding"`
}

type Client struct {
	cfg        *config.Config
	httpClient *http.Client
	logger     *zap.Logger
}

func New(cfg *config.Config, logger *zap.Logger) *Client {
	// Use a client with the configured timeout; long generations rely on
	// context cancellation at the caller.
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.LLMRequestTimeout},
		logger:     logger,
	}
}

// Embed requests an embedding vector for the given text from the embedding
// backend. Transport failures and backend overload are reported as
// ErrProviderUnavailable so callers can degrade to lexical scoring.
func (c *Client) Embed(ctx context.Context, text string) ([]float32, error) {
	host := strings.TrimSpace(c.cfg.EmbeddingLLMHost)
	if host == "" {
		return nil, apperrors.WrapError(apperrors.ErrProviderUnavailable, "embedding host not configured")
	}

	reqBody := embeddingRequest{Content: text}
	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshal embedding request: %w", err)
	}

	url := fmt.Sprintf("%s/embedding", strings.TrimRight(host, "/"))
	bodyBytes, err := c.post(ctx, url, jsonBody)
	if err != nil {
		return nil, err
	}

	var er embeddingResponse
	if err := json.Unmarshal(bodyBytes, &er); err != nil {
		return nil, fmt.Errorf("decode embedding response: %w", err)
	}
	if len(er) == 0 || len(er[0].Embedding) == 0 || len(er[0].Embedding[0]) == 0 {
		return nil, apperrors.WrapError(apperrors.ErrProviderUnavailable, "embedding server returned empty vector")
	}
	return er[0].Embedding[0], nil
}

// Generate performs a non-streaming chat completion call against the main LLM.
// temperature is optional; pass nil to use the server default.
func (c *Client) Generate(ctx context.Context, systemPrompt, userPrompt string, temperature *float64) (string, error) {
	host := strings.TrimSpace(c.cfg.MainLLMHost)
	if host == "" {
		return "", apperrors.WrapError(apperrors.ErrProviderUnavailable, "generation host not configured")
	}

	reqBody := chatRequest{
		Messages: []Message{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userPrompt},
		},
		Stream:      false,
		Temperature: temperature,
	}
	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshal chat request: %w", err)
	}

	url := fmt.Sprintf("%s/v1/chat/completions", strings.TrimRight(host, "/"))
	bodyBytes, err := c.post(ctx, url, jsonBody)
	if err != nil {
		return "", err
	}

	var cr chatResponse
	if err := json.Unmarshal(bodyBytes, &cr); err != nil {
		return "", fmt.Errorf("decode chat response: %w", err)
	}
	if len(cr.Choices) == 0 {
		return "", apperrors.WrapError(apperrors.ErrGenerationFailed, "no response choices from llm server")
	}
	return strings.TrimSpace(cr.Choices[0].Message.Content), nil
}

// post sends the request with 503 retry/backoff and maps transport errors to
// ErrProviderUnavailable.
func (c *Client) post(ctx context.Context, url string, jsonBody []byte) ([]byte, error) {
	var resp *http.Response
	var lastErr error
	maxRetries := c.cfg.MaxRetries
	if maxRetries <= 0 {
		maxRetries = 1
	}
	for attempt := 0; attempt < maxRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonBody))
		if err != nil {
			return nil, fmt.Errorf("create request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err = c.httpClient.Do(req)
		if err != nil {
			lastErr = err
			// Do not retry on context cancellation/deadline
			if ctx.Err() != nil {
				break
			}
			c.backoffSleep(attempt)
			continue
		}
		if resp.StatusCode == http.StatusServiceUnavailable {
			// Model loading; retry with backoff
			io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
			resp = nil
			c.backoffSleep(attempt)
			continue
		}
		break
	}
	if resp == nil {
		return nil, apperrors.WrapErrorf(apperrors.ErrProviderUnavailable, "no response from llm server: %v", lastErr)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		if resp.StatusCode >= http.StatusInternalServerError {
			return nil, apperrors.WrapErrorf(apperrors.ErrProviderUnavailable, "llm server status %s", resp.Status)
		}
		return nil, fmt.Errorf("llm server status %s: %s", resp.Status, string(bodyBytes))
	}
	return bodyBytes, nil
}

func (c *Client) backoffSleep(attempt int) {
	delay := time.Duration(attempt+1) * time.Second
	if delay > 5*time.Second {
		delay = 5 * time.Second
	}
	if c.logger != nil {
		c.logger.Warn("LLM server not ready, retrying", zap.Duration("retry_delay", delay))
	}
	time.Sleep(delay)
}
