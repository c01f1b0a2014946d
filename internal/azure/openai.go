package azure

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/azure"
	"github.com/wardwatch/wardwatch/apps/backend/internal/metrics"
	"go.uber.org/zap"
)

const advisorySystemPrompt = "You are a clinical decision support assistant for hospital ward staff. " +
	"Answer concisely and only with the requested format."

// OpenAIClient wraps Azure OpenAI SDK with retry logic and logging
type OpenAIClient struct {
	client     *openai.Client
	deployment string
	logger     *zap.Logger
	maxRetries int
	baseDelay  time.Duration
}

// NewOpenAIClient creates a new Azure OpenAI client using the openai-go SDK with Azure extensions.
// maxRetries below 1 means a single attempt.
func NewOpenAIClient(endpoint, apiKey, deployment string, maxRetries int, logger *zap.Logger) (*OpenAIClient, error) {
	if endpoint == "" || apiKey == "" || deployment == "" {
		return nil, fmt.Errorf("endpoint, apiKey, and deployment are required")
	}
	if maxRetries < 1 {
		maxRetries = 1
	}

	client := openai.NewClient(
		azure.WithEndpoint(endpoint, "2024-08-01-preview"),
		azure.WithAPIKey(apiKey),
	)

	return &OpenAIClient{
		client:     &client,
		deployment: deployment,
		logger:     logger,
		maxRetries: maxRetries,
		baseDelay:  time.Second,
	}, nil
}

// Generate sends a single prompt and returns the text reply
func (c *OpenAIClient) Generate(ctx context.Context, prompt string) (string, error) {
	reply, err := c.Complete(ctx, []openai.ChatCompletionMessageParamUnion{
		openai.SystemMessage(advisorySystemPrompt),
		openai.UserMessage(prompt),
	})
	if err != nil {
		metrics.ObserveExternalCall("advisory", metrics.OutcomeError)
		return "", err
	}
	metrics.ObserveExternalCall("advisory", metrics.OutcomeSuccess)
	return reply, nil
}

// Complete sends a chat completion request to Azure OpenAI with retry logic
func (c *OpenAIClient) Complete(ctx context.Context, messages []openai.ChatCompletionMessageParamUnion) (string, error) {
	startTime := time.Now()
	var lastErr error

	for attempt := 0; attempt < c.maxRetries; attempt++ {
		if attempt > 0 {
			delay := c.baseDelay * time.Duration(1<<uint(attempt-1))
			c.logger.Info("retrying Azure OpenAI request",
				zap.Int("attempt", attempt+1),
				zap.Duration("delay", delay),
			)
			select {
			case <-ctx.Done():
				return "", fmt.Errorf("Azure OpenAI request cancelled: %w", ctx.Err())
			case <-time.After(delay):
			}
		}

		result, err := c.complete(ctx, messages)
		if err == nil {
			c.logger.Info("Azure OpenAI request completed",
				zap.Duration("processing_time", time.Since(startTime)),
				zap.Int("attempts", attempt+1),
			)
			return result, nil
		}

		lastErr = err
		if !isRetryable(err) {
			c.logger.Warn("non-retryable Azure OpenAI error",
				zap.Error(err),
				zap.Int("attempt", attempt+1),
			)
			break
		}

		c.logger.Warn("Azure OpenAI request failed",
			zap.Error(err),
			zap.Int("attempt", attempt+1),
		)
	}

	return "", fmt.Errorf("Azure OpenAI request failed after %s: %w", time.Since(startTime).Round(time.Millisecond), lastErr)
}

// complete performs a single chat completion request
func (c *OpenAIClient) complete(ctx context.Context, messages []openai.ChatCompletionMessageParamUnion) (string, error) {
	requestStart := time.Now()

	resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(c.deployment),
		Messages: messages,
	})
	if err != nil {
		return "", fmt.Errorf("chat completion request failed: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no choices returned from Azure OpenAI")
	}

	content := resp.Choices[0].Message.Content
	if content == "" {
		return "", fmt.Errorf("empty content in response")
	}

	c.logger.Debug("Azure OpenAI token usage",
		zap.Int64("prompt_tokens", resp.Usage.PromptTokens),
		zap.Int64("completion_tokens", resp.Usage.CompletionTokens),
		zap.Int64("total_tokens", resp.Usage.TotalTokens),
		zap.Duration("request_time", time.Since(requestStart)),
	)

	return content, nil
}

// isRetryable reports whether a failed request is worth another attempt.
// Cancellation, authentication and request validation errors are final.
func isRetryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		switch apiErr.StatusCode {
		case http.StatusBadRequest, http.StatusUnauthorized, http.StatusForbidden, http.StatusNotFound, http.StatusUnprocessableEntity:
			return false
		}
	}

	return true
}
