package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/samber/oops"
)

// Fields is what the model managed to read out of a message. Zero
// values mean the model offered nothing for that field.
type Fields struct {
	IsCoupon      bool     `json:"is_coupon"`
	Code          string   `json:"code"`
	Platform      string   `json:"platform"`
	DiscountType  string   `json:"discount_type"`
	DiscountValue float64  `json:"discount_value"`
	MinPurchase   *float64 `json:"min_purchase"`
	MaxDiscount   *float64 `json:"max_discount"`
	ValidUntil    string   `json:"valid_until"`
	Title         string   `json:"title"`
	Description   string   `json:"description"`
}

// Analyzer asks a language model to read a coupon out of message text.
// Implementations are advisory: callers must survive any error with a
// heuristic fallback.
type Analyzer interface {
	Analyze(ctx context.Context, text string) (*Fields, error)
}

const systemPrompt = `You extract discount coupons from Brazilian Telegram deal messages.
Reply with a single JSON object and nothing else, with keys:
is_coupon (bool), code (string), platform (string), discount_type ("percentage" or "fixed"),
discount_value (number), min_purchase (number or null), max_discount (number or null),
valid_until (string, DD/MM/YYYY or empty), title (string), description (string).
If the message has no coupon code, set is_coupon to false.`

// OpenRouterAnalyzer talks to an OpenRouter-compatible chat completions
// endpoint.
type OpenRouterAnalyzer struct {
	endpoint string
	apiKey   string
	model    string
	client   *http.Client
	logger   *slog.Logger
}

func NewOpenRouterAnalyzer(endpoint, apiKey, model string, logger *slog.Logger) *OpenRouterAnalyzer {
	return &OpenRouterAnalyzer{
		endpoint: strings.TrimSuffix(endpoint, "/") + "/chat/completions",
		apiKey:   apiKey,
		model:    model,
		client:   &http.Client{Timeout: 30 * time.Second},
		logger:   logger,
	}
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

func (a *OpenRouterAnalyzer) Analyze(ctx context.Context, text string) (*Fields, error) {
	payload, err := json.Marshal(chatRequest{
		Model: a.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: text},
		},
	})
	if err != nil {
		return nil, oops.With("context", "failed to marshal analyzer request").Wrap(err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, oops.With("context", "failed to build analyzer request").Wrap(err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+a.apiKey)

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, oops.With("context", "analyzer request failed").Wrap(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, oops.With("context", "failed to read analyzer response").Wrap(err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, oops.With("status", resp.StatusCode).Errorf("analyzer returned %d", resp.StatusCode)
	}

	var parsed chatResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, oops.With("context", "failed to decode analyzer response").Wrap(err)
	}
	if len(parsed.Choices) == 0 {
		return nil, fmt.Errorf("analyzer returned no choices")
	}

	fields, err := parseFields(parsed.Choices[0].Message.Content)
	if err != nil {
		return nil, err
	}

	a.logger.Debug("analyzer verdict", "is_coupon", fields.IsCoupon, "code", fields.Code)
	return fields, nil
}

// parseFields tolerates models that wrap the JSON in markdown fences
// or prose.
func parseFields(content string) (*Fields, error) {
	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start < 0 || end <= start {
		return nil, fmt.Errorf("analyzer reply carries no JSON object")
	}

	var fields Fields
	if err := json.Unmarshal([]byte(content[start:end+1]), &fields); err != nil {
		return nil, oops.With("context", "failed to decode analyzer fields").Wrap(err)
	}

	return &fields, nil
}
