// Package classify derives category/priority suggestions for ticket
// descriptions from an LLM, degrading to null suggestions on any failure.
package classify

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/opsdesk/helpdesk/internal/config"
	"github.com/opsdesk/helpdesk/internal/domain"
)

const classifyPrompt = `You are a support ticket classifier. Output ONLY valid JSON.

Rules (apply in order):
- If the ticket is about LOGIN, PASSWORD, RESET PASSWORD, UNLOCK ACCOUNT, or account access -> category MUST be "account".
- If the ticket is about PAYMENT, REFUND, INVOICE, CHARGE, SUBSCRIPTION, or billing -> category MUST be "billing".
- If the ticket is about API, webhook, endpoint, 500 error, server error, integration, or logs -> category MUST be "technical".
- Otherwise use "general".

Priority rules:
- critical: outage, system down, data loss, breach, security incident, "urgent" or "restore"
- high: "no workaround", "blocking", "deadline", "can't access", "as soon as possible"
- low: "minor", "cosmetic", "not urgent", "feature request", "would be nice"
- medium: everything else

Output format (no other text):
{"category": "billing|technical|account|general", "priority": "low|medium|high|critical"}

Ticket description:
`

// Suggestion carries the derived triage fields. A nil field means the
// classifier has no usable suggestion for it.
type Suggestion struct {
	Category *domain.TicketCategory
	Priority *domain.TicketPriority
}

// CompletionClient is the upstream text-generation call.
type CompletionClient interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Classifier wraps the upstream call with a fail-open contract: Classify
// never returns an error and never panics past its boundary.
type Classifier struct {
	client  CompletionClient
	logger  *zap.Logger
	timeout time.Duration
}

// New builds a classifier from config. Without an API key the upstream
// client stays nil and every call resolves to null suggestions immediately.
func New(cfg config.ClassifierConfig, logger *zap.Logger) *Classifier {
	c := &Classifier{logger: logger, timeout: cfg.Timeout()}
	if cfg.APIKey != "" {
		c.client = newAnthropicClient(cfg.APIKey, cfg.Model)
	}
	return c
}

// NewWithClient builds a classifier around an explicit upstream client.
func NewWithClient(client CompletionClient, logger *zap.Logger, timeout time.Duration) *Classifier {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Classifier{client: client, logger: logger, timeout: timeout}
}

// Classify suggests a category and priority for the description. Every
// failure mode of the upstream call resolves to the same null pair.
func (c *Classifier) Classify(ctx context.Context, description string) Suggestion {
	description = strings.TrimSpace(description)
	if description == "" || c.client == nil {
		return Suggestion{}
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	raw, err := c.client.Complete(ctx, classifyPrompt+description)
	if err != nil {
		c.logger.Warn("classification call failed", zap.Error(err))
		return Suggestion{}
	}

	suggestion, err := parseSuggestion(raw)
	if err != nil {
		c.logger.Warn("classification response unusable", zap.Error(err))
		return Suggestion{}
	}

	applyKeywordCorrections(description, &suggestion)
	return suggestion
}

type rawSuggestion struct {
	Category string `json:"category"`
	Priority string `json:"priority"`
}

// parseSuggestion validates the model output against the fixed enums. An
// unrecognized value coerces that field to nil rather than failing the call.
func parseSuggestion(text string) (Suggestion, error) {
	text = stripCodeFences(text)
	if text == "" {
		return Suggestion{}, errors.New("empty response")
	}

	var parsed rawSuggestion
	if err := json.Unmarshal([]byte(text), &parsed); err != nil {
		return Suggestion{}, err
	}

	var suggestion Suggestion
	if category := domain.TicketCategory(strings.ToLower(strings.TrimSpace(parsed.Category))); category.Valid() {
		suggestion.Category = &category
	}
	if priority := domain.TicketPriority(strings.ToLower(strings.TrimSpace(parsed.Priority))); priority.Valid() {
		suggestion.Priority = &priority
	}
	return suggestion, nil
}

// stripCodeFences tolerates models wrapping the JSON in markdown fences or
// surrounding prose; the first balanced object is extracted.
func stripCodeFences(text string) string {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	text = strings.TrimSpace(text)

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start >= 0 && end > start {
		text = text[start : end+1]
	}
	return text
}
