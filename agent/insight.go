package agent

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/etnz/ystocker"
	"google.golang.org/genai"
)

// ErrDisabled is returned when no Gemini API key is configured.
var ErrDisabled = errors.New("AI insight is disabled: GEMINI_API_KEY is not set")

// Analyst writes short valuation notes.
type Analyst struct {
	client *genai.Client
	Model  string
}

// NewAnalyst returns an Analyst using the Gemini API, or ErrDisabled when
// apiKey is empty.
func NewAnalyst(ctx context.Context, apiKey string) (*Analyst, error) {
	if apiKey == "" {
		return nil, ErrDisabled
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apiKey, Backend: genai.BackendGeminiAPI})
	if err != nil {
		return nil, fmt.Errorf("cannot create Gemini client: %w", err)
	}
	return &Analyst{client: client, Model: Model}, nil
}

// Client returns the underlying Gemini client.
func (a *Analyst) Client() *genai.Client { return a.client }

const insightInstruction = `You are a sell-side equity analyst. In at most 120 words of markdown,
comment on the valuation of the stock from the metrics given: is it cheap or expensive against
its growth, how credible is the analyst target. No disclaimer, no investment advice.`

// Insight returns a markdown note about the valuation of q.
func (a *Analyst) Insight(ctx context.Context, q ystocker.Quote) (string, error) {
	if a == nil {
		return "", ErrDisabled
	}
	temperature := float32(0.4)
	cfg := &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: insightInstruction}}},
		Temperature:       &temperature,
	}
	resp, err := a.client.Models.GenerateContent(ctx, a.Model, genai.Text(Describe(q)), cfg)
	if err != nil {
		return "", fmt.Errorf("insight for %s: %w", q.Ticker, err)
	}
	note := strings.TrimSpace(resp.Text())
	if note == "" {
		return "", fmt.Errorf("insight for %s: empty answer", q.Ticker)
	}
	return note, nil
}
