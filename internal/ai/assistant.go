// Package ai provides a Gemini-backed assistant that turns a customer's
// order history into a short natural-language summary.
package ai

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"bazaar/internal/modules/booking"
)

// Assistant is the contract the HTTP layer depends on, so tests can stub it
// and the endpoint can be disabled when no API key is configured.
type Assistant interface {
	SummarizeHistory(ctx context.Context, entries []booking.HistoryEntry) (string, error)
	Close()
}

type geminiAssistant struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

// NewGemini initializes a Gemini client. apiKey comes from the environment.
func NewGemini(ctx context.Context, apiKey string) (Assistant, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("creating gemini client: %w", err)
	}

	model := client.GenerativeModel("gemini-2.0-flash")
	model.SetTemperature(0.4)

	return &geminiAssistant{client: client, model: model}, nil
}

func (a *geminiAssistant) Close() {
	a.client.Close()
}

func (a *geminiAssistant) SummarizeHistory(ctx context.Context, entries []booking.HistoryEntry) (string, error) {
	if len(entries) == 0 {
		return "You have no orders yet.", nil
	}

	resp, err := a.model.GenerateContent(ctx, genai.Text(buildHistoryPrompt(entries)))
	if err != nil {
		return "", fmt.Errorf("gemini generation error: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("no response candidates from gemini")
	}

	var out strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			out.WriteString(string(txt))
		}
	}
	return strings.TrimSpace(out.String()), nil
}

func buildHistoryPrompt(entries []booking.HistoryEntry) string {
	var b strings.Builder
	b.WriteString("You are a marketplace support assistant. Summarize the customer's recent orders in at most three sentences, mentioning anything still in progress. Orders, newest first:\n")
	for _, e := range entries {
		fmt.Fprintf(&b, "- %s (%s): status %s, amount %d %s, created %s\n",
			e.Title, e.Type, e.Status, e.Amount.Amount, e.Amount.Currency,
			e.CreatedAt.Format("2006-01-02"))
	}
	return b.String()
}
