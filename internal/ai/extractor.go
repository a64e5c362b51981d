// Package ai turns raw panel HTML into destination records via a
// text-completion endpoint. The adapter is fail-closed: anything that is not
// a well-typed JSON array aborts extraction for that panel.
package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/karripar/va-backend-sub000/internal/domain"
)

// DefaultModel is used when no model is configured.
const DefaultModel = openai.GPT4oMini

const promptTemplate = `Extract every exchange destination from the HTML fragment below.
The fragment comes from the section %q of a partner-institution listing.

Respond with ONLY a JSON array. Each element must be an object with exactly
these string fields:
  "country": the destination country
  "title": the institution or destination name
  "link": the absolute URL, or "" if the item has no link
If an item does not state a country, use %q.
Do not include any explanation or markdown.

HTML:
%s`

// CompletionClient is the slice of the OpenAI client the extractor needs.
type CompletionClient interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// Extractor sends panel HTML to the completion endpoint and validates the
// returned JSON against the record schema.
type Extractor struct {
	client CompletionClient
	model  string
}

// NewExtractor creates an extractor using the given client and model. An
// empty model selects DefaultModel.
func NewExtractor(client CompletionClient, model string) *Extractor {
	if model == "" {
		model = DefaultModel
	}
	return &Extractor{client: client, model: model}
}

// Extract asks the model for (country, title, link) triples found in
// panelHTML. Coordinates are not attached here; that is the caller's job.
func (e *Extractor) Extract(ctx context.Context, sectionTitle, panelHTML, panelCountry string) ([]domain.DestinationRecord, error) {
	resp, err := e.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       e.model,
		Temperature: 0,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: fmt.Sprintf(promptTemplate, sectionTitle, panelCountry, panelHTML),
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("completion request failed for section %q: %w", sectionTitle, err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("completion returned no choices for section %q", sectionTitle)
	}

	return ParseRecords(resp.Choices[0].Message.Content)
}

// wireRecord uses pointers so missing fields are distinguishable from empty
// strings; a non-string value fails the JSON decode outright.
type wireRecord struct {
	Country *string `json:"country"`
	Title   *string `json:"title"`
	Link    *string `json:"link"`
}

// ParseRecords decodes the model output, tolerating an optional
// triple-backtick fence with or without a "json" tag. Any schema violation
// is a hard error; downstream validation assumes well-typed input.
func ParseRecords(raw string) ([]domain.DestinationRecord, error) {
	cleaned := stripCodeFence(raw)

	// json.Unmarshal accepts "null" for a slice without error, which would
	// let a refusing model cache an empty panel. Require array syntax.
	if !strings.HasPrefix(strings.TrimSpace(cleaned), "[") {
		return nil, fmt.Errorf("model output is not a JSON array of records: %q", truncate(cleaned, 64))
	}

	var wire []wireRecord
	if err := json.Unmarshal([]byte(cleaned), &wire); err != nil {
		return nil, fmt.Errorf("model output is not a JSON array of records: %w", err)
	}

	records := make([]domain.DestinationRecord, 0, len(wire))
	for i, w := range wire {
		if w.Country == nil || w.Title == nil || w.Link == nil {
			return nil, fmt.Errorf("model output element %d is missing a required field", i)
		}
		records = append(records, domain.DestinationRecord{
			Country: *w.Country,
			Title:   *w.Title,
			Link:    *w.Link,
		})
	}
	return records, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

// stripCodeFence removes a surrounding ``` or ```json fence if present.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimPrefix(s, "json")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
