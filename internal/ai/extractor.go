// Package ai turns free-text transaction descriptions into structured
// expense fields via the Gemini API. The model is constrained to a JSON
// schema and its answer is still validated locally before being
// trusted.
package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"fintrack/internal/core"
)

const DefaultModel = "gemini-2.5-flash"

var (
	// ErrNotConfigured means no API key is available. It is returned
	// before any network attempt is made.
	ErrNotConfigured = errors.New("ai: api key is not configured")

	// ErrService wraps transport failures and unparseable model output.
	ErrService = errors.New("ai: service error")
)

// Extraction is the structured result of a successful extraction.
// Category is always one of the expense categories; the adapter only
// classifies expenses.
type Extraction struct {
	Description string        `json:"description"`
	Amount      float64       `json:"amount"`
	Category    core.Category `json:"category"`
}

// Extractor is a stateless adapter around the Gemini client: no
// conversation memory, no caching, no retries.
type Extractor struct {
	model string

	// generate performs the single model round-trip. Kept as a field so
	// tests can substitute the network call.
	generate func(ctx context.Context, prompt string) (string, error)
}

// New creates an Extractor. An empty API key is a configuration
// failure, reported immediately.
func New(ctx context.Context, apiKey, model string) (*Extractor, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, ErrNotConfigured
	}
	if model == "" {
		model = DefaultModel
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	e := &Extractor{model: model}
	e.generate = func(ctx context.Context, prompt string) (string, error) {
		resp, err := client.Models.GenerateContent(ctx, e.model, genai.Text(prompt), generateConfig())
		if err != nil {
			return "", err
		}
		return resp.Text(), nil
	}
	return e, nil
}

func generateConfig() *genai.GenerateContentConfig {
	categories := make([]string, len(core.ExpenseCategories))
	for i, c := range core.ExpenseCategories {
		categories[i] = string(c)
	}
	return &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"description": {
					Type:        genai.TypeString,
					Description: "A brief description of the transaction. Can be empty if not specified.",
				},
				"amount": {
					Type:        genai.TypeNumber,
					Description: "The numerical amount of the transaction.",
				},
				"category": {
					Type:        genai.TypeString,
					Description: "The category of the expense. Must be one of: " + strings.Join(categories, ", ") + ".",
					Enum:        categories,
				},
			},
			Required: []string{"amount", "category"},
		},
	}
}

// Extract sends one request for the given prompt and returns the
// validated result.
//
// Outcomes:
//   - (result, nil): the model's answer passed local validation.
//   - (nil, nil): the call succeeded but the answer failed validation —
//     the caller should ask the user to be more specific.
//   - (nil, err): configuration or service failure.
func (e *Extractor) Extract(ctx context.Context, prompt string) (*Extraction, error) {
	if strings.TrimSpace(prompt) == "" {
		return nil, errors.New("ai: empty prompt")
	}

	instruction := "Analyze the following user input and extract transaction details. " +
		"Classify it into one of the provided categories. If the category isn't clear, use 'Other'. " +
		"The description is optional. Input: " + fmt.Sprintf("%q", prompt)

	raw, err := e.generate(ctx, instruction)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrService, err)
	}

	return decodeExtraction(raw)
}

// decodeExtraction parses the model output and applies the local trust
// checks: amount must be a JSON number and category must be an exact
// member of the expense enumeration. Failing either is the soft
// no-extraction outcome, not an error.
func decodeExtraction(raw string) (*Extraction, error) {
	clean := cleanModelJSON(raw)
	if clean == "" {
		return nil, fmt.Errorf("%w: empty response from model", ErrService)
	}

	var fields map[string]any
	if err := json.Unmarshal([]byte(clean), &fields); err != nil {
		return nil, fmt.Errorf("%w: unparseable response: %v", ErrService, err)
	}

	amount, ok := fields["amount"].(float64)
	if !ok {
		return nil, nil
	}
	catStr, ok := fields["category"].(string)
	if !ok || !core.ValidCategory(core.Expense, core.Category(catStr)) {
		return nil, nil
	}

	description, _ := fields["description"].(string) // defaults to ""
	return &Extraction{
		Description: description,
		Amount:      amount,
		Category:    core.Category(catStr),
	}, nil
}

// cleanModelJSON strips Markdown fences and surrounding junk if the
// model ignored the raw-JSON instruction.
func cleanModelJSON(raw string) string {
	s := strings.TrimSpace(raw)

	if strings.HasPrefix(s, "```") {
		if idx := strings.Index(s, "\n"); idx != -1 {
			s = s[idx+1:]
		} else {
			return s
		}
		s = strings.TrimSpace(s)
		// Only strip a closing fence when the reply opened one, so
		// backticks inside a raw-JSON reply survive.
		if idx := strings.LastIndex(s, "```"); idx != -1 {
			s = s[:idx]
		}
		s = strings.TrimSpace(s)
	}

	// Keep only the outermost object if extra text survived.
	if start := strings.Index(s, "{"); start != -1 {
		if end := strings.LastIndex(s, "}"); end != -1 && end > start {
			s = strings.TrimSpace(s[start : end+1])
		}
	}

	return s
}
