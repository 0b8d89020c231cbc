package ai

import (
	"context"
	"errors"
	"testing"
)

func stubExtractor(reply string, err error) *Extractor {
	return &Extractor{
		model: DefaultModel,
		generate: func(context.Context, string) (string, error) {
			return reply, err
		},
	}
}

func TestExtractSuccess(t *testing.T) {
	e := stubExtractor(`{"description":"Coffee with friends","amount":250,"category":"Food"}`, nil)
	got, err := e.Extract(context.Background(), "Coffee with friends for 250")
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if got == nil {
		t.Fatalf("expected a result")
	}
	if got.Description != "Coffee with friends" || got.Amount != 250 || got.Category != "Food" {
		t.Fatalf("result altered: %+v", got)
	}
}

func TestExtractMissingDescriptionDefaultsEmpty(t *testing.T) {
	e := stubExtractor(`{"amount":99.5,"category":"Transport"}`, nil)
	got, err := e.Extract(context.Background(), "taxi 99.50")
	if err != nil || got == nil {
		t.Fatalf("extract: got=%v err=%v", got, err)
	}
	if got.Description != "" {
		t.Fatalf("expected empty description, got %q", got.Description)
	}
}

func TestExtractSoftFailures(t *testing.T) {
	cases := []struct {
		name  string
		reply string
	}{
		{"unknown category", `{"description":"x","amount":10,"category":"Snacks"}`},
		{"missing amount", `{"description":"x","category":"Food"}`},
		{"amount not a number", `{"description":"x","amount":"ten","category":"Food"}`},
		{"missing category", `{"description":"x","amount":10}`},
		{"case mismatch category", `{"amount":10,"category":"food"}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := stubExtractor(tc.reply, nil)
			got, err := e.Extract(context.Background(), "whatever")
			if err != nil {
				t.Fatalf("soft failure must not be an error: %v", err)
			}
			if got != nil {
				t.Fatalf("expected no extraction, got %+v", got)
			}
		})
	}
}

func TestExtractHardFailures(t *testing.T) {
	// Transport failure.
	e := stubExtractor("", errors.New("connection reset"))
	if _, err := e.Extract(context.Background(), "coffee 3"); !errors.Is(err, ErrService) {
		t.Fatalf("expected ErrService, got %v", err)
	}

	// Unparseable output is a service failure, not a soft one.
	e = stubExtractor("definitely not json", nil)
	if _, err := e.Extract(context.Background(), "coffee 3"); !errors.Is(err, ErrService) {
		t.Fatalf("expected ErrService for garbage, got %v", err)
	}

	// Empty reply.
	e = stubExtractor("", nil)
	if _, err := e.Extract(context.Background(), "coffee 3"); !errors.Is(err, ErrService) {
		t.Fatalf("expected ErrService for empty reply, got %v", err)
	}
}

func TestExtractRejectsEmptyPrompt(t *testing.T) {
	e := stubExtractor(`{"amount":1,"category":"Food"}`, nil)
	if _, err := e.Extract(context.Background(), "   "); err == nil {
		t.Fatalf("expected error for blank prompt")
	}
}

func TestExtractToleratesCodeFences(t *testing.T) {
	e := stubExtractor("```json\n{\"description\":\"lunch\",\"amount\":12,\"category\":\"Food\"}\n```", nil)
	got, err := e.Extract(context.Background(), "lunch 12")
	if err != nil || got == nil {
		t.Fatalf("fenced reply should parse: got=%v err=%v", got, err)
	}
	if got.Category != "Food" || got.Amount != 12 {
		t.Fatalf("unexpected result: %+v", got)
	}
}

func TestExtractKeepsBackticksInUnfencedReply(t *testing.T) {
	e := stubExtractor("{\"description\":\"paid via ```bank``` app\",\"amount\":30,\"category\":\"Utilities\"}", nil)
	got, err := e.Extract(context.Background(), "bank app bill 30")
	if err != nil || got == nil {
		t.Fatalf("raw reply with backticks should parse: got=%v err=%v", got, err)
	}
	if got.Description != "paid via ```bank``` app" {
		t.Fatalf("description mangled: %q", got.Description)
	}
}

func TestNewWithoutKey(t *testing.T) {
	if _, err := New(context.Background(), "", DefaultModel); !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
}
