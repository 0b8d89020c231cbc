// This file implements parsing and validation of request payloads, so
// handlers stay focused on orchestration. Invalid input is caught here,
// at the form boundary; the derivation layer never sees it.
package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"fintrack/internal/core"
	"fintrack/internal/services"
)

const maxBodyBytes = 1 << 16 // 64KB

type createTransactionRequest struct {
	Date        string      `json:"date"`
	Description string      `json:"description"`
	Amount      json.Number `json:"amount"`
	Type        string      `json:"type"`
	Category    string      `json:"category"`
}

type budgetRequest struct {
	Budget core.Money `json:"budget"`
}

type extractRequest struct {
	Prompt string `json:"prompt"`
}

func decodeBody(r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

// parseDraft validates a create-transaction payload into a Draft.
func parseDraft(req createTransactionRequest) (services.Draft, error) {
	date, err := core.ParseDate(req.Date)
	if err != nil {
		return services.Draft{}, err
	}

	cents, err := core.ParseDecimalToCents(req.Amount.String())
	if err != nil {
		return services.Draft{}, fmt.Errorf("%w: %q", core.ErrInvalidAmount, req.Amount.String())
	}

	typ := core.TransactionType(req.Type)
	if !typ.Valid() {
		return services.Draft{}, fmt.Errorf("%w: %q", core.ErrInvalidType, req.Type)
	}

	cat := core.Category(req.Category)
	if !core.ValidCategory(typ, cat) {
		return services.Draft{}, fmt.Errorf("%w: %q is not a valid %s category", core.ErrInvalidCategory, req.Category, typ)
	}

	return services.Draft{
		Date:        date,
		Description: strings.TrimSpace(req.Description),
		Amount:      core.Money{Cents: cents},
		Type:        typ,
		Category:    cat,
	}, nil
}

// parseReferenceDate reads optional year/month query parameters, falling
// back to today's UTC date. This is the single place the wall clock is
// read; everything downstream takes the date as an argument.
func parseReferenceDate(r *http.Request) core.Date {
	now := time.Now().UTC()
	year, month := now.Year(), int(now.Month())

	if v := strings.TrimSpace(r.URL.Query().Get("year")); v != "" {
		if y, err := strconv.Atoi(v); err == nil && y >= 1970 && y <= 9999 {
			year = y
		}
	}
	if v := strings.TrimSpace(r.URL.Query().Get("month")); v != "" {
		if m, err := strconv.Atoi(v); err == nil && m >= 1 && m <= 12 {
			month = m
		}
	}

	return core.NewDate(year, month, 1)
}
