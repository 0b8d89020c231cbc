package http

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"fintrack/internal/ai"
	"fintrack/internal/core"
	"fintrack/internal/services"
)

type dashboardResponse struct {
	Year       int                   `json:"year"`
	Month      int                   `json:"month"`
	Income     core.Money            `json:"income"`
	Expenses   core.Money            `json:"expenses"`
	Balance    core.Money            `json:"balance"`
	Budget     core.BudgetStatus     `json:"budget"`
	Categories []core.CategoryAmount `json:"categories"`
	Recent     []core.Transaction    `json:"recent"`
}

type analyticsResponse struct {
	Year    int                   `json:"year"`
	Month   int                   `json:"month"`
	Income  []core.CategoryAmount `json:"income"`
	Expense []core.CategoryAmount `json:"expense"`
}

type extractResponse struct {
	Extracted bool           `json:"extracted"`
	Result    *ai.Extraction `json:"result,omitempty"`
}

func (s *Server) handleTransactions(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.listTransactions(w, r)
	case http.MethodPost:
		s.createTransaction(w, r)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *Server) listTransactions(w http.ResponseWriter, r *http.Request) {
	snap, err := s.ledger.Snapshot(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to load transactions", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load transactions")
		return
	}

	txs := core.SortByDateDesc(snap.Transactions)
	if txs == nil {
		txs = []core.Transaction{}
	}
	writeJSON(w, http.StatusOK, txs)
}

func (s *Server) createTransaction(w http.ResponseWriter, r *http.Request) {
	var req createTransactionRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	draft, err := parseDraft(req)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	tx, err := s.ledger.Add(r.Context(), draft)
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to add transaction", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to add transaction")
		return
	}

	writeJSON(w, http.StatusCreated, tx)
}

func (s *Server) handleTransactionByID(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	id := strings.TrimPrefix(r.URL.Path, "/api/transactions/")
	if id == "" || strings.Contains(id, "/") {
		writeError(w, http.StatusBadRequest, "missing transaction id")
		return
	}

	if err := s.ledger.Delete(r.Context(), id); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			writeError(w, http.StatusNotFound, "transaction not found")
			return
		}
		slog.ErrorContext(r.Context(), "Failed to delete transaction", "error", err, "transaction_id", id)
		writeError(w, http.StatusInternalServerError, "failed to delete transaction")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	snap, err := s.ledger.Snapshot(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to load snapshot", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load data")
		return
	}

	ref := parseReferenceDate(r)
	sorted := core.SortByDateDesc(snap.Transactions)
	breakdown := core.Partition(core.FilterMonth(sorted, ref))

	resp := dashboardResponse{
		Year:       ref.Year(),
		Month:      int(ref.Month()),
		Income:     breakdown.IncomeTotal,
		Expenses:   breakdown.ExpenseTotal,
		Balance:    breakdown.Balance(),
		Budget:     core.NewBudgetStatus(snap.Budget, breakdown.ExpenseTotal),
		Categories: core.AggregateByCategory(breakdown.ExpenseTransactions),
		Recent:     core.Recent(sorted, 5),
	}
	if resp.Categories == nil {
		resp.Categories = []core.CategoryAmount{}
	}
	if resp.Recent == nil {
		resp.Recent = []core.Transaction{}
	}

	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleAnalytics(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	snap, err := s.ledger.Snapshot(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to load snapshot", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load data")
		return
	}

	ref := parseReferenceDate(r)
	breakdown := core.Partition(core.FilterMonth(core.SortByDateDesc(snap.Transactions), ref))

	resp := analyticsResponse{
		Year:    ref.Year(),
		Month:   int(ref.Month()),
		Income:  core.AggregateByCategory(breakdown.IncomeTransactions),
		Expense: core.AggregateByCategory(breakdown.ExpenseTransactions),
	}
	if resp.Income == nil {
		resp.Income = []core.CategoryAmount{}
	}
	if resp.Expense == nil {
		resp.Expense = []core.CategoryAmount{}
	}

	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleBudget(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		snap, err := s.ledger.Snapshot(r.Context())
		if err != nil {
			slog.ErrorContext(r.Context(), "Failed to load snapshot", "error", err)
			writeError(w, http.StatusInternalServerError, "failed to load data")
			return
		}
		writeJSON(w, http.StatusOK, budgetRequest{Budget: snap.Budget})
	case http.MethodPut:
		var req budgetRequest
		if err := decodeBody(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		if err := s.ledger.SetBudget(r.Context(), req.Budget); err != nil {
			if errors.Is(err, core.ErrInvalidAmount) {
				writeError(w, http.StatusBadRequest, err.Error())
				return
			}
			slog.ErrorContext(r.Context(), "Failed to set budget", "error", err)
			writeError(w, http.StatusInternalServerError, "failed to set budget")
			return
		}
		writeJSON(w, http.StatusOK, budgetRequest{Budget: req.Budget})
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *Server) handleExtract(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	if s.extractor == nil {
		writeError(w, http.StatusServiceUnavailable, "AI extraction is not configured")
		return
	}

	var req extractRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if strings.TrimSpace(req.Prompt) == "" {
		writeError(w, http.StatusBadRequest, "prompt is required")
		return
	}

	result, err := s.extractor.Extract(r.Context(), req.Prompt)
	if err != nil {
		if errors.Is(err, ai.ErrService) {
			slog.ErrorContext(r.Context(), "AI extraction failed", "error", err)
			writeError(w, http.StatusBadGateway, "AI extraction failed")
			return
		}
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if result == nil {
		// The model replied but the answer did not hold up. Not an error;
		// the caller falls back to manual entry.
		writeJSON(w, http.StatusOK, extractResponse{Extracted: false})
		return
	}

	writeJSON(w, http.StatusOK, extractResponse{Extracted: true, Result: result})
}
