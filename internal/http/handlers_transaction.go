package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"gastos/internal/core"
)

type createTransactionRequest struct {
	Amount      string `json:"amount"`
	Category    string `json:"category"`
	Kind        string `json:"kind"`
	Description string `json:"description"`
}

type createTransactionResponse struct {
	ID string `json:"id"`
}

type transactionListResponse struct {
	SnapshotSeq  uint64               `json:"snapshot_seq"`
	Stale        bool                 `json:"stale,omitempty"`
	Transactions []transactionPayload `json:"transactions"`
}

func (s *Server) handleTransactions(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.handleListTransactions(w, r)
	case http.MethodPost:
		s.handleCreateTransaction(w, r)
	default:
		w.Header().Set("Allow", "GET, POST")
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	owner := ownerID(r)

	snap, err := s.snapshots.Fetch(r.Context(), owner)
	if err != nil && snap.Seq == 0 && len(snap.Transactions) == 0 {
		slog.ErrorContext(r.Context(), "Transaction list unavailable", "owner_id", owner, "error", err)
		writeError(w, http.StatusServiceUnavailable, "store unavailable")
		return
	}

	resp := transactionListResponse{
		SnapshotSeq:  snap.Seq,
		Stale:        err != nil,
		Transactions: make([]transactionPayload, 0, len(snap.Transactions)),
	}
	for _, t := range snap.Transactions {
		resp.Transactions = append(resp.Transactions, toTransactionPayload(t))
	}

	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	owner := ownerID(r)
	if owner == "" {
		writeError(w, http.StatusUnauthorized, "missing X-Owner-ID header")
		return
	}

	var req createTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	cents, err := core.ParseDecimalToCents(strings.TrimSpace(req.Amount))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid amount")
		return
	}

	kind := core.Kind(strings.TrimSpace(req.Kind))
	if kind == "" {
		kind = core.KindExpense
	}

	tx := core.Transaction{
		Amount:      core.Money{Cents: cents},
		Category:    strings.TrimSpace(req.Category),
		Kind:        kind,
		Description: strings.TrimSpace(req.Description),
		OwnerID:     owner,
	}
	if err := tx.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, validationMessage(err))
		return
	}

	id, err := s.transactions.Create(r.Context(), tx)
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed creating transaction", "owner_id", owner, "error", err)
		writeError(w, http.StatusInternalServerError, "could not save transaction")
		return
	}

	s.dashCache.Delete(owner)

	writeJSON(w, http.StatusCreated, createTransactionResponse{ID: id})
}

func validationMessage(err error) string {
	switch {
	case errors.Is(err, core.ErrInvalidAmount):
		return "amount must be positive"
	case errors.Is(err, core.ErrInvalidKind):
		return "kind must be expense or income"
	case errors.Is(err, core.ErrEmptyCategory):
		return "category is required for expenses"
	default:
		return err.Error()
	}
}
