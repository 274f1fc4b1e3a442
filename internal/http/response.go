package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"gastos/internal/core"
)

type moneyPayload struct {
	Cents     int64  `json:"cents"`
	Formatted string `json:"formatted"`
}

type categoryPayload struct {
	Category string       `json:"category"`
	Amount   moneyPayload `json:"amount"`
}

type weekPayload struct {
	Label  string       `json:"label"`
	Start  time.Time    `json:"start"`
	End    time.Time    `json:"end"`
	Amount moneyPayload `json:"amount"`
}

type transactionPayload struct {
	ID          string       `json:"id"`
	Amount      moneyPayload `json:"amount"`
	Category    string       `json:"category,omitempty"`
	Kind        string       `json:"kind,omitempty"`
	Description string       `json:"description,omitempty"`
	CreatedAt   time.Time    `json:"created_at"`
}

type errorPayload struct {
	Error string `json:"error"`
}

func toMoneyPayload(m core.Money) moneyPayload {
	return moneyPayload{Cents: m.Cents, Formatted: m.String()}
}

func toTransactionPayload(t core.Transaction) transactionPayload {
	return transactionPayload{
		ID:          t.ID,
		Amount:      toMoneyPayload(t.Amount),
		Category:    t.Category,
		Kind:        string(t.Kind),
		Description: t.Description,
		CreatedAt:   t.CreatedAt,
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("Failed encoding response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorPayload{Error: msg})
}
