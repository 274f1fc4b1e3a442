package http

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"gastos/internal/core"
)

type dashboardResponse struct {
	SnapshotSeq uint64    `json:"snapshot_seq"`
	TakenAt     time.Time `json:"taken_at"`
	Stale       bool      `json:"stale,omitempty"`

	TotalExpenses   moneyPayload `json:"total_expenses"`
	TotalIncome     moneyPayload `json:"total_income"`
	Balance         moneyPayload `json:"balance"`
	TodaySpent      moneyPayload `json:"today_spent"`
	WeekSpent       moneyPayload `json:"week_spent"`
	RemainingBudget moneyPayload `json:"remaining_budget"`

	ByCategory  []categoryPayload `json:"by_category"`
	WeeklyTrend []weekPayload     `json:"weekly_trend"`
}

// handleDashboard serves every derived figure the dashboard renders,
// computed from one full snapshot of the owner's transactions.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	owner := ownerID(r)
	weeks := parseTrendWeeks(r)

	cacheable := owner != "" && weeks == core.DefaultTrendWeeks
	if cacheable {
		if cached, ok := s.dashCache.Get(owner); ok {
			writeJSON(w, http.StatusOK, cached)
			return
		}
	}

	snap, err := s.snapshots.Fetch(r.Context(), owner)
	if err != nil && snap.Seq == 0 && len(snap.Transactions) == 0 {
		slog.ErrorContext(r.Context(), "Dashboard snapshot unavailable", "owner_id", owner, "error", err)
		writeError(w, http.StatusServiceUnavailable, "store unavailable")
		return
	}

	resp := s.buildDashboard(snap, weeks, time.Now())
	resp.Stale = err != nil
	if err != nil {
		slog.WarnContext(r.Context(), "Serving stale dashboard", "owner_id", owner, "snapshot_seq", snap.Seq, "error", err)
	}

	if cacheable && !resp.Stale {
		s.dashCache.Set(owner, resp)
	}

	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) buildDashboard(snap core.Snapshot, weeks int, now time.Time) dashboardResponse {
	summary := core.Summarize(snap.Transactions, now)
	if weeks != core.DefaultTrendWeeks {
		summary.WeeklyTrend = core.WeeklyTrend(snap.Transactions, now, weeks)
	}

	resp := dashboardResponse{
		SnapshotSeq:     snap.Seq,
		TakenAt:         snap.TakenAt,
		TotalExpenses:   toMoneyPayload(summary.TotalExpenses),
		TotalIncome:     toMoneyPayload(summary.TotalIncome),
		Balance:         toMoneyPayload(summary.Balance),
		TodaySpent:      toMoneyPayload(summary.TodaySpent),
		WeekSpent:       toMoneyPayload(summary.WeekSpent),
		RemainingBudget: toMoneyPayload(core.Money{Cents: s.budgetCents}.Sub(summary.TotalExpenses)),
		ByCategory:      make([]categoryPayload, 0, len(summary.ByCategory)),
		WeeklyTrend:     make([]weekPayload, 0, len(summary.WeeklyTrend)),
	}
	for _, c := range summary.ByCategory {
		resp.ByCategory = append(resp.ByCategory, categoryPayload{Category: c.Category, Amount: toMoneyPayload(c.Amount)})
	}
	for _, b := range summary.WeeklyTrend {
		resp.WeeklyTrend = append(resp.WeeklyTrend, weekPayload{Label: b.Label, Start: b.Start, End: b.End, Amount: toMoneyPayload(b.Amount)})
	}
	return resp
}

// parseTrendWeeks reads the optional weeks query parameter, falling back
// to the default trend width on absent or unusable values.
func parseTrendWeeks(r *http.Request) int {
	v := strings.TrimSpace(r.URL.Query().Get("weeks"))
	if v == "" {
		return core.DefaultTrendWeeks
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 1 || n > 52 {
		return core.DefaultTrendWeeks
	}
	return n
}
