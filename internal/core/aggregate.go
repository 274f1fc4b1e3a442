package core

import (
	"strconv"
	"time"
)

// DefaultTrendWeeks is the number of rolling 7-day buckets the dashboard
// trend chart renders.
const DefaultTrendWeeks = 4

const (
	WindowToday     Window = "today"
	WindowLast7Days Window = "last7days"
)

type (
	// Window selects a date-window rule for WindowedSpend.
	Window string

	// CategoryAmount is an amount aggregated under one category label.
	CategoryAmount struct {
		Category string
		Amount   Money
	}

	// WeekBucket is one rolling 7-day trend bucket over the half-open
	// interval [Start, End).
	WeekBucket struct {
		Label  string
		Start  time.Time
		End    time.Time
		Amount Money
	}

	// Summary carries every derived figure the dashboard renders, all
	// computed from one snapshot and one captured now.
	Summary struct {
		TotalExpenses Money
		TotalIncome   Money
		Balance       Money
		TodaySpent    Money
		WeekSpent     Money
		ByCategory    []CategoryAmount
		WeeklyTrend   []WeekBucket
	}
)

// TotalByKind sums the amounts of all transactions of the requested kind.
// Rows with no recorded kind never match, so they contribute to neither
// total. CreatedAt is not consulted here.
func TotalByKind(txs []Transaction, kind Kind) Money {
	var sum Money
	if !kind.Valid() {
		return sum
	}
	for _, t := range txs {
		if t.Kind == kind {
			sum = sum.Add(t.Amount)
		}
	}
	return sum
}

// Balance is total income minus total expenses.
func Balance(txs []Transaction) Money {
	return TotalByKind(txs, KindIncome).Sub(TotalByKind(txs, KindExpense))
}

// WindowedSpend sums expense amounts whose CreatedAt falls inside the
// given window relative to now. Rows with a zero CreatedAt cannot be
// classified and are skipped.
//
// WindowToday compares local calendar dates, not a rolling 24h interval:
// two timestamps a minute apart but across local midnight land in
// different windows. WindowLast7Days is rolling, including a row when its
// age in whole days is in [0, 7).
func WindowedSpend(txs []Transaction, w Window, now time.Time) Money {
	var sum Money
	for _, t := range txs {
		if t.Kind != KindExpense || t.CreatedAt.IsZero() {
			continue
		}
		if inWindow(t.CreatedAt, w, now) {
			sum = sum.Add(t.Amount)
		}
	}
	return sum
}

func inWindow(ts time.Time, w Window, now time.Time) bool {
	switch w {
	case WindowToday:
		y1, m1, d1 := ts.Local().Date()
		y2, m2, d2 := now.Local().Date()
		return y1 == y2 && m1 == m2 && d1 == d2
	case WindowLast7Days:
		if ts.After(now) {
			return false
		}
		age := int(now.Sub(ts) / (24 * time.Hour))
		return age >= 0 && age < 7
	default:
		return false
	}
}

// GroupByCategory sums expense amounts per category label. Labels are
// compared by exact string equality and emitted in order of first
// appearance, which keeps snapshot-style tests stable. Uncategorized
// rows and non-expense rows are skipped.
func GroupByCategory(txs []Transaction) []CategoryAmount {
	idx := make(map[string]int)
	var out []CategoryAmount
	for _, t := range txs {
		if t.Kind != KindExpense || t.Category == "" {
			continue
		}
		i, ok := idx[t.Category]
		if !ok {
			i = len(out)
			idx[t.Category] = i
			out = append(out, CategoryAmount{Category: t.Category})
		}
		out[i].Amount = out[i].Amount.Add(t.Amount)
	}
	return out
}

// WeeklyTrend returns weekCount rolling 7-day buckets ending at now,
// oldest first. Bucket i (counting back from now) spans the half-open
// interval [now-(i+1)*7d, now-i*7d), so a row timestamped exactly at a
// boundary belongs to the more recent bucket. The most recent bucket is
// labeled "current". A non-positive weekCount falls back to
// DefaultTrendWeeks; the result always has exactly weekCount entries,
// zero-valued when nothing matches.
func WeeklyTrend(txs []Transaction, now time.Time, weekCount int) []WeekBucket {
	if weekCount <= 0 {
		weekCount = DefaultTrendWeeks
	}
	const week = 7 * 24 * time.Hour
	out := make([]WeekBucket, 0, weekCount)
	for i := weekCount - 1; i >= 0; i-- {
		b := WeekBucket{
			Start: now.Add(-time.Duration(i+1) * week),
			End:   now.Add(-time.Duration(i) * week),
		}
		if i == 0 {
			b.Label = "current"
		} else {
			b.Label = "week " + strconv.Itoa(weekCount-i)
		}
		for _, t := range txs {
			if t.Kind != KindExpense || t.CreatedAt.IsZero() {
				continue
			}
			if !t.CreatedAt.Before(b.Start) && t.CreatedAt.Before(b.End) {
				b.Amount = b.Amount.Add(t.Amount)
			}
		}
		out = append(out, b)
	}
	return out
}

// Summarize computes all dashboard aggregates in one pass over the
// snapshot, threading the same now through every window so the figures
// stay mutually consistent even when the wall clock advances mid-render.
func Summarize(txs []Transaction, now time.Time) Summary {
	expenses := TotalByKind(txs, KindExpense)
	income := TotalByKind(txs, KindIncome)
	return Summary{
		TotalExpenses: expenses,
		TotalIncome:   income,
		Balance:       income.Sub(expenses),
		TodaySpent:    WindowedSpend(txs, WindowToday, now),
		WeekSpent:     WindowedSpend(txs, WindowLast7Days, now),
		ByCategory:    GroupByCategory(txs),
		WeeklyTrend:   WeeklyTrend(txs, now, DefaultTrendWeeks),
	}
}
