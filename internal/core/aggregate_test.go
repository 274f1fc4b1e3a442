package core

import (
	"reflect"
	"testing"
	"time"
)

// Fixed reference instant so every window computation is deterministic.
var testNow = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

func expense(cents int64, category string, at time.Time) Transaction {
	return Transaction{Amount: Money{Cents: cents}, Category: category, Kind: KindExpense, CreatedAt: at}
}

func income(cents int64, at time.Time) Transaction {
	return Transaction{Amount: Money{Cents: cents}, Kind: KindIncome, CreatedAt: at}
}

func TestTotalByKind(t *testing.T) {
	txs := []Transaction{
		expense(100, "a", testNow),
		expense(250, "b", time.Time{}), // no timestamp still counts for totals
		income(1000, testNow),
		{Amount: Money{Cents: 999}}, // kind unknown, excluded from both
	}
	if got := TotalByKind(txs, KindExpense); got.Cents != 350 {
		t.Fatalf("expense total = %d, want 350", got.Cents)
	}
	if got := TotalByKind(txs, KindIncome); got.Cents != 1000 {
		t.Fatalf("income total = %d, want 1000", got.Cents)
	}
	if got := TotalByKind(txs, Kind("")); got.Cents != 0 {
		t.Fatalf("unknown kind total = %d, want 0", got.Cents)
	}
	if got := TotalByKind(nil, KindExpense); got.Cents != 0 {
		t.Fatalf("empty list total = %d, want 0", got.Cents)
	}
}

func TestBalanceIdentity(t *testing.T) {
	txs := []Transaction{
		expense(300, "a", testNow),
		expense(200, "b", testNow),
		income(5000, testNow),
		{Amount: Money{Cents: 77}}, // unknown kind
	}
	want := TotalByKind(txs, KindIncome).Sub(TotalByKind(txs, KindExpense))
	if got := Balance(txs); got != want {
		t.Fatalf("balance = %d, want %d", got.Cents, want.Cents)
	}
	if got := Balance(nil); got.Cents != 0 {
		t.Fatalf("empty balance = %d, want 0", got.Cents)
	}
}

func TestWindowedSpendToday(t *testing.T) {
	sameDay := time.Date(2025, 6, 15, 0, 30, 0, 0, time.UTC)
	beforeMidnight := time.Date(2025, 6, 14, 23, 59, 0, 0, time.UTC)
	txs := []Transaction{
		expense(100, "a", sameDay),
		expense(200, "a", beforeMidnight), // one minute apart, different day
		income(999, sameDay),              // income never counts as spend
		expense(300, "a", time.Time{}),    // unclassifiable
	}
	if got := WindowedSpend(txs, WindowToday, testNow); got.Cents != 100 {
		t.Fatalf("today spend = %d, want 100", got.Cents)
	}
}

func TestWindowedSpendLast7Days(t *testing.T) {
	txs := []Transaction{
		expense(10, "a", testNow),                         // age 0
		expense(20, "a", testNow.Add(-6*24*time.Hour)),    // age 6, included
		expense(40, "a", testNow.Add(-7*24*time.Hour)),    // age exactly 7, excluded
		expense(80, "a", testNow.Add(-30*24*time.Hour)),   // long gone
		expense(160, "a", testNow.Add(time.Hour)),         // in the future, excluded
		expense(320, "a", testNow.Add(-167*time.Hour)),    // 6d23h, included
	}
	if got := WindowedSpend(txs, WindowLast7Days, testNow); got.Cents != 350 {
		t.Fatalf("week spend = %d, want 350", got.Cents)
	}
}

func TestGroupByCategoryOrderAndSum(t *testing.T) {
	txs := []Transaction{
		expense(100, "Comida", testNow),
		expense(50, "Transporte", testNow),
		expense(25, "Comida", time.Time{}), // no timestamp, still grouped
		expense(75, "", testNow),           // uncategorized, skipped
		income(999, testNow),
	}
	got := GroupByCategory(txs)
	want := []CategoryAmount{
		{Category: "Comida", Amount: Money{Cents: 125}},
		{Category: "Transporte", Amount: Money{Cents: 50}},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("groups = %+v, want %+v", got, want)
	}

	// Sum of groups equals the expense total restricted to categorized rows.
	var sum int64
	for _, g := range got {
		sum += g.Amount.Cents
	}
	if sum != 175 {
		t.Fatalf("group sum = %d, want 175", sum)
	}
}

func TestGroupByCategoryExactMatch(t *testing.T) {
	txs := []Transaction{
		expense(10, "comida", testNow),
		expense(20, "Comida", testNow),
	}
	if got := GroupByCategory(txs); len(got) != 2 {
		t.Fatalf("expected case-sensitive labels to stay separate, got %+v", got)
	}
}

func TestWeeklyTrendShape(t *testing.T) {
	for _, n := range []int{1, 4, 6} {
		buckets := WeeklyTrend(nil, testNow, n)
		if len(buckets) != n {
			t.Fatalf("weekCount=%d returned %d buckets", n, len(buckets))
		}
		for i, b := range buckets {
			if b.Amount.Cents != 0 {
				t.Fatalf("empty snapshot bucket %d has amount %d", i, b.Amount.Cents)
			}
			if !b.End.Equal(b.Start.Add(7 * 24 * time.Hour)) {
				t.Fatalf("bucket %d span is not 7 days", i)
			}
		}
		if last := buckets[n-1]; last.Label != "current" || !last.End.Equal(testNow) {
			t.Fatalf("most recent bucket = %+v", last)
		}
	}
	// Default applies when the count makes no sense.
	if got := WeeklyTrend(nil, testNow, 0); len(got) != DefaultTrendWeeks {
		t.Fatalf("weekCount=0 returned %d buckets", len(got))
	}
}

func TestWeeklyTrendLabels(t *testing.T) {
	buckets := WeeklyTrend(nil, testNow, 4)
	want := []string{"week 1", "week 2", "week 3", "current"}
	for i, b := range buckets {
		if b.Label != want[i] {
			t.Fatalf("bucket %d label = %q, want %q", i, b.Label, want[i])
		}
	}
}

func TestWeeklyTrendBucketing(t *testing.T) {
	txs := []Transaction{
		expense(10, "a", testNow.Add(-time.Hour)),           // current
		expense(20, "a", testNow.Add(-8*24*time.Hour)),      // week 3
		expense(40, "a", testNow.Add(-15*24*time.Hour)),     // week 2
		expense(80, "a", testNow.Add(-27*24*time.Hour)),     // week 1
		expense(160, "a", testNow.Add(-29*24*time.Hour)),    // older than 4 weeks
		expense(320, "a", testNow),                          // at end boundary, excluded
		income(999, testNow.Add(-time.Hour)),
	}
	buckets := WeeklyTrend(txs, testNow, 4)
	wantCents := []int64{80, 40, 20, 10}
	for i, b := range buckets {
		if b.Amount.Cents != wantCents[i] {
			t.Fatalf("bucket %d (%s) = %d, want %d", i, b.Label, b.Amount.Cents, wantCents[i])
		}
	}
}

func TestWeeklyTrendBoundaryBelongsToRecentBucket(t *testing.T) {
	// Exactly 7*24h old: the shared boundary between the two most recent
	// buckets. Half-open [start, end) puts it in the more recent one.
	txs := []Transaction{expense(500, "a", testNow.Add(-7*24*time.Hour))}
	buckets := WeeklyTrend(txs, testNow, 4)
	if got := buckets[3].Amount.Cents; got != 500 {
		t.Fatalf("current bucket = %d, want 500", got)
	}
	if got := buckets[2].Amount.Cents; got != 0 {
		t.Fatalf("previous bucket = %d, want 0", got)
	}
}

func TestSummarizeScenario(t *testing.T) {
	// Snapshot from the dashboard's canonical walkthrough: one expense
	// today, one income yesterday.
	txs := []Transaction{
		{Amount: Money{Cents: 50000}, Kind: KindExpense, Category: "Comida", CreatedAt: testNow},
		{Amount: Money{Cents: 1000000}, Kind: KindIncome, CreatedAt: testNow.Add(-24 * time.Hour)},
	}
	s := Summarize(txs, testNow)
	if s.Balance.Cents != 950000 {
		t.Fatalf("balance = %d, want 950000", s.Balance.Cents)
	}
	if s.TotalExpenses.Cents != 50000 {
		t.Fatalf("expenses = %d, want 50000", s.TotalExpenses.Cents)
	}
	if len(s.ByCategory) != 1 || s.ByCategory[0].Category != "Comida" || s.ByCategory[0].Amount.Cents != 50000 {
		t.Fatalf("by category = %+v", s.ByCategory)
	}
	if s.TodaySpent.Cents != 50000 {
		t.Fatalf("today spent = %d, want 50000", s.TodaySpent.Cents)
	}
	if len(s.WeeklyTrend) != DefaultTrendWeeks {
		t.Fatalf("trend length = %d", len(s.WeeklyTrend))
	}
}

func TestSummarizeEmptySnapshot(t *testing.T) {
	s := Summarize(nil, testNow)
	if s.TotalExpenses.Cents != 0 || s.TotalIncome.Cents != 0 || s.Balance.Cents != 0 ||
		s.TodaySpent.Cents != 0 || s.WeekSpent.Cents != 0 {
		t.Fatalf("empty snapshot summary has non-zero totals: %+v", s)
	}
	if len(s.ByCategory) != 0 {
		t.Fatalf("empty snapshot categories = %+v", s.ByCategory)
	}
	if len(s.WeeklyTrend) != DefaultTrendWeeks {
		t.Fatalf("empty snapshot trend length = %d", len(s.WeeklyTrend))
	}
}

func TestSummarizeIdempotent(t *testing.T) {
	txs := []Transaction{
		expense(123, "a", testNow.Add(-time.Hour)),
		expense(456, "b", testNow.Add(-3*24*time.Hour)),
		income(789, testNow.Add(-10*24*time.Hour)),
	}
	first := Summarize(txs, testNow)
	second := Summarize(txs, testNow)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("summaries differ:\n%+v\n%+v", first, second)
	}
}

func TestAggregatesNeverMutateInput(t *testing.T) {
	txs := []Transaction{
		expense(100, "a", testNow),
		income(200, testNow.Add(-time.Hour)),
	}
	before := make([]Transaction, len(txs))
	copy(before, txs)
	Summarize(txs, testNow)
	if !reflect.DeepEqual(before, txs) {
		t.Fatalf("input snapshot mutated: %+v", txs)
	}
}
