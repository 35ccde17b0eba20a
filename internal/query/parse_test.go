package query

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Saturday, mid-month, so every relative phrase is distinguishable.
var testToday = time.Date(2026, time.August, 15, 12, 0, 0, 0, time.UTC)

func parseAt(q string) Filter {
	return Parse(q, WithToday(testToday))
}

func TestParse_Limits(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  int
	}{
		{"last N", "last 5 transactions", 5},
		{"first N", "first 10 charges", 10},
		{"top N", "top 3 purchases", 3},
		{"recent N", "recent 7 transactions", 7},
		{"N largest", "3 largest charges", 3},
		{"N smallest", "4 smallest payments", 4},
		{"boundary low", "last 1 transactions", 1},
		{"boundary high", "last 100 transactions", 100},
		{"over max keeps default", "last 150 transactions", DefaultLimit},
		{"absurdly large keeps default", "last 99999999999999999999 transactions", DefaultLimit},
		{"zero keeps default", "last 0 transactions", DefaultLimit},
		{"negative keeps default", "last -5 transactions", DefaultLimit},
		{"no quantity", "coffee purchases", DefaultLimit},
		{"all bumps default", "all transactions", MaxLimit},
		{"all as substring does not bump", "smallest transactions", DefaultLimit},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, parseAt(tt.query).Limit)
		})
	}
}

func TestParse_Merchant(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  string
	}{
		{"known brand", "show me amazon purchases", "amazon"},
		{"brand beats later patterns", "Amazon charges from Walmart at Target", "amazon"},
		{"from pattern", "transactions from bodega", "bodega"},
		{"at pattern", "charges at cornerstore", "cornerstore"},
		{"at-sign pattern", "what did I spend @ luigis", "luigis"},
		{"suffix pattern", "bodega charges", "bodega"},
		{"spent at pattern", "what I spent at flowershop", "flowershop"},
		{"stop word rejected", "transactions from last month", ""},
		{"numeric rejected", "charges from 12345", ""},
		{"stop word before suffix rejected", "list the transactions", ""},
		{"no merchant", "purchases please", ""},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, parseAt(tt.query).Merchant)
		})
	}
}

func TestParse_MerchantCaseIdempotent(t *testing.T) {
	queries := []string{
		"last 3 Amazon charges",
		"transactions from Bodega",
		"what I spent at FlowerShop",
	}
	for _, q := range queries {
		assert.Equal(t, parseAt(q).Merchant, parseAt(strings.ToUpper(q)).Merchant, q)
	}
}

func TestParse_DateRanges(t *testing.T) {
	tests := []struct {
		name       string
		query      string
		start, end string
	}{
		{"this month", "spending this month", "2026-08-01", "2026-08-15"},
		{"last month", "spending last month", "2026-07-01", "2026-07-31"},
		{"this week sunday aligned", "spending this week", "2026-08-09", "2026-08-15"},
		{"this month wins over this week", "this month and this week", "2026-08-01", "2026-08-15"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := parseAt(tt.query)
			require.NotNil(t, f.Dates)
			assert.Equal(t, tt.start, f.Dates.Start)
			assert.Equal(t, tt.end, f.Dates.End)
		})
	}
}

func TestParse_DateRangeMonthBoundaries(t *testing.T) {
	// Last month resolved from a January today crosses the year.
	jan := time.Date(2026, time.January, 10, 0, 0, 0, 0, time.UTC)
	f := Parse("last month", WithToday(jan))
	require.NotNil(t, f.Dates)
	assert.Equal(t, "2025-12-01", f.Dates.Start)
	assert.Equal(t, "2025-12-31", f.Dates.End)
}

func TestParse_AmountRanges(t *testing.T) {
	f := parseAt("transactions over $1,234.56")
	require.NotNil(t, f.Amount)
	require.NotNil(t, f.Amount.Min)
	assert.Nil(t, f.Amount.Max)
	assert.InDelta(t, 1234.56, *f.Amount.Min, 0.001)

	f = parseAt("transactions under 75")
	require.NotNil(t, f.Amount)
	require.NotNil(t, f.Amount.Max)
	assert.Nil(t, f.Amount.Min)
	assert.InDelta(t, 75, *f.Amount.Max, 0.001)

	f = parseAt("transactions exactly $50")
	require.NotNil(t, f.Amount)
	require.NotNil(t, f.Amount.Min)
	require.NotNil(t, f.Amount.Max)
	assert.InDelta(t, 49.5, *f.Amount.Min, 0.1)
	assert.InDelta(t, 50.5, *f.Amount.Max, 0.1)
}

func TestParse_AmountPrecedence(t *testing.T) {
	// over, under, exactly evaluate in source order; the last match
	// replaces any earlier range wholesale.
	f := parseAt("over $50 but under $100")
	require.NotNil(t, f.Amount)
	assert.Nil(t, f.Amount.Min)
	require.NotNil(t, f.Amount.Max)
	assert.InDelta(t, 100, *f.Amount.Max, 0.001)

	f = parseAt("over $50 exactly $20")
	require.NotNil(t, f.Amount)
	require.NotNil(t, f.Amount.Min)
	require.NotNil(t, f.Amount.Max)
	assert.InDelta(t, 19.8, *f.Amount.Min, 0.01)
	assert.InDelta(t, 20.2, *f.Amount.Max, 0.01)
}

func TestParse_Sort(t *testing.T) {
	assert.Equal(t, SortLargest, parseAt("largest charges").Sort)
	assert.Equal(t, SortLargest, parseAt("biggest purchases").Sort)
	assert.Equal(t, SortLargest, parseAt("highest spending").Sort)
	assert.Equal(t, SortSmallest, parseAt("smallest charges").Sort)
	assert.Equal(t, SortSmallest, parseAt("lowest payments").Sort)
	assert.Equal(t, SortNone, parseAt("recent charges").Sort)
}

func TestParse_Empty(t *testing.T) {
	f := parseAt("")
	assert.Equal(t, DefaultLimit, f.Limit)
	assert.Empty(t, f.Merchant)
	assert.Nil(t, f.Dates)
	assert.Nil(t, f.Amount)
	assert.Equal(t, SortNone, f.Sort)
}

func TestParse_AdversarialInputNeverPanics(t *testing.T) {
	inputs := []string{
		"",
		"   ",
		"!!! ??? ...",
		"last -5",
		"over $",
		"((([[[***",
		"\\b(\\d+)\\b",
		strings.Repeat("a", 100000),
		"over $99999999999999999999999999999999999999",
	}
	for _, q := range inputs {
		assert.NotPanics(t, func() {
			f := parseAt(q)
			assert.Positive(t, f.Limit)
		}, "query %q", q)
	}
}

func TestParse_CombinedScenario(t *testing.T) {
	f := parseAt("last 3 Amazon charges")
	assert.Equal(t, 3, f.Limit)
	assert.Equal(t, "amazon", f.Merchant)

	f = parseAt("spending over $100 this month")
	require.NotNil(t, f.Amount)
	require.NotNil(t, f.Amount.Min)
	assert.InDelta(t, 100, *f.Amount.Min, 0.001)
	require.NotNil(t, f.Dates)
	assert.Equal(t, "2026-08-01", f.Dates.Start)
}

func TestParse_BaseFilterMerge(t *testing.T) {
	min := 20.0
	base := Filter{
		Limit:    40,
		Merchant: "costco",
		Amount:   &AmountRange{Min: &min},
	}

	// Fields the query does not mention are preserved.
	f := Parse("this month", WithToday(testToday), WithBase(base))
	assert.Equal(t, 40, f.Limit)
	assert.Equal(t, "costco", f.Merchant)
	require.NotNil(t, f.Amount)
	assert.Equal(t, &min, f.Amount.Min)
	require.NotNil(t, f.Dates)

	// Explicit parse results win over pre-existing values.
	f = Parse("last 5 starbucks charges under $10", WithToday(testToday), WithBase(base))
	assert.Equal(t, 5, f.Limit)
	assert.Equal(t, "starbucks", f.Merchant)
	require.NotNil(t, f.Amount)
	assert.Nil(t, f.Amount.Min)
	require.NotNil(t, f.Amount.Max)
}

func TestParse_Deterministic(t *testing.T) {
	q := "last 7 amazon charges over $25 this month, largest first"
	want := parseAt(q)
	for i := 0; i < 10; i++ {
		assert.Equal(t, want, parseAt(q))
	}
}

func TestFilter_FetchArgs(t *testing.T) {
	f := parseAt("last 3 amazon charges over $20 this month, largest first")
	args := f.FetchArgs()
	assert.Equal(t, 3, args.Limit)
	assert.Equal(t, "amazon", args.Search)
	assert.Equal(t, "2026-08-01", args.StartDate)
	assert.Equal(t, "2026-08-15", args.EndDate)
	require.NotNil(t, args.AbsAmountRange[0])
	assert.InDelta(t, 20, *args.AbsAmountRange[0], 0.001)
	assert.Nil(t, args.AbsAmountRange[1])
	assert.Equal(t, "desc", args.Sort)
}

func TestParse_LimitPropertyRange(t *testing.T) {
	for n := 1; n <= 100; n += 9 {
		q := fmt.Sprintf("last %d transactions", n)
		assert.Equal(t, n, parseAt(q).Limit, q)
	}
	for _, n := range []int{101, 500, 100000} {
		q := fmt.Sprintf("last %d transactions", n)
		assert.Equal(t, DefaultLimit, parseAt(q).Limit, q)
	}
}
