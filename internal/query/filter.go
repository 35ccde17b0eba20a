// Package query turns free-text instructions like "last 3 amazon
// charges over $20 this month" into a structured Filter that a
// finance.Provider can act on. Parsing is a pure function of the
// input string and an injectable "today"; it never fails.
package query

import "github.com/ledgerlens/ledgerlens/internal/finance"

// DefaultLimit is applied when a query names no quantity.
const DefaultLimit = 25

// MaxLimit bounds deliberate quantity requests. Larger numbers are
// treated as not-a-limit rather than clamped.
const MaxLimit = 100

// SortDirection orders records by the magnitude of their amount.
type SortDirection string

const (
	SortNone     SortDirection = ""
	SortLargest  SortDirection = "desc"
	SortSmallest SortDirection = "asc"
)

// DateRange is an inclusive ISO calendar-date window.
type DateRange struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// AmountRange bounds the absolute value of a transaction amount.
// Nil means unbounded on that side.
type AmountRange struct {
	Min *float64 `json:"min"`
	Max *float64 `json:"max"`
}

// Filter is the structured form of a parsed query. The zero value of
// Merchant, Dates, Amount and Sort means "not specified"; Limit is
// always populated after Parse.
type Filter struct {
	Limit    int           `json:"limit"`
	Merchant string        `json:"merchantTerm,omitempty"`
	Dates    *DateRange    `json:"dateRange,omitempty"`
	Amount   *AmountRange  `json:"amountRange,omitempty"`
	Sort     SortDirection `json:"sortDirection,omitempty"`
}

// FetchArgs converts the filter to the collaborator-facing argument
// shape (limit, search, startDate, endDate, absAmountRange, sort).
func (f Filter) FetchArgs() finance.FetchArgs {
	args := finance.FetchArgs{
		Limit:  f.Limit,
		Search: f.Merchant,
		Sort:   string(f.Sort),
	}
	if f.Dates != nil {
		args.StartDate = f.Dates.Start
		args.EndDate = f.Dates.End
	}
	if f.Amount != nil {
		args.AbsAmountRange = [2]*float64{f.Amount.Min, f.Amount.Max}
	}
	return args
}
