package query

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/samber/lo"
)

// Option adjusts parsing. The defaults are time.Now for "today" and
// an empty base filter.
type Option func(*settings)

type settings struct {
	today time.Time
	base  *Filter
}

// WithToday pins the reference date used to resolve relative phrases
// like "this month". Parsing is deterministic given the same today.
func WithToday(t time.Time) Option {
	return func(s *settings) { s.today = t }
}

// WithBase merges parse results into an existing filter. Fields the
// query populates override the base; everything else is preserved.
func WithBase(f Filter) Option {
	return func(s *settings) { s.base = &f }
}

var (
	quantityPhrases = []*regexp.Regexp{
		regexp.MustCompile(`\b(?:last|recent|top|first)\s+(\d+)\b`),
		regexp.MustCompile(`\b(\d+)\s+(?:last|recent|top|largest|biggest|smallest)\b`),
	}

	wordPattern     = regexp.MustCompile(`[a-z0-9']+`)
	prepPattern     = regexp.MustCompile(`(?:\b(?:from|at)\s+|@\s*)([a-z0-9][a-z0-9&'.-]*)`)
	suffixPattern   = regexp.MustCompile(`\b([a-z0-9][a-z0-9&'.-]*)\s+(?:charges|payments|transactions)\b`)
	spentPattern    = regexp.MustCompile(`\bspent\s+(?:at|on)\s+([a-z0-9][a-z0-9&'.-]*)`)
	numericOnly     = regexp.MustCompile(`^[0-9.,]+$`)
	allWordPattern  = regexp.MustCompile(`\ball\b`)
	amountFigure    = `\$?\s*([0-9][0-9,]*(?:\.[0-9]+)?)`
	overPattern     = regexp.MustCompile(`\b(?:over|above|more than)\s+` + amountFigure)
	underPattern    = regexp.MustCompile(`\b(?:under|below|less than)\s+` + amountFigure)
	exactPattern    = regexp.MustCompile(`\b(?:exactly|equal to)\s+` + amountFigure)
)

// knownMerchants are brand names matched as whole words before any
// positional pattern is tried. Earliest occurrence in the query wins.
var knownMerchants = []string{
	"amazon", "walmart", "target", "costco", "starbucks", "netflix",
	"spotify", "hulu", "uber", "lyft", "doordash", "grubhub",
	"chipotle", "mcdonalds", "apple", "google", "microsoft", "venmo",
	"paypal", "airbnb", "walgreens", "cvs", "kroger", "safeway",
	"shell", "chevron",
}

// stopWords are tokens a positional pattern may capture that are
// never merchant names.
var stopWords = []string{
	"the", "and", "or", "this", "that", "month", "week", "year", "day",
	"last", "recent", "charges", "transactions", "all", "my", "of",
	"top", "first", "largest", "biggest", "smallest", "highest", "lowest",
}

// Parse extracts a structured Filter from free text. It never fails:
// unrecognized input degrades to a default filter with Limit set.
func Parse(q string, opts ...Option) Filter {
	cfg := settings{today: time.Now()}
	for _, opt := range opts {
		opt(&cfg)
	}

	var out Filter
	if cfg.base != nil {
		out = *cfg.base
	}
	lower := strings.ToLower(q)

	limit, limitSet := extractLimit(lower)
	if m := extractMerchant(lower); m != "" {
		out.Merchant = m
	}
	if dr := extractDateRange(lower, cfg.today); dr != nil {
		out.Dates = dr
	}
	if ar := extractAmountRange(lower); ar != nil {
		out.Amount = ar
	}
	if s := extractSort(lower); s != SortNone {
		out.Sort = s
	}

	switch {
	case limitSet:
		out.Limit = limit
	case out.Limit > 0:
		// preserved from the base filter
	case allWordPattern.MatchString(lower):
		out.Limit = MaxLimit
	default:
		out.Limit = DefaultLimit
	}
	return out
}

// extractLimit finds an explicit quantity. Values outside [1,100] are
// treated as not-a-limit, not clamped.
func extractLimit(lower string) (int, bool) {
	for _, re := range quantityPhrases {
		m := re.FindStringSubmatch(lower)
		if m == nil {
			continue
		}
		n, err := strconv.Atoi(m[1])
		if err != nil || n < 1 || n > MaxLimit {
			return 0, false
		}
		return n, true
	}
	return 0, false
}

func extractMerchant(lower string) string {
	for _, w := range wordPattern.FindAllString(lower, -1) {
		if lo.Contains(knownMerchants, w) {
			return w
		}
	}
	for _, re := range []*regexp.Regexp{prepPattern, suffixPattern, spentPattern} {
		m := re.FindStringSubmatch(lower)
		if m == nil {
			continue
		}
		if c := cleanMerchant(m[1]); c != "" {
			return c
		}
	}
	return ""
}

func cleanMerchant(raw string) string {
	c := strings.Trim(strings.TrimSpace(raw), ".'-")
	if c == "" || lo.Contains(stopWords, c) || numericOnly.MatchString(c) {
		return ""
	}
	return c
}

// extractDateRange resolves relative-time phrases against today.
// At most one phrase is honored, in this priority order.
func extractDateRange(lower string, today time.Time) *DateRange {
	switch {
	case strings.Contains(lower, "this month"):
		start := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, today.Location())
		return &DateRange{Start: isoDate(start), End: isoDate(today)}
	case strings.Contains(lower, "last month"):
		firstOfThis := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, today.Location())
		end := firstOfThis.AddDate(0, 0, -1)
		start := time.Date(end.Year(), end.Month(), 1, 0, 0, 0, 0, today.Location())
		return &DateRange{Start: isoDate(start), End: isoDate(end)}
	case strings.Contains(lower, "this week"):
		// Sunday-aligned week start.
		start := today.AddDate(0, 0, -int(today.Weekday()))
		return &DateRange{Start: isoDate(start), End: isoDate(today)}
	}
	return nil
}

// extractAmountRange evaluates over, under, and exactly in that
// order; each successful match replaces the previous range.
func extractAmountRange(lower string) *AmountRange {
	var out *AmountRange
	if v, ok := matchAmount(overPattern, lower); ok {
		out = &AmountRange{Min: &v}
	}
	if v, ok := matchAmount(underPattern, lower); ok {
		out = &AmountRange{Max: &v}
	}
	if v, ok := matchAmount(exactPattern, lower); ok {
		// ±1% tolerance band around the exact figure.
		low, high := v*0.99, v*1.01
		out = &AmountRange{Min: &low, Max: &high}
	}
	return out
}

func matchAmount(re *regexp.Regexp, lower string) (float64, bool) {
	m := re.FindStringSubmatch(lower)
	if m == nil {
		return 0, false
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", ""), 64)
	if err != nil || math.IsInf(v, 0) || math.IsNaN(v) {
		return 0, false
	}
	return v, true
}

// extractSort maps superlatives to a magnitude sort. Sorting is by
// absolute value of the signed amount.
func extractSort(lower string) SortDirection {
	switch {
	case strings.Contains(lower, "largest"),
		strings.Contains(lower, "biggest"),
		strings.Contains(lower, "highest"):
		return SortLargest
	case strings.Contains(lower, "smallest"),
		strings.Contains(lower, "lowest"):
		return SortSmallest
	}
	return SortNone
}

func isoDate(t time.Time) string {
	return t.Format("2006-01-02")
}
