// Package format renders typed record sets as compact text at a
// chosen verbosity. Formatting never fails: missing fields degrade
// to placeholders and an empty set degrades to a short message —
// except transactions, where formatting zero transactions returns
// the empty string. That asymmetry is a documented compatibility
// contract, not an oversight; see the package tests.
package format

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/ledgerlens/ledgerlens/internal/finance"
)

// Verbosity selects output density.
type Verbosity int

const (
	// Brief is a single line: tag, count, one aggregate.
	Brief Verbosity = iota
	// Summary is the default: capped record list plus aggregate.
	Summary
	// Detailed is the full list with identifiers and notes.
	Detailed
)

func (v Verbosity) String() string {
	switch v {
	case Brief:
		return "brief"
	case Detailed:
		return "detailed"
	}
	return "summary"
}

// ParseVerbosity accepts both the public names and their historical
// aliases (ultra-light/light/standard).
func ParseVerbosity(s string) (Verbosity, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "brief", "ultra-light", "ultralight":
		return Brief, true
	case "summary", "light":
		return Summary, true
	case "detailed", "standard":
		return Detailed, true
	}
	return Summary, false
}

// Display caps for Summary mode, per record kind. Detailed shows
// everything.
const (
	summaryTransactionCap = 15
	summaryAccountCap     = 20
	summaryBudgetCap      = 15
	summaryCategoryCap    = 20
)

// Records renders a record set at the given verbosity. When
// originalQuery is non-empty the output is prefixed with a one-line
// annotation quoting it. The result is never an error; the only
// empty output is the zero-transactions case.
func Records(set finance.RecordSet, v Verbosity, originalQuery string) string {
	var body string
	switch set.Kind {
	case finance.KindTransactions:
		body = transactions(set, v)
	case finance.KindAccounts:
		body = accounts(set, v)
	case finance.KindBudgets:
		body = budgets(set, v)
	case finance.KindCategories:
		body = categories(set, v)
	}
	if body == "" {
		return ""
	}
	if originalQuery != "" {
		return fmt.Sprintf("Query: %q\n%s", originalQuery, body)
	}
	return body
}

func transactions(set finance.RecordSet, v Verbosity) string {
	txns := set.Transactions
	if len(txns) == 0 {
		// Historical contract: zero transactions format to "".
		return ""
	}

	var volume float64
	for _, t := range txns {
		volume += math.Abs(t.Amount)
	}
	if v == Brief {
		return fmt.Sprintf("💳 %d transactions · total volume %s", len(txns), money(volume))
	}

	shown := len(txns)
	if v == Summary && shown > summaryTransactionCap {
		shown = summaryTransactionCap
	}

	var b strings.Builder
	fmt.Fprintf(&b, "💳 %d transactions\n", len(txns))
	for i, t := range txns[:shown] {
		fmt.Fprintf(&b, "%s%s — %s on %s (%s)\n",
			rankPrefix(set.Sorted, i),
			orElse(t.Merchant, "Unknown"),
			money(t.Amount),
			orElse(t.Date, "Unknown"),
			orElse(t.Category, "Uncategorized"))
		if t.Account != "" {
			fmt.Fprintf(&b, "   Account: %s\n", t.Account)
		}
		if v == Detailed {
			if t.ID != "" {
				fmt.Fprintf(&b, "   ID: %s\n", t.ID)
			}
			if t.Notes != "" {
				fmt.Fprintf(&b, "   Notes: %s\n", t.Notes)
			}
			if t.Pending {
				b.WriteString("   Pending\n")
			}
		}
	}
	if rest := len(txns) - shown; rest > 0 {
		fmt.Fprintf(&b, "...and %d more\n", rest)
	}
	fmt.Fprintf(&b, "Total volume: %s", money(volume))
	return b.String()
}

func accounts(set finance.RecordSet, v Verbosity) string {
	accts := set.Accounts
	var total float64
	for _, a := range accts {
		total += a.Balance
	}
	if v == Brief {
		return fmt.Sprintf("🏦 %d accounts · total balance %s", len(accts), money(total))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "🏦 %d accounts\n", len(accts))
	if len(accts) == 0 {
		b.WriteString("No accounts found.\n")
	}
	shown := len(accts)
	if v == Summary && shown > summaryAccountCap {
		shown = summaryAccountCap
	}
	for i, a := range accts[:shown] {
		fmt.Fprintf(&b, "%s%s — %s\n", rankPrefix(set.Sorted, i), orElse(a.Name, "Unknown"), money(a.Balance))
		if a.Institution != "" || a.Type != "" {
			fmt.Fprintf(&b, "   %s (%s)\n", orElse(a.Institution, "Unknown"), orElse(a.Type, "other"))
		}
		if v == Detailed {
			if a.ID != "" {
				fmt.Fprintf(&b, "   ID: %s\n", a.ID)
			}
			if a.UpdatedAt != "" {
				fmt.Fprintf(&b, "   Updated: %s\n", a.UpdatedAt)
			}
		}
	}
	if rest := len(accts) - shown; rest > 0 {
		fmt.Fprintf(&b, "...and %d more\n", rest)
	}
	fmt.Fprintf(&b, "Total balance: %s", money(total))
	return b.String()
}

func budgets(set finance.RecordSet, v Verbosity) string {
	rows := set.Budgets
	var budgeted, spent float64
	for _, r := range rows {
		budgeted += r.Budgeted
		spent += r.Spent
	}
	if v == Brief {
		return fmt.Sprintf("📊 %d budgets · %s budgeted / %s spent", len(rows), money(budgeted), money(spent))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "📊 %d budgets\n", len(rows))
	if len(rows) == 0 {
		b.WriteString("No budgets found.\n")
	}
	shown := len(rows)
	if v == Summary && shown > summaryBudgetCap {
		shown = summaryBudgetCap
	}
	for i, r := range rows[:shown] {
		fmt.Fprintf(&b, "%s%s: %s of %s (%s used)\n",
			rankPrefix(set.Sorted, i),
			orElse(r.Category, "Uncategorized"),
			money(r.Spent), money(r.Budgeted),
			percent(r.Spent, r.Budgeted))
		if v == Detailed {
			fmt.Fprintf(&b, "   Remaining: %s\n", money(r.Budgeted-r.Spent))
			if r.Period != "" {
				fmt.Fprintf(&b, "   Period: %s\n", r.Period)
			}
			if r.ID != "" {
				fmt.Fprintf(&b, "   ID: %s\n", r.ID)
			}
		}
	}
	if rest := len(rows) - shown; rest > 0 {
		fmt.Fprintf(&b, "...and %d more\n", rest)
	}
	fmt.Fprintf(&b, "Total: %s budgeted, %s spent (%s)", money(budgeted), money(spent), percent(spent, budgeted))
	return b.String()
}

func categories(set finance.RecordSet, v Verbosity) string {
	cats := set.Categories
	groups := map[string]struct{}{}
	for _, c := range cats {
		groups[orElse(c.Group, "Other")] = struct{}{}
	}
	if v == Brief {
		return fmt.Sprintf("🏷️ %d categories · %d groups", len(cats), len(groups))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "🏷️ %d categories\n", len(cats))
	if len(cats) == 0 {
		b.WriteString("No categories found.\n")
	}
	shown := len(cats)
	if v == Summary && shown > summaryCategoryCap {
		shown = summaryCategoryCap
	}
	for i, c := range cats[:shown] {
		fmt.Fprintf(&b, "%s%s (%s)\n", rankPrefix(set.Sorted, i), orElse(c.Name, "Uncategorized"), orElse(c.Group, "Other"))
		if v == Detailed && c.ID != "" {
			fmt.Fprintf(&b, "   ID: %s\n", c.ID)
		}
	}
	if rest := len(cats) - shown; rest > 0 {
		fmt.Fprintf(&b, "...and %d more\n", rest)
	}
	fmt.Fprintf(&b, "%d groups", len(groups))
	return b.String()
}

// rankPrefix numbers records when an explicit sort was requested
// upstream, signalling ranking intent; otherwise bullets.
func rankPrefix(sorted bool, i int) string {
	if sorted {
		return fmt.Sprintf("%d. ", i+1)
	}
	return "- "
}

func orElse(s, placeholder string) string {
	if strings.TrimSpace(s) == "" {
		return placeholder
	}
	return s
}

// percent is spent/budgeted × 100, defined as 0 when budgeted is 0.
func percent(spent, budgeted float64) string {
	if budgeted == 0 {
		return "0.0%"
	}
	return fmt.Sprintf("%.1f%%", spent/budgeted*100)
}

// money renders a dollar figure with thousands separators, e.g.
// -1234.5 → "-$1,234.50".
func money(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		v = 0
	}
	sign := ""
	if v < 0 {
		sign = "-"
	}
	s := strconv.FormatFloat(math.Abs(v), 'f', 2, 64)
	dot := strings.Index(s, ".")
	intPart, frac := s[:dot], s[dot:]
	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	return sign + "$" + b.String() + frac
}
