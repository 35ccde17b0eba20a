// Package static implements finance.Provider from JSON fixture files
// on disk. A dataset is a directory holding one file per record kind
// (transactions.json, accounts.json, budgets.json, categories.json).
// It exists so the server runs and is testable without any real
// finance SDK behind it.
package static

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/samber/lo"

	"github.com/ledgerlens/ledgerlens/internal/finance"
)

// Fixture file names, without the .json suffix.
var FixtureNames = []string{"transactions", "accounts", "budgets", "categories"}

// Provider serves one dataset directory under root.
type Provider struct {
	root    string
	dataset string
}

func New(root, dataset string) *Provider {
	return &Provider{root: root, dataset: dataset}
}

// Datasets lists the dataset directories under root.
func Datasets(root string) []string {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() {
			names = append(names, e.Name())
		}
	}
	return names
}

func (p *Provider) load(name string, v any) error {
	path := filepath.Join(p.root, p.dataset, name+".json")
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read fixture %s: %w", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode fixture %s: %w", path, err)
	}
	return nil
}

// Transactions applies the full FetchArgs semantics locally: search
// match on merchant and category, inclusive date window, inclusive
// abs-amount band, magnitude sort, then limit.
func (p *Provider) Transactions(_ context.Context, args finance.FetchArgs) (finance.TransactionPage, error) {
	var all []finance.Transaction
	if err := p.load("transactions", &all); err != nil {
		return finance.TransactionPage{}, err
	}

	matched := lo.Filter(all, func(t finance.Transaction, _ int) bool {
		return matches(t, args)
	})
	switch args.Sort {
	case "desc":
		sort.SliceStable(matched, func(i, j int) bool {
			return math.Abs(matched[i].Amount) > math.Abs(matched[j].Amount)
		})
	case "asc":
		sort.SliceStable(matched, func(i, j int) bool {
			return math.Abs(matched[i].Amount) < math.Abs(matched[j].Amount)
		})
	}

	total := len(matched)
	if args.Limit > 0 && len(matched) > args.Limit {
		matched = matched[:args.Limit]
	}
	return finance.TransactionPage{Records: matched, Total: total}, nil
}

func matches(t finance.Transaction, args finance.FetchArgs) bool {
	if s := strings.ToLower(args.Search); s != "" {
		if !strings.Contains(strings.ToLower(t.Merchant), s) &&
			!strings.Contains(strings.ToLower(t.Category), s) {
			return false
		}
	}
	// ISO dates compare lexically.
	if args.StartDate != "" && t.Date < args.StartDate {
		return false
	}
	if args.EndDate != "" && (t.Date == "" || t.Date > args.EndDate) {
		return false
	}
	abs := math.Abs(t.Amount)
	if min := args.AbsAmountRange[0]; min != nil && abs < *min {
		return false
	}
	if max := args.AbsAmountRange[1]; max != nil && abs > *max {
		return false
	}
	return true
}

func (p *Provider) Accounts(_ context.Context) ([]finance.Account, error) {
	var all []finance.Account
	if err := p.load("accounts", &all); err != nil {
		return nil, err
	}
	return all, nil
}

// Budgets keeps rows whose period month overlaps the requested
// window. Empty bounds mean unbounded.
func (p *Provider) Budgets(_ context.Context, startDate, endDate string) ([]finance.Budget, error) {
	var all []finance.Budget
	if err := p.load("budgets", &all); err != nil {
		return nil, err
	}
	out := lo.Filter(all, func(b finance.Budget, _ int) bool {
		if b.Period == "" {
			return startDate == "" && endDate == ""
		}
		if startDate != "" && len(startDate) >= 7 && b.Period < startDate[:7] {
			return false
		}
		if endDate != "" && len(endDate) >= 7 && b.Period > endDate[:7] {
			return false
		}
		return true
	})
	return out, nil
}

func (p *Provider) Categories(_ context.Context) ([]finance.Category, error) {
	var all []finance.Category
	if err := p.load("categories", &all); err != nil {
		return nil, err
	}
	return all, nil
}
