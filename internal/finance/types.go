// Package finance defines the typed record model shared between the
// query extractor, the response formatter, and whatever Provider
// supplies the data. Providers own authentication, retries, and
// network error handling; nothing in this package performs I/O.
package finance

import "context"

// Kind identifies which record family a RecordSet carries.
type Kind string

const (
	KindTransactions Kind = "transactions"
	KindAccounts     Kind = "accounts"
	KindBudgets      Kind = "budgets"
	KindCategories   Kind = "categories"
)

// Transaction is a single dated money movement. Amount keeps the
// provider's sign convention (expenses negative, income positive).
type Transaction struct {
	ID       string  `json:"id,omitempty"`
	Merchant string  `json:"merchant"`
	Amount   float64 `json:"amount"`
	Date     string  `json:"date"` // ISO calendar date, YYYY-MM-DD
	Category string  `json:"category,omitempty"`
	Account  string  `json:"account,omitempty"`
	Notes    string  `json:"notes,omitempty"`
	Pending  bool    `json:"pending,omitempty"`
}

// Account is a balance-carrying account at an institution.
type Account struct {
	ID          string  `json:"id,omitempty"`
	Name        string  `json:"name"`
	Type        string  `json:"type,omitempty"`
	Institution string  `json:"institution,omitempty"`
	Balance     float64 `json:"balance"`
	UpdatedAt   string  `json:"updatedAt,omitempty"`
}

// Budget is one category's budgeted-versus-actual row for a period.
type Budget struct {
	ID       string  `json:"id,omitempty"`
	Category string  `json:"category"`
	Budgeted float64 `json:"budgeted"`
	Spent    float64 `json:"spent"`
	Period   string  `json:"period,omitempty"` // YYYY-MM
}

// Category is a transaction category within a group.
type Category struct {
	ID    string `json:"id,omitempty"`
	Name  string `json:"name"`
	Group string `json:"group,omitempty"`
}

// RecordSet is an ordered, typed result set. Exactly one of the
// slices is populated, selected by Kind. Sorted is true when an
// explicit magnitude sort was applied upstream, which the formatter
// signals by rank-numbering the rendered records.
type RecordSet struct {
	Kind         Kind
	Transactions []Transaction
	Accounts     []Account
	Budgets      []Budget
	Categories   []Category
	Sorted       bool
}

// Len reports the number of records for the set's kind.
func (rs RecordSet) Len() int {
	switch rs.Kind {
	case KindTransactions:
		return len(rs.Transactions)
	case KindAccounts:
		return len(rs.Accounts)
	case KindBudgets:
		return len(rs.Budgets)
	case KindCategories:
		return len(rs.Categories)
	}
	return 0
}

// FetchArgs is the collaborator-facing shape of a parsed filter.
// Field names follow the upstream fetch contract: limit, search,
// startDate, endDate, absAmountRange, sort.
type FetchArgs struct {
	Limit          int         `json:"limit"`
	Search         string      `json:"search,omitempty"`
	StartDate      string      `json:"startDate,omitempty"`
	EndDate        string      `json:"endDate,omitempty"`
	AbsAmountRange [2]*float64 `json:"absAmountRange,omitempty"`
	Sort           string      `json:"sort,omitempty"` // "", "desc", "asc"; by |amount|
}

// TransactionPage is a paginated transaction result. Total is the
// match count before the limit was applied.
type TransactionPage struct {
	Records []Transaction `json:"records"`
	Total   int           `json:"total"`
}

// Provider fetches records for one user of a finance data source.
// Implementations own credentials, base URLs, timeouts, and retry
// policy; callers treat any returned error as opaque.
type Provider interface {
	Transactions(ctx context.Context, args FetchArgs) (TransactionPage, error)
	Accounts(ctx context.Context) ([]Account, error)
	Budgets(ctx context.Context, startDate, endDate string) ([]Budget, error)
	Categories(ctx context.Context) ([]Category, error)
}
