package server

import (
	"context"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/ledgerlens/ledgerlens/internal/finance"
	"github.com/ledgerlens/ledgerlens/internal/format"
	"github.com/ledgerlens/ledgerlens/internal/query"
)

// Tool pairs a tool definition with its handler. The registry is
// hand-maintained: every operation the server exposes is listed
// here, with a typed handler closure — there is no reflection over
// the provider.
type Tool struct {
	Def     mcp.Tool
	Handler mcpserver.ToolHandlerFunc
}

// Config wires the registry's collaborators.
type Config struct {
	Provider finance.Provider
	// MaxResponseBytes drives automatic verbosity selection when the
	// caller does not pass an explicit verbosity.
	MaxResponseBytes int
	// Now is injectable for deterministic relative-date parsing.
	// Defaults to time.Now.
	Now func() time.Time
}

// DefaultMaxResponseBytes is the response budget used when Config
// leaves it zero.
const DefaultMaxResponseBytes = 6000

type handlers struct {
	cfg Config
}

// Registry returns all tools the server exposes.
func Registry(cfg Config) []Tool {
	if cfg.MaxResponseBytes <= 0 {
		cfg.MaxResponseBytes = DefaultMaxResponseBytes
	}
	h := &handlers{cfg: cfg}
	return []Tool{
		{
			Def: mcp.NewTool("fetch_transactions",
				mcp.WithDescription("Fetch transactions matching a free-text query. The query understands quantities (\"last 5\"), merchant names, relative dates (\"this month\", \"last month\", \"this week\"), amount bounds (\"over $100\", \"under $20\", \"exactly $50\") and magnitude sorts (\"largest\", \"smallest\"). Returns a compact text summary."),
				mcp.WithString("query", mcp.Description("Free-text filter, e.g. \"last 3 amazon charges over $20 this month\"")),
				mcp.WithNumber("limit", mcp.Description("Override the parsed record limit (1-100)")),
				mcp.WithString("verbosity", mcp.Description("Output density; omitted means size-driven selection"), mcp.Enum("brief", "summary", "detailed")),
			),
			Handler: h.fetchTransactions,
		},
		{
			Def: mcp.NewTool("fetch_accounts",
				mcp.WithDescription("Fetch all accounts with balances, types and institutions, summarized as text."),
				mcp.WithString("verbosity", mcp.Description("Output density; omitted means size-driven selection"), mcp.Enum("brief", "summary", "detailed")),
			),
			Handler: h.fetchAccounts,
		},
		{
			Def: mcp.NewTool("fetch_budgets",
				mcp.WithDescription("Fetch budget rows (budgeted vs. spent per category) for an optional date window, summarized as text with percentage used."),
				mcp.WithString("start_date", mcp.Description("ISO start date (YYYY-MM-DD)")),
				mcp.WithString("end_date", mcp.Description("ISO end date (YYYY-MM-DD)")),
				mcp.WithString("verbosity", mcp.Description("Output density; omitted means size-driven selection"), mcp.Enum("brief", "summary", "detailed")),
			),
			Handler: h.fetchBudgets,
		},
		{
			Def: mcp.NewTool("fetch_categories",
				mcp.WithDescription("Fetch all transaction categories organized by group, summarized as text."),
				mcp.WithString("verbosity", mcp.Description("Output density; omitted means size-driven selection"), mcp.Enum("brief", "summary", "detailed")),
			),
			Handler: h.fetchCategories,
		},
	}
}

// verbosity resolves the explicit verbosity argument, falling back
// to size-driven selection against the response budget.
func (h *handlers) verbosity(req mcp.CallToolRequest, kind finance.Kind, count int) format.Verbosity {
	if v, ok := format.ParseVerbosity(req.GetString("verbosity", "")); ok {
		return v
	}
	return format.ChooseVerbosityFor(kind, count, h.cfg.MaxResponseBytes)
}

func (h *handlers) parseQuery(q string) query.Filter {
	if h.cfg.Now != nil {
		return query.Parse(q, query.WithToday(h.cfg.Now()))
	}
	return query.Parse(q)
}

func (h *handlers) fetchTransactions(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	q := req.GetString("query", "")
	f := h.parseQuery(q)
	if lim := req.GetInt("limit", 0); lim >= 1 && lim <= query.MaxLimit {
		f.Limit = lim
	}

	page, err := h.cfg.Provider.Transactions(ctx, f.FetchArgs())
	if err != nil {
		return mcp.NewToolResultError("fetch transactions: " + err.Error()), nil
	}
	set := finance.RecordSet{
		Kind:         finance.KindTransactions,
		Transactions: page.Records,
		Sorted:       f.Sort != query.SortNone,
	}
	v := h.verbosity(req, set.Kind, set.Len())
	return mcp.NewToolResultText(format.Records(set, v, q)), nil
}

func (h *handlers) fetchAccounts(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	accts, err := h.cfg.Provider.Accounts(ctx)
	if err != nil {
		return mcp.NewToolResultError("fetch accounts: " + err.Error()), nil
	}
	set := finance.RecordSet{Kind: finance.KindAccounts, Accounts: accts}
	v := h.verbosity(req, set.Kind, set.Len())
	return mcp.NewToolResultText(format.Records(set, v, "")), nil
}

func (h *handlers) fetchBudgets(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	start := req.GetString("start_date", "")
	end := req.GetString("end_date", "")
	rows, err := h.cfg.Provider.Budgets(ctx, start, end)
	if err != nil {
		return mcp.NewToolResultError("fetch budgets: " + err.Error()), nil
	}
	set := finance.RecordSet{Kind: finance.KindBudgets, Budgets: rows}
	v := h.verbosity(req, set.Kind, set.Len())
	return mcp.NewToolResultText(format.Records(set, v, "")), nil
}

func (h *handlers) fetchCategories(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cats, err := h.cfg.Provider.Categories(ctx)
	if err != nil {
		return mcp.NewToolResultError("fetch categories: " + err.Error()), nil
	}
	set := finance.RecordSet{Kind: finance.KindCategories, Categories: cats}
	v := h.verbosity(req, set.Kind, set.Len())
	return mcp.NewToolResultText(format.Records(set, v, "")), nil
}
