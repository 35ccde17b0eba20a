// Package server assembles the MCP server: the hand-maintained tool
// registry, the observation middleware, and the server instructions.
package server

import (
	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog"

	"github.com/ledgerlens/ledgerlens/internal/history"
)

const (
	Name    = "ledgerlens"
	Version = "0.2.0"
)

const instructions = `A personal-finance MCP server. It exposes the user's connected
finance data (transactions, accounts, budgets, categories) as tools that return
compact text summaries sized for a model's context window.

Pass natural language straight through in the "query" argument of fetch_transactions:
quantities ("last 5"), merchant names, relative dates ("this month"), amount bounds
("over $100") and magnitude sorts ("largest") are understood. Unparseable queries
degrade to sensible defaults rather than failing.

Only actual data from the connected source is returned; the server never estimates
or generates financial figures.`

// New builds the MCP server with every registry tool attached. The
// history store may be nil.
func New(cfg Config, log zerolog.Logger, store *history.Store) *mcpserver.MCPServer {
	s := mcpserver.NewMCPServer(
		Name,
		Version,
		mcpserver.WithInstructions(instructions),
		mcpserver.WithToolCapabilities(false),
		mcpserver.WithLogging(),
		mcpserver.WithToolHandlerMiddleware(Observe(log, store)),
	)
	for _, t := range Registry(cfg) {
		s.AddTool(t.Def, t.Handler)
	}
	return s
}
