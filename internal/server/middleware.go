package server

import (
	"context"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog"

	"github.com/ledgerlens/ledgerlens/internal/history"
)

// Observe wraps every tool handler with structured logging and,
// when a store is configured, an invocation audit row. Recording
// failures are logged and swallowed; they never affect the call.
func Observe(log zerolog.Logger, store *history.Store) mcpserver.ToolHandlerMiddleware {
	return func(next mcpserver.ToolHandlerFunc) mcpserver.ToolHandlerFunc {
		return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			start := time.Now()
			res, err := next(ctx, req)
			elapsed := time.Since(start)

			size := resultSize(res)
			var evt *zerolog.Event
			if err != nil {
				evt = log.Error().Err(err)
			} else {
				evt = log.Info().Int("result_bytes", size)
			}
			evt.Str("tool", req.Params.Name).Dur("duration", elapsed).Msg("tool call")

			if store != nil {
				inv := history.Invocation{
					SessionID:   sessionID(ctx),
					ToolName:    req.Params.Name,
					Args:        req.GetArguments(),
					ResultBytes: size,
					Duration:    elapsed,
				}
				if err != nil {
					inv.Err = err.Error()
				}
				if saveErr := store.Save(ctx, inv); saveErr != nil {
					log.Warn().Err(saveErr).Msg("record invocation")
				}
			}
			return res, err
		}
	}
}

func sessionID(ctx context.Context) string {
	if session := mcpserver.ClientSessionFromContext(ctx); session != nil {
		return session.SessionID()
	}
	return ""
}

func resultSize(res *mcp.CallToolResult) int {
	if res == nil {
		return 0
	}
	var out []string
	for _, c := range res.Content {
		if tc, ok := mcp.AsTextContent(c); ok {
			out = append(out, tc.Text)
		}
	}
	return len(strings.Join(out, "\n"))
}
