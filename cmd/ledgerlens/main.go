package main

import (
	"context"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/ledgerlens/ledgerlens/internal/finance/static"
	"github.com/ledgerlens/ledgerlens/internal/history"
	"github.com/ledgerlens/ledgerlens/internal/logger"
	"github.com/ledgerlens/ledgerlens/internal/server"
)

/*
ENV
----
ADDR                          (default :8080)
LEDGERLENS_DATA_DIR           (default data) fixture dataset root
LEDGERLENS_DATASET            (default demo)
LEDGERLENS_MAX_RESPONSE_BYTES (default 6000) auto-verbosity budget
DATABASE_URL                  (optional) enables the invocation audit log
LOG_LEVEL                     (default info)
LOG_PRETTY                    (default false)
*/

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func main() {
	_ = godotenv.Load()
	log := logger.New(getenv("LOG_LEVEL", "info"), os.Getenv("LOG_PRETTY") == "true")
	ctx := context.Background()

	dataDir := getenv("LEDGERLENS_DATA_DIR", "data")
	dataset := getenv("LEDGERLENS_DATASET", "demo")
	provider := static.New(dataDir, dataset)
	log.Info().Str("data_dir", dataDir).Str("dataset", dataset).
		Strs("available", static.Datasets(dataDir)).Msg("fixture provider")

	var store *history.Store
	if dbURL := os.Getenv("DATABASE_URL"); dbURL != "" {
		var err error
		store, err = history.Open(ctx, dbURL)
		if err != nil {
			log.Fatal().Err(err).Msg("open history store")
		}
		defer store.Close()
		log.Info().Msg("invocation history enabled")
	}

	maxBytes, _ := strconv.Atoi(os.Getenv("LEDGERLENS_MAX_RESPONSE_BYTES"))
	mcp := server.New(server.Config{Provider: provider, MaxResponseBytes: maxBytes}, log, store)

	streamable := mcpserver.NewStreamableHTTPServer(mcp,
		mcpserver.WithEndpointPath("/mcp"),
	)

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(secureHeaders)
	r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("health ok"))
	})
	r.Handle("/mcp", streamable)
	r.Handle("/mcp/*", streamable)

	addr := getenv("ADDR", ":8080")
	srv := &http.Server{
		Addr:              addr,
		ReadHeaderTimeout: 3 * time.Second,
		Handler:           r,
		IdleTimeout:       65 * time.Second,
	}
	log.Info().Str("addr", addr).Msg("listening")
	if err := srv.ListenAndServe(); err != nil {
		log.Fatal().Err(err).Msg("server")
	}
}

func secureHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Content-Security-Policy", "default-src 'self'")
		next.ServeHTTP(w, r)
	})
}
