// Package mock serves fixed provider payloads so the import pipeline can run without live provider access.
package mock

import (
	"embed"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"
)

//go:embed payloads/*.json
var payloads embed.FS

// Payload returns the embedded sample catalog for a provider.
func Payload(provider string) ([]byte, error) {
	return payloads.ReadFile("payloads/" + provider + ".json")
}

// NewHandler serves GET /<provider> for every embedded payload, plus /health.
func NewHandler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		fmt.Fprintln(w, `{"status":"ok"}`)
	})
	mux.HandleFunc("GET /{provider}", func(w http.ResponseWriter, r *http.Request) {
		data, err := Payload(r.PathValue("provider"))
		if err != nil {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write(data)
	})
	return mux
}

// Start listens on addr and serves the mock handler in the background.
// The listener is bound before Start returns, so callers may fetch immediately.
func Start(addr string) (*http.Server, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("mock server listen on %s: %w", addr, err)
	}

	srv := &http.Server{
		Addr:         ln.Addr().String(),
		Handler:      NewHandler(),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Mock server stopped", "error", err)
		}
	}()

	slog.Info("Mock provider server running", "addr", srv.Addr)
	return srv, nil
}
