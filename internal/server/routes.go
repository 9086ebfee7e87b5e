package server

import (
	"net/http"
	"runtime"
	"time"

	"github.com/SynTaxOp/Stonks/internal/common"
	"github.com/SynTaxOp/Stonks/internal/services/dashboard"
)

// registerRoutes sets up all REST API routes on the mux.
func (s *Server) registerRoutes(mux *http.ServeMux) {
	// System
	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc("/api/version", s.handleVersion)
	mux.HandleFunc("/api/shutdown", s.handleShutdown)

	// Users: holdings, transactions, dashboards
	mux.HandleFunc("/api/users/", s.routeUsers)

	// Transactions
	mux.HandleFunc("/api/transactions", s.handleTransactionCreate)
	mux.HandleFunc("/api/transactions/bulk", s.handleTransactionBulk)
	mux.HandleFunc("/api/transactions/", s.routeTransaction)

	// SIPs
	mux.HandleFunc("/api/sips/", s.handleSIPDelete)

	// Market data
	mux.HandleFunc("/api/funds/search", s.handleFundSearch)
	mux.HandleFunc("/api/funds/", s.routeFunds)
	mux.HandleFunc("/api/benchmarks", s.handleBenchmarks)
	mux.HandleFunc("/api/quotes", s.handleQuotes)
}

// handleHealth handles GET /api/health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet, http.MethodHead) {
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleVersion handles GET /api/version.
func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet, http.MethodHead) {
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{
		"version": common.Version,
		"go":      runtime.Version(),
		"uptime":  time.Since(s.app.StartupTime).Round(time.Second).String(),
	})
}

// handleShutdown handles POST /api/shutdown (dev mode only).
func (s *Server) handleShutdown(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	if s.app.Config.IsProduction() {
		WriteError(w, http.StatusForbidden, "Shutdown endpoint disabled in production")
		return
	}

	s.logger.Info().Msg("Shutdown requested via HTTP endpoint")

	w.WriteHeader(http.StatusOK)
	w.Write([]byte("Shutting down gracefully...\n"))

	if flusher, ok := w.(http.Flusher); ok {
		flusher.Flush()
	}

	if s.shutdownChan != nil {
		go func() {
			time.Sleep(100 * time.Millisecond)
			s.shutdownChan <- struct{}{}
		}()
	}
}

// handleQuotes handles GET /api/quotes.
func (s *Server) handleQuotes(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	WriteJSON(w, http.StatusOK, dashboard.Quotes())
}
