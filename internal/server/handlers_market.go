package server

import (
	"net/http"
	"strconv"
	"strings"
)

// handleFundSearch handles GET /api/funds/search?q=...
func (s *Server) handleFundSearch(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	query := r.URL.Query().Get("q")
	if strings.TrimSpace(query) == "" {
		WriteError(w, http.StatusBadRequest, "Query parameter 'q' is required")
		return
	}

	funds, err := s.app.NAVService.SearchFunds(r.Context(), query)
	if err != nil {
		WriteError(w, http.StatusBadGateway, err.Error())
		return
	}
	WriteJSON(w, http.StatusOK, funds)
}

// routeFunds dispatches /api/funds/{code}/nav and /api/funds/{code}/nav/latest.
func (s *Server) routeFunds(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	rest := strings.Trim(strings.TrimPrefix(r.URL.Path, "/api/funds/"), "/")
	parts := strings.Split(rest, "/")
	if len(parts) == 0 || parts[0] == "" {
		WriteError(w, http.StatusNotFound, "Fund scheme code is required")
		return
	}

	schemeCode, err := strconv.Atoi(parts[0])
	if err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid scheme code: "+parts[0])
		return
	}

	switch {
	case len(parts) == 2 && parts[1] == "nav":
		points, err := s.app.FundService.NAVChart(r.Context(), schemeCode)
		if err != nil {
			WriteError(w, http.StatusBadGateway, err.Error())
			return
		}
		WriteJSON(w, http.StatusOK, points)

	case len(parts) == 3 && parts[1] == "nav" && parts[2] == "latest":
		nav, date, err := s.app.NAVService.LatestNAVWithDate(r.Context(), schemeCode)
		if err != nil {
			WriteError(w, http.StatusBadGateway, err.Error())
			return
		}
		WriteJSON(w, http.StatusOK, map[string]interface{}{
			"schemeCode": schemeCode,
			"nav":        nav,
			"date":       date,
		})

	default:
		WriteError(w, http.StatusNotFound, "Not found")
	}
}

// handleBenchmarks handles GET /api/benchmarks.
func (s *Server) handleBenchmarks(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	WriteJSON(w, http.StatusOK, s.app.NAVService.Benchmarks())
}
