package server

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/SynTaxOp/Stonks/internal/models"
)

// routeUsers dispatches /api/users/{userId}/... to holdings, transactions and
// dashboard handlers.
func (s *Server) routeUsers(w http.ResponseWriter, r *http.Request) {
	rest := strings.Trim(strings.TrimPrefix(r.URL.Path, "/api/users/"), "/")
	parts := strings.Split(rest, "/")
	if len(parts) == 0 || parts[0] == "" {
		WriteError(w, http.StatusNotFound, "User ID is required")
		return
	}
	userID := parts[0]

	if len(parts) < 2 {
		WriteError(w, http.StatusNotFound, "Not found")
		return
	}

	switch parts[1] {
	case "funds":
		s.routeUserFunds(w, r, userID, parts[2:])
	case "transactions":
		s.handleUserTransactions(w, r, userID)
	case "dashboard":
		s.routeUserDashboard(w, r, userID, parts[2:])
	default:
		WriteError(w, http.StatusNotFound, "Not found")
	}
}

func (s *Server) routeUserFunds(w http.ResponseWriter, r *http.Request, userID string, parts []string) {
	if len(parts) == 0 {
		s.handleFundCollection(w, r, userID)
		return
	}

	fundID, err := strconv.Atoi(parts[0])
	if err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid fund ID: "+parts[0])
		return
	}

	switch {
	case len(parts) == 1:
		s.handleFund(w, r, userID, fundID)
	case parts[1] == "summary" && len(parts) == 2:
		s.handleFundSummary(w, r, userID, fundID)
	case parts[1] == "summary" && len(parts) == 3 && parts[2] == "extra":
		s.handleFundSummaryExtra(w, r, userID, fundID)
	case parts[1] == "units" && len(parts) == 2:
		s.handleFundUnits(w, r, userID, fundID)
	case parts[1] == "details" && len(parts) == 2:
		s.handleFundDetails(w, r, userID, fundID)
	case parts[1] == "performance" && len(parts) == 2:
		s.handleFundPerformance(w, r, userID, fundID)
	case parts[1] == "performance" && len(parts) == 3 && parts[2] == "chart":
		s.handleFundPerformanceChart(w, r, userID, fundID)
	case parts[1] == "transactions" && len(parts) == 2:
		s.handleFundTransactions(w, r, userID, fundID)
	case parts[1] == "sips" && len(parts) == 2:
		s.handleFundSIPs(w, r, userID, fundID)
	default:
		WriteError(w, http.StatusNotFound, "Not found")
	}
}

// handleFundCollection handles GET/POST/DELETE /api/users/{userId}/funds.
func (s *Server) handleFundCollection(w http.ResponseWriter, r *http.Request, userID string) {
	switch r.Method {
	case http.MethodGet:
		holdings, err := s.app.FundService.ByUser(r.Context(), userID)
		if err != nil {
			WriteError(w, http.StatusInternalServerError, err.Error())
			return
		}
		WriteJSON(w, http.StatusOK, holdings)

	case http.MethodPost:
		var holding models.Holding
		if !DecodeJSON(w, r, &holding) {
			return
		}
		holding.UserID = userID
		if err := s.app.FundService.Create(r.Context(), &holding); err != nil {
			WriteError(w, statusForError(err), err.Error())
			return
		}
		WriteJSON(w, http.StatusCreated, holding)

	case http.MethodDelete:
		if err := s.app.FundService.DeleteAllForUser(r.Context(), userID); err != nil {
			WriteError(w, http.StatusInternalServerError, err.Error())
			return
		}
		WriteJSON(w, http.StatusOK, map[string]string{"status": "deleted"})

	default:
		RequireMethod(w, r, http.MethodGet, http.MethodPost, http.MethodDelete)
	}
}

// handleFund handles GET/PUT/DELETE /api/users/{userId}/funds/{fundId}.
func (s *Server) handleFund(w http.ResponseWriter, r *http.Request, userID string, fundID int) {
	switch r.Method {
	case http.MethodGet:
		holding, err := s.app.FundService.Get(r.Context(), userID, fundID)
		if err != nil {
			WriteError(w, http.StatusNotFound, err.Error())
			return
		}
		WriteJSON(w, http.StatusOK, holding)

	case http.MethodPut:
		var holding models.Holding
		if !DecodeJSON(w, r, &holding) {
			return
		}
		if err := s.app.FundService.Update(r.Context(), userID, fundID, &holding); err != nil {
			WriteError(w, statusForError(err), err.Error())
			return
		}
		updated, err := s.app.FundService.Get(r.Context(), userID, fundID)
		if err != nil {
			WriteError(w, http.StatusInternalServerError, err.Error())
			return
		}
		WriteJSON(w, http.StatusOK, updated)

	case http.MethodDelete:
		if err := s.app.FundService.Delete(r.Context(), userID, fundID); err != nil {
			WriteError(w, statusForError(err), err.Error())
			return
		}
		WriteJSON(w, http.StatusOK, map[string]string{"status": "deleted"})

	default:
		RequireMethod(w, r, http.MethodGet, http.MethodPut, http.MethodDelete)
	}
}

func (s *Server) handleFundSummary(w http.ResponseWriter, r *http.Request, userID string, fundID int) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	summary, err := s.app.FundService.Summary(r.Context(), userID, fundID)
	if err != nil {
		WriteError(w, statusForError(err), err.Error())
		return
	}
	WriteJSON(w, http.StatusOK, summary)
}

func (s *Server) handleFundSummaryExtra(w http.ResponseWriter, r *http.Request, userID string, fundID int) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	extra, err := s.app.FundService.SummaryExtra(r.Context(), userID, fundID)
	if err != nil {
		WriteError(w, statusForError(err), err.Error())
		return
	}
	WriteJSON(w, http.StatusOK, extra)
}

func (s *Server) handleFundUnits(w http.ResponseWriter, r *http.Request, userID string, fundID int) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	units, err := s.app.FundService.Units(r.Context(), userID, fundID)
	if err != nil {
		WriteError(w, statusForError(err), err.Error())
		return
	}
	WriteJSON(w, http.StatusOK, units)
}

func (s *Server) handleFundDetails(w http.ResponseWriter, r *http.Request, userID string, fundID int) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	details, err := s.app.FundService.Details(r.Context(), userID, fundID)
	if err != nil {
		WriteError(w, statusForError(err), err.Error())
		return
	}
	WriteJSON(w, http.StatusOK, details)
}

func (s *Server) handleFundPerformance(w http.ResponseWriter, r *http.Request, userID string, fundID int) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	series, err := s.app.FundService.PerformanceSeries(r.Context(), userID, fundID)
	if err != nil {
		WriteError(w, statusForError(err), err.Error())
		return
	}
	WriteJSON(w, http.StatusOK, series)
}

func (s *Server) handleFundPerformanceChart(w http.ResponseWriter, r *http.Request, userID string, fundID int) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	png, err := s.app.FundService.RenderPerformanceChart(r.Context(), userID, fundID)
	if err != nil {
		WriteError(w, statusForError(err), err.Error())
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	w.Write(png)
}

// handleFundTransactions handles GET /api/users/{userId}/funds/{fundId}/transactions.
// Newest first; ?order=asc gives ledger order.
func (s *Server) handleFundTransactions(w http.ResponseWriter, r *http.Request, userID string, fundID int) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	var txs []*models.Transaction
	var err error
	if r.URL.Query().Get("order") == "asc" {
		txs, err = s.app.LedgerService.ByUserAndFundAsc(r.Context(), userID, fundID)
	} else {
		txs, err = s.app.LedgerService.ByUserAndFund(r.Context(), userID, fundID)
	}
	if err != nil {
		WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}
	WriteJSON(w, http.StatusOK, toTransactionViews(txs))
}

// handleFundSIPs handles GET/POST /api/users/{userId}/funds/{fundId}/sips.
func (s *Server) handleFundSIPs(w http.ResponseWriter, r *http.Request, userID string, fundID int) {
	switch r.Method {
	case http.MethodGet:
		sips, err := s.app.SIPService.ByUserAndFund(r.Context(), userID, fundID)
		if err != nil {
			WriteError(w, http.StatusInternalServerError, err.Error())
			return
		}
		WriteJSON(w, http.StatusOK, sips)

	case http.MethodPost:
		var sip models.SIP
		if !DecodeJSON(w, r, &sip) {
			return
		}
		sip.UserID = userID
		sip.FundID = fundID
		if err := s.app.FundService.RegisterSIP(r.Context(), &sip); err != nil {
			WriteError(w, statusForError(err), err.Error())
			return
		}
		WriteJSON(w, http.StatusCreated, sip)

	default:
		RequireMethod(w, r, http.MethodGet, http.MethodPost)
	}
}

// handleUserTransactions handles GET/DELETE /api/users/{userId}/transactions.
func (s *Server) handleUserTransactions(w http.ResponseWriter, r *http.Request, userID string) {
	switch r.Method {
	case http.MethodGet:
		txs, err := s.app.LedgerService.ByUser(r.Context(), userID)
		if err != nil {
			WriteError(w, http.StatusInternalServerError, err.Error())
			return
		}
		WriteJSON(w, http.StatusOK, toTransactionViews(txs))

	case http.MethodDelete:
		count, err := s.app.LedgerService.DeleteByUser(r.Context(), userID)
		if err != nil {
			WriteError(w, http.StatusInternalServerError, err.Error())
			return
		}
		WriteJSON(w, http.StatusOK, map[string]int{"deleted": count})

	default:
		RequireMethod(w, r, http.MethodGet, http.MethodDelete)
	}
}

func (s *Server) routeUserDashboard(w http.ResponseWriter, r *http.Request, userID string, parts []string) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	switch {
	case len(parts) == 0:
		dashboard, err := s.app.DashboardService.Dashboard(r.Context(), userID)
		if err != nil {
			WriteError(w, http.StatusInternalServerError, err.Error())
			return
		}
		WriteJSON(w, http.StatusOK, dashboard)

	case parts[0] == "extra":
		extra, err := s.app.DashboardService.DashboardExtra(r.Context(), userID)
		if err != nil {
			WriteError(w, http.StatusInternalServerError, err.Error())
			return
		}
		WriteJSON(w, http.StatusOK, extra)

	case parts[0] == "history":
		series, err := s.app.DashboardService.CombinedSeries(r.Context(), userID)
		if err != nil {
			WriteError(w, http.StatusInternalServerError, err.Error())
			return
		}
		WriteJSON(w, http.StatusOK, series)

	default:
		WriteError(w, http.StatusNotFound, "Not found")
	}
}
