package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/SynTaxOp/Stonks/internal/models"
	"github.com/SynTaxOp/Stonks/internal/services/ledger"
)

// statusForError maps service errors to HTTP status codes. Validation failures
// are the caller's fault; deletion guards are conflicts with ledger state.
func statusForError(err error) int {
	switch {
	case errors.Is(err, ledger.ErrUnknownKind),
		errors.Is(err, ledger.ErrNoQuantity),
		errors.Is(err, ledger.ErrBothQuantities),
		errors.Is(err, ledger.ErrExcessUnits):
		return http.StatusBadRequest
	case errors.Is(err, ledger.ErrRedeemedLot),
		errors.Is(err, ledger.ErrNotLatestSell):
		return http.StatusConflict
	case strings.Contains(err.Error(), "not found"):
		return http.StatusNotFound
	case strings.Contains(err.Error(), "already exists"),
		strings.Contains(err.Error(), "unknown benchmark"),
		strings.Contains(err.Error(), "invalid date"),
		strings.Contains(err.Error(), "must be"):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// handleTransactionCreate handles POST /api/transactions.
func (s *Server) handleTransactionCreate(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req models.NewTransactionRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	if req.UserID == "" || req.FundID <= 0 {
		WriteError(w, http.StatusBadRequest, "userId and fundId are required")
		return
	}

	tx, err := s.app.FundService.AddTransaction(r.Context(), req)
	if err != nil {
		WriteError(w, statusForError(err), err.Error())
		return
	}
	WriteJSON(w, http.StatusCreated, toTransactionView(tx))
}

// handleTransactionBulk handles POST /api/transactions/bulk. Individual
// failures do not abort the batch; the response reports both counts.
func (s *Server) handleTransactionBulk(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var reqs []models.NewTransactionRequest
	if !DecodeJSON(w, r, &reqs) {
		return
	}
	if len(reqs) == 0 {
		WriteError(w, http.StatusBadRequest, "At least one transaction is required")
		return
	}

	created, errs := s.app.FundService.AddBulkTransactions(r.Context(), reqs)

	messages := make([]string, len(errs))
	for i, err := range errs {
		messages[i] = err.Error()
	}
	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"created": created,
		"failed":  len(errs),
		"errors":  messages,
	})
}

// routeTransaction handles GET/DELETE /api/transactions/{id}.
func (s *Server) routeTransaction(w http.ResponseWriter, r *http.Request) {
	id := PathParam(r, "/api/transactions/", "")
	if id == "" {
		WriteError(w, http.StatusNotFound, "Transaction ID is required")
		return
	}

	switch r.Method {
	case http.MethodGet:
		tx, err := s.app.LedgerService.Get(r.Context(), id)
		if err != nil {
			WriteError(w, http.StatusNotFound, err.Error())
			return
		}
		WriteJSON(w, http.StatusOK, toTransactionView(tx))

	case http.MethodDelete:
		if err := s.app.FundService.DeleteTransaction(r.Context(), id); err != nil {
			WriteError(w, statusForError(err), err.Error())
			return
		}
		WriteJSON(w, http.StatusOK, map[string]string{"status": "deleted"})

	default:
		RequireMethod(w, r, http.MethodGet, http.MethodDelete)
	}
}

// handleSIPDelete handles DELETE /api/sips/{id}.
func (s *Server) handleSIPDelete(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodDelete) {
		return
	}

	id := PathParam(r, "/api/sips/", "")
	if id == "" {
		WriteError(w, http.StatusNotFound, "SIP ID is required")
		return
	}

	if err := s.app.SIPService.Delete(r.Context(), id); err != nil {
		WriteError(w, statusForError(err), err.Error())
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
