package api

import (
	"encoding/json"
	"net/http"

	"github.com/numanubhani/finance2/internal/dto"
	"github.com/numanubhani/finance2/internal/ledger"
	"github.com/numanubhani/finance2/internal/middleware"
)

type TransactionHandler struct {
	ledger *ledger.Service
}

func NewTransactionHandler(ledger *ledger.Service) *TransactionHandler {
	return &TransactionHandler{ledger: ledger}
}

// Record applies one deposit, withdrawal, transfer or external transfer.
func (h *TransactionHandler) Record(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req dto.RecordTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	input, err := req.ToInput()
	if err != nil {
		writeError(w, err)
		return
	}

	tx, err := h.ledger.RecordTransaction(r.Context(), userID, input)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, tx)
}

// Transfer moves funds between two of the user's accounts and returns both
// updated snapshots.
func (h *TransactionHandler) Transfer(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req dto.TransferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	result, err := h.ledger.TransferFunds(r.Context(), userID, req.FromAccountID, req.ToAccountID, req.Amount, req.Description)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}
