package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/numanubhani/finance2/internal/dto"
	"github.com/numanubhani/finance2/internal/ledger"
	"github.com/numanubhani/finance2/internal/middleware"
)

type BankHandler struct {
	ledger *ledger.Service
}

func NewBankHandler(ledger *ledger.Service) *BankHandler {
	return &BankHandler{ledger: ledger}
}

func (h *BankHandler) CreateBank(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req dto.CreateBankRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	bank, err := h.ledger.CreateBank(r.Context(), userID, req.Name)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, bank)
}

func (h *BankHandler) ListBanks(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	banks, err := h.ledger.ListBanks(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, banks)
}

func (h *BankHandler) DeleteBank(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	bankID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid bank id", http.StatusBadRequest)
		return
	}

	if err := h.ledger.DeleteBank(r.Context(), userID, bankID); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *BankHandler) CreateAccount(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req dto.CreateAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	account, err := h.ledger.CreateAccount(r.Context(), userID, req.BankID, req.Name, req.Number, req.Balance)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, account)
}

// SetupBanks provisions banks and accounts idempotently from the onboarding
// import payload.
func (h *BankHandler) SetupBanks(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req dto.SetupBanksRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	banks, err := h.ledger.ProvisionBanks(r.Context(), userID, req.ToSetups())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, banks)
}

func (h *BankHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	data, err := h.ledger.Dashboard(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, data)
}
