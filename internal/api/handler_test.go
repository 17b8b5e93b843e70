package api_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/numanubhani/finance2/internal/api"
	"github.com/numanubhani/finance2/internal/ledger"
	"github.com/numanubhani/finance2/internal/repository/memory"
	"github.com/numanubhani/finance2/internal/service"
	"github.com/numanubhani/finance2/internal/utils"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	store := memory.NewStore()
	tokens := utils.NewTokenManager("test-secret", time.Hour)
	ledgerService := ledger.NewService(store, nil)
	authService := service.NewAuthService(store, tokens)

	mux := api.SetupRoutes(
		api.NewAuthHandler(authService),
		api.NewBankHandler(ledgerService),
		api.NewTransactionHandler(ledgerService),
		tokens,
	)
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func doJSON(t *testing.T, server *httptest.Server, method, path, token string, body any) (*http.Response, map[string]any) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, server.URL+path, &buf)
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := server.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var decoded map[string]any
	json.NewDecoder(resp.Body).Decode(&decoded)
	return resp, decoded
}

func registerUser(t *testing.T, server *httptest.Server, username string) string {
	t.Helper()
	resp, body := doJSON(t, server, http.MethodPost, "/api/auth/register", "", map[string]any{
		"username":  username,
		"email":     username + "@example.com",
		"password":  "secret123",
		"full_name": "Test User",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	token, _ := body["token"].(string)
	require.NotEmpty(t, token)
	return token
}

func TestAuthRequired(t *testing.T) {
	server := newTestServer(t)

	resp, _ := doJSON(t, server, http.MethodGet, "/api/dashboard", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, _ = doJSON(t, server, http.MethodGet, "/api/dashboard", "not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestBankingFlow(t *testing.T) {
	server := newTestServer(t)
	token := registerUser(t, server, "faiz")

	// Create a bank and two accounts.
	resp, bank := doJSON(t, server, http.MethodPost, "/api/banks", token, map[string]any{"name": "HBL"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	bankID := int64(bank["id"].(float64))

	resp, acctA := doJSON(t, server, http.MethodPost, "/api/accounts", token, map[string]any{
		"bank_id": bankID, "name": "Checking", "number": "001", "balance": "100.00",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp, acctB := doJSON(t, server, http.MethodPost, "/api/accounts", token, map[string]any{
		"bank_id": bankID, "name": "Savings", "number": "002", "balance": "0.00",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	accountA := int64(acctA["id"].(float64))
	accountB := int64(acctB["id"].(float64))

	// Deposit.
	resp, _ = doJSON(t, server, http.MethodPost, "/api/transactions", token, map[string]any{
		"account_id": accountA, "type": "deposit", "amount": "50.00", "description": "salary",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	// Overdraft is rejected with 422.
	resp, _ = doJSON(t, server, http.MethodPost, "/api/transactions", token, map[string]any{
		"account_id": accountA, "type": "withdrawal", "amount": "200.00",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	// Transfer the full balance.
	resp, transfer := doJSON(t, server, http.MethodPost, "/api/transfer", token, map[string]any{
		"from_account_id": accountA, "to_account_id": accountB, "amount": "150.00", "description": "move",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	from := transfer["from_account"].(map[string]any)
	to := transfer["to_account"].(map[string]any)
	assert.Equal(t, "0", from["balance"])
	assert.Equal(t, "150", to["balance"])

	// Dashboard totals.
	resp, dashboard := doJSON(t, server, http.MethodGet, "/api/dashboard", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "150", dashboard["total_balance"])
	assert.Equal(t, "50", dashboard["total_income"])
	assert.Equal(t, float64(2), dashboard["total_accounts"])
	recent := dashboard["recent_transactions"].([]any)
	assert.Len(t, recent, 3) // deposit + two transfer legs
}

func TestBankingFlowErrors(t *testing.T) {
	server := newTestServer(t)
	token := registerUser(t, server, "faiz")

	resp, bank := doJSON(t, server, http.MethodPost, "/api/banks", token, map[string]any{"name": "HBL"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	bankID := int64(bank["id"].(float64))

	// Duplicate bank name.
	resp, _ = doJSON(t, server, http.MethodPost, "/api/banks", token, map[string]any{"name": "HBL"})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp, acct := doJSON(t, server, http.MethodPost, "/api/accounts", token, map[string]any{
		"bank_id": bankID, "name": "Checking", "number": "001", "balance": "100.00",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	accountID := int64(acct["id"].(float64))

	// Malformed amount.
	resp, _ = doJSON(t, server, http.MethodPost, "/api/transfer", token, map[string]any{
		"from_account_id": accountID, "to_account_id": accountID + 1, "amount": "abc",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// Self transfer.
	resp, _ = doJSON(t, server, http.MethodPost, "/api/transfer", token, map[string]any{
		"from_account_id": accountID, "to_account_id": accountID, "amount": "10.00",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// Another user cannot see or touch the account.
	otherToken := registerUser(t, server, "sana")
	resp, _ = doJSON(t, server, http.MethodPost, "/api/transactions", otherToken, map[string]any{
		"account_id": accountID, "type": "deposit", "amount": "10.00",
	})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = doJSON(t, server, http.MethodDelete, fmt.Sprintf("/api/banks/%d", bankID), otherToken, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestSetupBanksEndpointIdempotent(t *testing.T) {
	server := newTestServer(t)
	token := registerUser(t, server, "faiz")

	payload := map[string]any{
		"banks": []map[string]any{
			{
				"bank_name": "HBL",
				"accounts": []map[string]any{
					{"title": "Checking", "number": "001", "balance": "500.00"},
				},
			},
		},
	}

	for i := 0; i < 2; i++ {
		resp, _ := doJSON(t, server, http.MethodPost, "/api/setup-banks", token, payload)
		require.Equal(t, http.StatusOK, resp.StatusCode)
	}

	resp, dashboard := doJSON(t, server, http.MethodGet, "/api/dashboard", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(1), dashboard["total_accounts"])
	assert.Equal(t, "500", dashboard["total_balance"])
}
