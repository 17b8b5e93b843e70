package api

import (
	"net/http"

	"github.com/numanubhani/finance2/internal/middleware"
	"github.com/numanubhani/finance2/internal/utils"
)

// SetupRoutes wires the HTTP surface. Auth endpoints are public; everything
// else runs behind the JWT middleware.
func SetupRoutes(auth *AuthHandler, banks *BankHandler, txs *TransactionHandler, tokens *utils.TokenManager) *http.ServeMux {
	mux := http.NewServeMux()
	protect := middleware.Auth(tokens)

	mux.HandleFunc("POST /api/auth/register", auth.Register)
	mux.HandleFunc("POST /api/auth/login", auth.Login)
	mux.Handle("GET /api/auth/me", protect(http.HandlerFunc(auth.Me)))

	mux.Handle("POST /api/banks", protect(http.HandlerFunc(banks.CreateBank)))
	mux.Handle("GET /api/banks", protect(http.HandlerFunc(banks.ListBanks)))
	mux.Handle("DELETE /api/banks/{id}", protect(http.HandlerFunc(banks.DeleteBank)))
	mux.Handle("POST /api/accounts", protect(http.HandlerFunc(banks.CreateAccount)))
	mux.Handle("POST /api/setup-banks", protect(http.HandlerFunc(banks.SetupBanks)))
	mux.Handle("GET /api/dashboard", protect(http.HandlerFunc(banks.Dashboard)))

	mux.Handle("POST /api/transactions", protect(http.HandlerFunc(txs.Record)))
	mux.Handle("POST /api/transfer", protect(http.HandlerFunc(txs.Transfer)))

	return mux
}
