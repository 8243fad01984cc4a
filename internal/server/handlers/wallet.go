// internal/server/handlers/wallet.go

package handlers

import (
	"net/http"

	"basedsprings/internal/domain/wallet"
)

// WalletHandler handles wallet session HTTP requests
type WalletHandler struct {
	manager wallet.Manager
}

// NewWalletHandler creates a new wallet handler
func NewWalletHandler(manager wallet.Manager) *WalletHandler {
	return &WalletHandler{
		manager: manager,
	}
}

// GetSession returns the current session snapshot
func (h *WalletHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, h.manager.Session())
}

// Connect triggers a connection attempt. The attempt runs asynchronously;
// callers poll GetSession for the result.
func (h *WalletHandler) Connect(w http.ResponseWriter, r *http.Request) {
	h.manager.Connect()
	respondWithJSON(w, http.StatusAccepted, h.manager.Session())
}
