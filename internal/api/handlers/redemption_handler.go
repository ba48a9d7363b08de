package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Cheertaboi/deal-service/internal/service"
)

type RedemptionHandler struct {
	service *service.RedemptionService
}

func NewRedemptionHandler(svc *service.RedemptionService) *RedemptionHandler {
	return &RedemptionHandler{service: svc}
}

// Redeem handles POST /redemptions/{token}. The token is the payload of the
// customer's scanned code.
func (h *RedemptionHandler) Redeem(w http.ResponseWriter, r *http.Request) {
	res, err := h.service.Redeem(r.Context(), chi.URLParam(r, "token"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}
