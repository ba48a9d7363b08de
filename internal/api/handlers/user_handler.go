package handlers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/Cheertaboi/deal-service/internal/models"
	"github.com/Cheertaboi/deal-service/internal/service"
)

type RegisterUserRequest struct {
	// ID is optional; the auth provider's user id when there is one.
	ID uuid.UUID `json:"id"`
}

type UserHandler struct {
	service *service.UserService
}

func NewUserHandler(svc *service.UserService) *UserHandler {
	return &UserHandler{service: svc}
}

// Register handles POST /users
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterUserRequest
	if !decodeOptionalBody(w, r, &req) {
		return
	}
	u, err := h.service.Register(r.Context(), req.ID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, u)
}

// Records handles GET /users/{userID}/records
func (h *UserHandler) Records(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(w, r, "userID", models.ErrInvalidUser)
	if !ok {
		return
	}
	recs, err := h.service.Records(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if recs == nil {
		recs = []*models.RedemptionRecord{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"records": recs})
}
