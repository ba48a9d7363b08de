package handlers

import (
	"net/http"

	"github.com/Cheertaboi/deal-service/internal/models"
	"github.com/Cheertaboi/deal-service/internal/service"
)

type ShopRequest struct {
	Name         string       `json:"name"`
	Location     string       `json:"location"`
	Description  string       `json:"description"`
	MobileNumber string       `json:"mobile_number"`
	LogoPath     string       `json:"logo_path"`
	Theme        models.Theme `json:"theme,omitempty"`
}

func (req ShopRequest) shop() *models.Shop {
	return &models.Shop{
		Name:         req.Name,
		Location:     req.Location,
		Description:  req.Description,
		MobileNumber: req.MobileNumber,
		LogoPath:     req.LogoPath,
		Theme:        req.Theme,
	}
}

type ThemeRequest struct {
	Theme string `json:"theme"`
}

type ShopHandler struct {
	service *service.ShopService
}

func NewShopHandler(svc *service.ShopService) *ShopHandler {
	return &ShopHandler{service: svc}
}

// CreateShop handles POST /shops
func (h *ShopHandler) CreateShop(w http.ResponseWriter, r *http.Request) {
	var req ShopRequest
	if !decodeBody(w, r, &req) {
		return
	}
	shop, err := h.service.CreateShop(r.Context(), req.shop())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, shop)
}

// NameAvailable handles GET /shops/name-available?name=
func (h *ShopHandler) NameAvailable(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")
	free, err := h.service.ShopNameAvailable(r.Context(), name)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"name": name, "available": free})
}

// GetShop handles GET /shops/{shopID}
func (h *ShopHandler) GetShop(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(w, r, "shopID", models.ErrShopNotFound)
	if !ok {
		return
	}
	shop, err := h.service.GetShop(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, shop)
}

// UpdateShop handles PUT /shops/{shopID}
func (h *ShopHandler) UpdateShop(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(w, r, "shopID", models.ErrShopNotFound)
	if !ok {
		return
	}
	var req ShopRequest
	if !decodeBody(w, r, &req) {
		return
	}
	s := req.shop()
	s.ID = id
	shop, err := h.service.UpdateShop(r.Context(), s)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, shop)
}

// GetTheme handles GET /shops/{shopID}/theme
func (h *ShopHandler) GetTheme(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(w, r, "shopID", models.ErrShopNotFound)
	if !ok {
		return
	}
	theme, err := h.service.GetTheme(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"theme": theme})
}

// SetTheme handles PUT /shops/{shopID}/theme
func (h *ShopHandler) SetTheme(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(w, r, "shopID", models.ErrShopNotFound)
	if !ok {
		return
	}
	var req ThemeRequest
	if !decodeBody(w, r, &req) {
		return
	}
	theme, err := h.service.SetTheme(r.Context(), id, req.Theme)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"theme": theme})
}
