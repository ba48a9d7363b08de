package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Cheertaboi/deal-service/internal/models"
	"github.com/Cheertaboi/deal-service/internal/service"
)

var errScheduleForm = errors.New("give exactly one of days, weekdays or everyday")

// --- Request / Response DTOs ---

// ScheduleRequest is the authoring form of a schedule. Exactly one field is set.
type ScheduleRequest struct {
	Days     map[string]models.Slot `json:"days,omitempty"`
	Weekdays *models.Slot           `json:"weekdays,omitempty"`
	Everyday *models.Slot           `json:"everyday,omitempty"`
}

func (s ScheduleRequest) build() (models.WeeklySchedule, error) {
	set := 0
	if s.Days != nil {
		set++
	}
	if s.Weekdays != nil {
		set++
	}
	if s.Everyday != nil {
		set++
	}
	switch {
	case set == 0:
		return models.WeeklySchedule{}, models.ErrEmptySchedule
	case set > 1:
		return models.WeeklySchedule{}, errScheduleForm
	case s.Weekdays != nil:
		return models.NewWeekdaySchedule(s.Weekdays.Start, s.Weekdays.End)
	case s.Everyday != nil:
		return models.NewEverydaySchedule(s.Everyday.Start, s.Everyday.End)
	}
	return models.ScheduleFromKeys(s.Days)
}

type DealRequest struct {
	Discount      models.Discount `json:"discount"`
	PercentageOff decimal.Decimal `json:"percentage_off"`
	Schedule      ScheduleRequest `json:"schedule"`
	ExpiryDate    *models.Date    `json:"expiry_date,omitempty"`
	// Disabled is honoured on create only; updates keep the current flag.
	Disabled      bool            `json:"disabled"`
	Description   string          `json:"description"`
}

func (req DealRequest) promotion() (*models.Promotion, error) {
	sched, err := req.Schedule.build()
	if err != nil {
		return nil, err
	}
	return &models.Promotion{
		Discount:      req.Discount,
		PercentageOff: req.PercentageOff,
		Schedule:      sched,
		ExpiryDate:    req.ExpiryDate,
		Disabled:      req.Disabled,
		Description:   strings.TrimSpace(req.Description),
	}, nil
}

type ScheduleResponse struct {
	Kind    models.ScheduleKind    `json:"kind"`
	Days    map[string]models.Slot `json:"days"`
	Summary []string               `json:"summary"`
}

// --- Handler struct & constructor ---

type DealHandler struct {
	service *service.DealService
}

func NewDealHandler(svc *service.DealService) *DealHandler {
	return &DealHandler{service: svc}
}

// --- Handlers ---

// CreateDeal handles POST /shops/{shopID}/deals
func (h *DealHandler) CreateDeal(w http.ResponseWriter, r *http.Request) {
	shopID, ok := uuidParam(w, r, "shopID", models.ErrShopNotFound)
	if !ok {
		return
	}
	var req DealRequest
	if !decodeBody(w, r, &req) {
		return
	}
	p, err := req.promotion()
	if err != nil {
		h.badSchedule(w, r, err)
		return
	}

	created, err := h.service.CreateDeal(r.Context(), shopID, p)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// ListShopDeals handles GET /shops/{shopID}/deals
func (h *DealHandler) ListShopDeals(w http.ResponseWriter, r *http.Request) {
	shopID, ok := uuidParam(w, r, "shopID", models.ErrShopNotFound)
	if !ok {
		return
	}
	deals, err := h.service.ListShopDeals(r.Context(), shopID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"deals": deals})
}

// GetDeal handles GET /deals/{dealID}
func (h *DealHandler) GetDeal(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(w, r, "dealID", models.ErrPromotionNotFound)
	if !ok {
		return
	}
	p, err := h.service.GetDeal(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// GetSchedule handles GET /deals/{dealID}/schedule
func (h *DealHandler) GetSchedule(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(w, r, "dealID", models.ErrPromotionNotFound)
	if !ok {
		return
	}
	sched, err := h.service.GetSchedule(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	summary := []string{}
	if s := sched.Summary(); s != "" {
		summary = strings.Split(s, "\n")
	}
	writeJSON(w, http.StatusOK, ScheduleResponse{Kind: sched.Kind(), Days: sched.Days(), Summary: summary})
}

// UpdateDeal handles PUT /deals/{dealID}
func (h *DealHandler) UpdateDeal(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(w, r, "dealID", models.ErrPromotionNotFound)
	if !ok {
		return
	}
	var req DealRequest
	if !decodeBody(w, r, &req) {
		return
	}
	p, err := req.promotion()
	if err != nil {
		h.badSchedule(w, r, err)
		return
	}
	p.ID = id

	updated, err := h.service.UpdateDeal(r.Context(), p)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// DisableDeal handles POST /deals/{dealID}/disable
func (h *DealHandler) DisableDeal(w http.ResponseWriter, r *http.Request) {
	h.toggle(w, r, true)
}

// EnableDeal handles POST /deals/{dealID}/enable
func (h *DealHandler) EnableDeal(w http.ResponseWriter, r *http.Request) {
	h.toggle(w, r, false)
}

func (h *DealHandler) toggle(w http.ResponseWriter, r *http.Request, disable bool) {
	id, ok := uuidParam(w, r, "dealID", models.ErrPromotionNotFound)
	if !ok {
		return
	}
	var err error
	if disable {
		err = h.service.DisableDeal(r.Context(), id)
	} else {
		err = h.service.EnableDeal(r.Context(), id)
	}
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"id": id, "disabled": disable})
}

// DeleteDeal handles DELETE /deals/{dealID}
func (h *DealHandler) DeleteDeal(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(w, r, "dealID", models.ErrPromotionNotFound)
	if !ok {
		return
	}
	if err := h.service.DeleteDeal(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Availability handles GET /deals/{dealID}/availability?at=RFC3339
func (h *DealHandler) Availability(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(w, r, "dealID", models.ErrPromotionNotFound)
	if !ok {
		return
	}
	var at time.Time
	if s := strings.TrimSpace(r.URL.Query().Get("at")); s != "" {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid_time", Message: "invalid at; use RFC3339"})
			return
		}
		at = t
	}

	av, err := h.service.Availability(r.Context(), id, at)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, av)
}

func (h *DealHandler) badSchedule(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, errScheduleForm) {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid_schedule", Message: err.Error()})
		return
	}
	writeError(w, r, err)
}
