package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/Cheertaboi/deal-service/internal/models"
)

// errorBody is the shape of every error response.
type errorBody struct {
	Error         string     `json:"error"`
	Message       string     `json:"message"`
	NextAvailable *time.Time `json:"next_available,omitempty"`
}

func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps err to a status code and writes the error body. Server-side
// failures are logged with the request logger and never echoed to the client.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := statusFor(err)
	if code >= http.StatusInternalServerError {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("request failed")
	}
	body := errorBody{Error: models.Kind(err), Message: models.Message(err)}
	var ow *models.OutsideWindowError
	if errors.As(err, &ow) {
		body.NextAvailable = ow.NextAvailable
	}
	writeJSON(w, code, body)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, models.ErrRecordNotFound),
		errors.Is(err, models.ErrPromotionNotFound),
		errors.Is(err, models.ErrShopNotFound):
		return http.StatusNotFound
	case errors.Is(err, models.ErrInvalidUser):
		return http.StatusForbidden
	case errors.Is(err, models.ErrAlreadyRedeemed),
		errors.Is(err, models.ErrConflict),
		errors.Is(err, models.ErrShopNameTaken),
		errors.Is(err, models.ErrUserExists):
		return http.StatusConflict
	case errors.Is(err, models.ErrOutsideWindow),
		errors.Is(err, models.ErrExpired),
		errors.Is(err, models.ErrDisabled):
		return http.StatusUnprocessableEntity
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case models.Kind(err) != "internal_error":
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// decodeBody decodes the JSON request body into v. Domain validation errors
// raised while decoding keep their kind; anything else is invalid_body.
func decodeBody(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	return decode(w, r, v, false)
}

// decodeOptionalBody is decodeBody for endpoints where the body may be left
// out. An empty body, chunked or not, leaves v untouched.
func decodeOptionalBody(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	return decode(w, r, v, true)
}

func decode(w http.ResponseWriter, r *http.Request, v interface{}, optional bool) bool {
	if r.Body == nil || r.Body == http.NoBody {
		if optional {
			return true
		}
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid_body", Message: "request body is required"})
		return false
	}
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		if optional && errors.Is(err, io.EOF) {
			return true
		}
		if models.Kind(err) != "internal_error" {
			writeError(w, r, err)
			return false
		}
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid_body", Message: err.Error()})
		return false
	}
	return true
}

// uuidParam reads a chi URL parameter as a uuid. A malformed id is reported with
// notFound, since it cannot name an existing row.
func uuidParam(w http.ResponseWriter, r *http.Request, name string, notFound error) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		writeError(w, r, notFound)
		return uuid.Nil, false
	}
	return id, true
}
