package storefront

import (
	"encoding/json"
	"net/http"

	apperrors "github.com/ebikepoint/erp/internal/errors"
)

// response is the uniform wrapper every storefront endpoint returns.
// Failures carry a message and, for validation, per-field errors.
type response struct {
	Success bool     `json:"success"`
	Message string   `json:"message,omitempty"`
	Data    any      `json:"data,omitempty"`
	Errors  []string `json:"errors,omitempty"`
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeData(w http.ResponseWriter, code int, data any) {
	writeJSON(w, code, response{Success: true, Data: data})
}

func writeMessage(w http.ResponseWriter, code int, message string) {
	writeJSON(w, code, response{Success: true, Message: message})
}

func writeError(w http.ResponseWriter, code int, message string) {
	writeJSON(w, code, response{Success: false, Message: message})
}

func writeValidationError(w http.ResponseWriter, message string, errs []string) {
	writeJSON(w, http.StatusBadRequest, response{Success: false, Message: message, Errors: errs})
}

// decodeJSON reads the request body into v. A failure is reported to the
// client as a 400 and the caller should return.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "Request body must be valid JSON")
		return false
	}
	return true
}

// domainError maps the shared sentinel errors onto HTTP statuses; anything
// unrecognized is a 500 with a generic message.
func (s *Server) domainError(w http.ResponseWriter, err error) {
	switch {
	case apperrors.Is(err, apperrors.ErrForbidden):
		writeError(w, http.StatusForbidden, "Not permitted for your role")
	case apperrors.Is(err, apperrors.ErrProductNotFound):
		writeError(w, http.StatusNotFound, "Product not found")
	case apperrors.Is(err, apperrors.ErrOrderNotFound):
		writeError(w, http.StatusNotFound, "Order not found")
	case apperrors.Is(err, apperrors.ErrSaleNotFound):
		writeError(w, http.StatusNotFound, "Sale not found")
	case apperrors.Is(err, apperrors.ErrWarrantyNotFound):
		writeError(w, http.StatusNotFound, "Warranty not found")
	case apperrors.Is(err, apperrors.ErrInventoryNotFound):
		writeError(w, http.StatusNotFound, "Inventory item not found")
	case apperrors.Is(err, apperrors.ErrUserNotFound):
		writeError(w, http.StatusNotFound, "User not found")
	case apperrors.Is(err, apperrors.ErrNotFound):
		writeError(w, http.StatusNotFound, "Not found")
	case apperrors.Is(err, apperrors.ErrInsufficientStock):
		writeError(w, http.StatusBadRequest, "Insufficient stock")
	case apperrors.Is(err, apperrors.ErrInvalidTransition):
		writeError(w, http.StatusBadRequest, "Invalid status transition")
	case apperrors.Is(err, apperrors.ErrAlreadyClockedIn):
		writeError(w, http.StatusBadRequest, "Already clocked in today")
	case apperrors.Is(err, apperrors.ErrAlreadyClockedOut):
		writeError(w, http.StatusBadRequest, "Already clocked out today")
	case apperrors.Is(err, apperrors.ErrNotClockedIn):
		writeError(w, http.StatusBadRequest, "Not clocked in today")
	default:
		s.log.Error().Err(err).Msg("unhandled domain error")
		writeError(w, http.StatusInternalServerError, "Something went wrong")
	}
}
