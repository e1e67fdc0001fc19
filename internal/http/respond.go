package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/fjod/go_cart/internal/aggregator"
	"github.com/fjod/go_cart/internal/logger"
	"github.com/fjod/go_cart/internal/service"
	"github.com/fjod/go_cart/internal/store"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("failed to encode response", slog.Any("error", err))
	}
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, ErrorResponse{
		Error: message,
		Code:  code,
	})
}

// handleServiceError maps domain errors to HTTP status codes
func handleServiceError(ctx context.Context, w http.ResponseWriter, err error) {
	var httpStatus int
	var code string

	switch {
	case errors.Is(err, store.ErrProductNotFound),
		errors.Is(err, store.ErrCartNotFound),
		errors.Is(err, store.ErrCartItemNotFound):
		httpStatus = http.StatusNotFound
		code = "not_found"
	case errors.Is(err, service.ErrInvalidQuantity):
		httpStatus = http.StatusBadRequest
		code = "invalid_quantity"
	case errors.Is(err, service.ErrInvalidProduct):
		httpStatus = http.StatusBadRequest
		code = "invalid_product"
	case errors.Is(err, aggregator.ErrInconsistentReference):
		httpStatus = http.StatusConflict
		code = "inconsistent_reference"
	case errors.Is(err, aggregator.ErrAmountOverflow):
		httpStatus = http.StatusUnprocessableEntity
		code = "amount_overflow"
	case errors.Is(err, context.DeadlineExceeded):
		httpStatus = http.StatusGatewayTimeout
		code = "timeout"
	default:
		slog.ErrorContext(ctx, "request failed", slog.Any("error", err))
		// details carries the request id of the log record above
		respondJSON(w, http.StatusInternalServerError, ErrorResponse{
			Error:   "internal server error",
			Code:    "internal_error",
			Details: logger.RequestID(ctx),
		})
		return
	}

	respondError(w, httpStatus, code, err.Error())
}

func decodeJSON(r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}
