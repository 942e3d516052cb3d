package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/AlexZinkM/paylink/internal/logger"
	"github.com/AlexZinkM/paylink/internal/model"
)

// maxBodyBytes bounds request bodies; every request here is a handful of short strings.
const maxBodyBytes = 1 << 14

var errRateLimited = errors.New("too many spend requests, please wait")

// NewSpendLimiter throttles operations that spend from the service wallet.
// A zero interval disables throttling.
func NewSpendLimiter(interval time.Duration, burst int) *rate.Limiter {
	if interval <= 0 {
		return rate.NewLimiter(rate.Inf, burst)
	}
	return rate.NewLimiter(rate.Every(interval), burst)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, model.ErrDecode), errors.Is(err, model.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, model.ErrNameTaken):
		return http.StatusConflict
	case errors.Is(err, model.ErrInsufficientFunds):
		return http.StatusGone
	case errors.Is(err, model.ErrInsufficientSenderBalance):
		return http.StatusPaymentRequired
	case errors.Is(err, model.ErrNetwork):
		return http.StatusServiceUnavailable
	case errors.Is(err, model.ErrLedgerRejected):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError answers with the error's class. Detail of unclassified errors stays in the log.
func writeError(w http.ResponseWriter, log *logger.Logger, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		log.Error("request failed", "error", err, "code", model.ErrorCode(err))
	} else {
		log.Debug("request rejected", "error", err, "code", model.ErrorCode(err))
	}
	writeJSON(w, status, model.NewErrorResponse(err))
}

func writeRateLimited(w http.ResponseWriter) {
	writeJSON(w, http.StatusTooManyRequests, model.ErrorResponse{
		Error: errRateLimited.Error(),
		Code:  "RATE_LIMITED",
	})
}

func writeNotFound(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusNotFound, model.ErrorResponse{
		Error: msg,
		Code:  "NOT_FOUND",
	})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("invalid request body: %w", model.ErrValidation)
	}
	return nil
}

func methodNotAllowed(w http.ResponseWriter, r *http.Request, want string) bool {
	if r.Method == want {
		return false
	}
	http.Error(w, "Method not allowed. Should be "+want, http.StatusMethodNotAllowed)
	return true
}
