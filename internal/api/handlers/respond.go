package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/mohamedazzim/SympoAzzi/internal/types"
)

// APIErrorResponse is the standardized error envelope returned by every
// failed request.
type APIErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail carries the machine-readable code, human-readable message, and
// the request ID for support correlation.
type ErrorDetail struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

// Respond writes a JSON response with the given status code.
func Respond(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body != nil {
		_ = json.NewEncoder(w).Encode(body)
	}
}

// Error writes a standardized error response. AppError codes map onto HTTP
// statuses; anything else is a 500 with the details suppressed.
func Error(w http.ResponseWriter, r *http.Request, err error) {
	code := types.ErrCodeInternalUnexpected
	message := "an unexpected error occurred"

	var appErr *types.AppError
	if errors.As(err, &appErr) {
		code = appErr.Code
		message = appErr.Message
	}

	Respond(w, statusForCode(code), APIErrorResponse{
		Error: ErrorDetail{
			Code:      string(code),
			Message:   message,
			RequestID: middleware.GetReqID(r.Context()),
		},
	})
}

// statusForCode maps application error codes to HTTP status codes.
func statusForCode(code types.ErrorCode) int {
	switch code {
	case types.ErrCodeValidationMissingField, types.ErrCodeValidationInvalidEmail:
		return http.StatusBadRequest
	case types.ErrCodeNotFoundUser:
		return http.StatusNotFound
	case types.ErrCodeTransportAuth, types.ErrCodeTransportUnavailable, types.ErrCodeTransportRejected:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
