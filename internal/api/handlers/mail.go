// Package handlers contains the HTTP handler implementations for the mailer
// service API.
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/mohamedazzim/SympoAzzi/internal/types"
)

// MailService is the delivery contract consumed by the mail handler.
// Mirrors the concrete mailer.Mailer operations.
type MailService interface {
	SendRegistrationApproved(ctx context.Context, email, fullName, eventName, username, password string) types.EmailResult
	SendCredentials(ctx context.Context, email, fullName, eventName, username, password string) types.EmailResult
	SendTestStartReminder(ctx context.Context, email, fullName, eventName string, startsAt time.Time) types.EmailResult
	SendResultPublished(ctx context.Context, email, fullName, eventName, score, rank string) types.EmailResult
}

// AuditReader is the read side of the audit trail exposed on the logs
// endpoint.
type AuditReader interface {
	List(ctx context.Context, status types.EmailLogStatus, limit, offset int) ([]types.EmailLog, error)
}

// --- Request/Response Models ---

// CredentialMailRequest is the body for both the registration-approved and
// credentials endpoints: the two notifications carry the same inputs.
type CredentialMailRequest struct {
	Email     string `json:"email" validate:"required,email"`
	FullName  string `json:"fullName" validate:"required"`
	EventName string `json:"eventName" validate:"required"`
	Username  string `json:"username" validate:"required"`
	Password  string `json:"password" validate:"required"`
}

// TestStartReminderRequest is the body for the test-start-reminder endpoint.
type TestStartReminderRequest struct {
	Email     string    `json:"email" validate:"required,email"`
	FullName  string    `json:"fullName" validate:"required"`
	EventName string    `json:"eventName" validate:"required"`
	StartsAt  time.Time `json:"startsAt" validate:"required"`
}

// ResultPublishedRequest is the body for the result-published endpoint.
type ResultPublishedRequest struct {
	Email     string `json:"email" validate:"required,email"`
	FullName  string `json:"fullName" validate:"required"`
	EventName string `json:"eventName" validate:"required"`
	Score     string `json:"score" validate:"required"`
	Rank      string `json:"rank"`
}

// ListLogsResponse wraps the audit records returned by the logs endpoint.
type ListLogsResponse struct {
	Data []EmailLogDTO `json:"data"`
}

// EmailLogDTO is the external shape of an audit record.
type EmailLogDTO struct {
	ID            string         `json:"id"`
	Recipient     string         `json:"recipient"`
	RecipientName string         `json:"recipientName,omitempty"`
	Subject       string         `json:"subject"`
	TemplateType  string         `json:"templateType"`
	Status        string         `json:"status"`
	Metadata      map[string]any `json:"metadata,omitempty"`
	ErrorMessage  string         `json:"errorMessage,omitempty"`
	CreatedAt     time.Time      `json:"createdAt"`
}

// --- Handler ---

// MailHandler exposes the delivery operations and the audit log over HTTP.
type MailHandler struct {
	mail     MailService
	audit    AuditReader
	validate *validator.Validate
	logger   types.Logger
}

// NewMailHandler creates a MailHandler. A nil audit reader disables the logs
// endpoint (it returns an empty list).
func NewMailHandler(mail MailService, audit AuditReader, logger types.Logger) *MailHandler {
	return &MailHandler{
		mail:     mail,
		audit:    audit,
		validate: validator.New(),
		logger:   logger,
	}
}

// RegisterRoutes mounts the mail endpoints on the given router.
func (h *MailHandler) RegisterRoutes(r chi.Router) {
	r.Post("/registration-approved", h.RegistrationApproved)
	r.Post("/credentials", h.Credentials)
	r.Post("/test-start-reminder", h.TestStartReminder)
	r.Post("/result-published", h.ResultPublished)
	r.Get("/logs", h.ListLogs)
}

// RegistrationApproved handles POST /v1/mail/registration-approved.
func (h *MailHandler) RegistrationApproved(w http.ResponseWriter, r *http.Request) {
	var req CredentialMailRequest
	if err := h.decode(r, &req); err != nil {
		Error(w, r, err)
		return
	}
	result := h.mail.SendRegistrationApproved(r.Context(), req.Email, req.FullName, req.EventName, req.Username, req.Password)
	writeResult(w, result)
}

// Credentials handles POST /v1/mail/credentials.
func (h *MailHandler) Credentials(w http.ResponseWriter, r *http.Request) {
	var req CredentialMailRequest
	if err := h.decode(r, &req); err != nil {
		Error(w, r, err)
		return
	}
	result := h.mail.SendCredentials(r.Context(), req.Email, req.FullName, req.EventName, req.Username, req.Password)
	writeResult(w, result)
}

// TestStartReminder handles POST /v1/mail/test-start-reminder.
func (h *MailHandler) TestStartReminder(w http.ResponseWriter, r *http.Request) {
	var req TestStartReminderRequest
	if err := h.decode(r, &req); err != nil {
		Error(w, r, err)
		return
	}
	result := h.mail.SendTestStartReminder(r.Context(), req.Email, req.FullName, req.EventName, req.StartsAt)
	writeResult(w, result)
}

// ResultPublished handles POST /v1/mail/result-published.
func (h *MailHandler) ResultPublished(w http.ResponseWriter, r *http.Request) {
	var req ResultPublishedRequest
	if err := h.decode(r, &req); err != nil {
		Error(w, r, err)
		return
	}
	result := h.mail.SendResultPublished(r.Context(), req.Email, req.FullName, req.EventName, req.Score, req.Rank)
	writeResult(w, result)
}

// ListLogs handles GET /v1/mail/logs. Supports status, limit, and offset
// query parameters.
func (h *MailHandler) ListLogs(w http.ResponseWriter, r *http.Request) {
	if h.audit == nil {
		Respond(w, http.StatusOK, ListLogsResponse{Data: []EmailLogDTO{}})
		return
	}

	limit := 50
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		n, err := strconv.Atoi(limitStr)
		if err != nil || n < 1 || n > 500 {
			Error(w, r, types.NewAppError(types.ErrCodeValidationMissingField, "limit must be a number between 1 and 500", nil))
			return
		}
		limit = n
	}

	offset := 0
	if offsetStr := r.URL.Query().Get("offset"); offsetStr != "" {
		n, err := strconv.Atoi(offsetStr)
		if err != nil || n < 0 {
			Error(w, r, types.NewAppError(types.ErrCodeValidationMissingField, "offset must be a non-negative number", nil))
			return
		}
		offset = n
	}

	var status types.EmailLogStatus
	if statusStr := r.URL.Query().Get("status"); statusStr != "" {
		switch types.EmailLogStatus(statusStr) {
		case types.EmailLogSent, types.EmailLogFailed:
			status = types.EmailLogStatus(statusStr)
		default:
			Error(w, r, types.NewAppError(types.ErrCodeValidationMissingField, "status must be one of: sent, failed", nil))
			return
		}
	}

	logs, err := h.audit.List(r.Context(), status, limit, offset)
	if err != nil {
		h.logger.Error("failed to list email logs", "error", err)
		Error(w, r, err)
		return
	}

	data := make([]EmailLogDTO, 0, len(logs))
	for _, entry := range logs {
		data = append(data, EmailLogDTO{
			ID:            entry.ID,
			Recipient:     entry.Recipient,
			RecipientName: entry.RecipientName,
			Subject:       entry.Subject,
			TemplateType:  string(entry.TemplateType),
			Status:        string(entry.Status),
			Metadata:      entry.Metadata,
			ErrorMessage:  entry.ErrorMessage,
			CreatedAt:     entry.CreatedAt,
		})
	}
	Respond(w, http.StatusOK, ListLogsResponse{Data: data})
}

// decode parses and validates a JSON request body.
func (h *MailHandler) decode(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return types.NewAppError(types.ErrCodeValidationMissingField, "invalid request body", err)
	}
	if err := h.validate.Struct(dst); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			fe := fieldErrs[0]
			if fe.Tag() == "email" {
				return types.NewAppError(types.ErrCodeValidationInvalidEmail, "email must be a valid address", err)
			}
			return types.NewAppError(types.ErrCodeValidationMissingField, fe.Field()+" is required", err)
		}
		return types.NewAppError(types.ErrCodeValidationMissingField, "invalid request body", err)
	}
	return nil
}

// writeResult writes a delivery result. The HTTP status is always 200: the
// operation itself completed, and the outcome is carried in the body.
func writeResult(w http.ResponseWriter, result types.EmailResult) {
	Respond(w, http.StatusOK, result)
}
