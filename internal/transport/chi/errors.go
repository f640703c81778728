package chi

import (
	"context"
	"errors"
	"net/http"

	json "github.com/goccy/go-json"
	"go.uber.org/zap"

	"github.com/kailas-cloud/abmeta/internal/domain"
)

// ErrorCode is a machine-readable error classification.
type ErrorCode string

// Error codes returned in ErrorResponse.
const (
	CodeBadRequest       ErrorCode = "bad_request"
	CodeUnauthorized     ErrorCode = "unauthorized"
	CodeValidationFailed ErrorCode = "validation_failed"
	CodeItemNotFound     ErrorCode = "item_not_found"
	CodeInvalidDocument  ErrorCode = "invalid_document"
	CodeInternalError    ErrorCode = "internal_error"
)

// ErrorResponse is the JSON error body.
type ErrorResponse struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

var errorHandlers = []errorHandler{
	sentinelHandler(domain.ErrItemNotFound, http.StatusNotFound, CodeItemNotFound),
	sentinelHandler(domain.ErrNotFound, http.StatusNotFound, CodeItemNotFound),
	sentinelHandler(domain.ErrInvalidItem, http.StatusBadRequest, CodeValidationFailed),
	sentinelHandler(domain.ErrInvalidDocument, http.StatusBadRequest, CodeInvalidDocument),
}

// safeSentinels are errors whose text is safe to show to clients.
var safeSentinels = []error{
	domain.ErrItemNotFound,
	domain.ErrNotFound,
	domain.ErrInvalidItem,
	domain.ErrInvalidDocument,
	context.DeadlineExceeded,
	context.Canceled,
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code ErrorCode, message string) {
	writeJSON(w, status, ErrorResponse{Code: code, Message: message})
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	for _, s := range safeSentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// validationMessage keeps the validation detail, which never carries internals.
func validationMessage(err error) string {
	if errors.Is(err, domain.ErrInvalidItem) || errors.Is(err, domain.ErrInvalidDocument) {
		return err.Error()
	}
	return safeDomainMessage(err)
}

func sentinelHandler(sentinel error, status int, code ErrorCode) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	msg := validationMessage(err)
	for _, h := range errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, CodeInternalError, "internal error")
}
