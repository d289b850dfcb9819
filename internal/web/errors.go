package web

// errors.go provides unified error response handling for the web layer.
//
// Errors are logged with full technical detail server-side and returned to
// clients as user-friendly messages with an action and a support code,
// formatted for the kind of request (HTMX, JSON or plain HTML).

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/JonMunkholm/bizvisa/internal/logging"
	"github.com/JonMunkholm/bizvisa/internal/visa"
	"github.com/JonMunkholm/bizvisa/internal/web/templates"
)

// ErrorResponse represents the JSON structure for API error responses.
// Includes both machine-readable (Code) and human-readable (Message, Action) fields.
type ErrorResponse struct {
	Error   string   `json:"error"`
	Message string   `json:"message"`
	Action  string   `json:"action,omitempty"`
	Code    string   `json:"code"`
	Missing []string `json:"missing,omitempty"`
}

// statusFor maps a lookup error to an HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, visa.ErrIncompleteQuery):
		return http.StatusBadRequest
	case errors.Is(err, visa.ErrNoMatch):
		return http.StatusNotFound
	case visa.IsUnavailable(err):
		return http.StatusServiceUnavailable
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, errRateLimited):
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// respondError logs err and writes a user-friendly response.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error, statusCode int) {
	userMsg := visa.MapError(err)

	logger := logging.FromContext(r.Context())
	attrs := []any{
		"path", r.URL.Path,
		"method", r.Method,
		"status", statusCode,
		"error", err.Error(),
		"code", userMsg.Code,
	}
	if statusCode >= http.StatusInternalServerError {
		logger.Error("request error", attrs...)
	} else {
		logger.Warn("request rejected", attrs...)
	}

	switch {
	case isHTMX(r):
		renderPage(w, r, statusCode, templates.ErrorAlert(userMsg.Message, userMsg.Action, userMsg.Code))
	case wantsJSON(r):
		respondErrorJSON(w, err, userMsg, statusCode)
	default:
		renderPage(w, r, statusCode, templates.Layout("Business Visas",
			templates.ErrorAlert(userMsg.Message, userMsg.Action, userMsg.Code)))
	}
}

// respondErrorJSON writes a JSON error response.
func respondErrorJSON(w http.ResponseWriter, err error, msg visa.UserMessage, statusCode int) {
	resp := ErrorResponse{
		Error:   msg.Message,
		Message: msg.Message,
		Action:  msg.Action,
		Code:    msg.Code,
	}
	var qe *visa.QueryError
	if errors.As(err, &qe) {
		resp.Missing = qe.Missing
	}
	writeJSON(w, statusCode, resp)
}

// isHTMX checks if the request is an HTMX request.
func isHTMX(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true"
}

// wantsJSON checks if the client prefers JSON response.
func wantsJSON(r *http.Request) bool {
	if strings.Contains(r.Header.Get("Accept"), "application/json") {
		return true
	}
	if strings.Contains(r.Header.Get("Content-Type"), "application/json") {
		return true
	}
	// API routes default to JSON
	return strings.HasPrefix(r.URL.Path, "/api/")
}
