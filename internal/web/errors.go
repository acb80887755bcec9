package web

// errors.go turns handler errors into JSON responses.
//
// Every error is logged with its technical detail and the request id, then
// mapped through core.MapError. Backend messages are shown as the primary
// text because the backend writes them for operators. A 401 from the backend
// carries the login redirect, and validation failures list their fields.

import (
	"context"
	"errors"
	"net/http"

	"github.com/JonMunkholm/crmdesk/internal/core"
	"github.com/JonMunkholm/crmdesk/internal/crmapi"
	"github.com/JonMunkholm/crmdesk/internal/logging"
)

// ErrorResponse is the JSON body of every error.
type ErrorResponse struct {
	Error    string            `json:"error"`
	Message  string            `json:"message"`
	Action   string            `json:"action,omitempty"`
	Code     string            `json:"code"`
	Redirect string            `json:"redirect,omitempty"`
	Fields   map[string]string `json:"fields,omitempty"`
}

// respondError logs err and writes its user-facing form with statusCode.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error, statusCode int) {
	userMsg := core.MapError(err)

	logging.FromContext(r.Context()).Error("request error",
		"path", r.URL.Path,
		"method", r.Method,
		"status", statusCode,
		"error", err.Error(),
		"code", userMsg.Code,
	)

	writeJSON(w, r, statusCode, errorBody(err, userMsg))
}

func errorBody(err error, msg core.UserMessage) ErrorResponse {
	body := ErrorResponse{
		Error:   msg.Message,
		Message: msg.Message,
		Action:  msg.Action,
		Code:    msg.Code,
	}

	var authErr *crmapi.AuthError
	var apiErr *crmapi.APIError
	var fieldErrs core.ValidationErrors
	switch {
	case errors.As(err, &authErr):
		body.Error = authErr.Message
		body.Redirect = authErr.RedirectTarget()
	case errors.Is(err, core.ErrUnauthorized):
		body.Redirect = "/login"
	case errors.As(err, &apiErr):
		body.Error = apiErr.Message
	case errors.As(err, &fieldErrs):
		body.Fields = fieldErrs.Fields()
	}
	return body
}

// statusFor picks the HTTP status for err.
func statusFor(err error) int {
	var apiErr *crmapi.APIError
	switch {
	case errors.Is(err, core.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, core.ErrNetwork):
		return http.StatusBadGateway
	case errors.As(err, &apiErr):
		if apiErr.Status >= 400 && apiErr.Status < 500 {
			return apiErr.Status
		}
		return http.StatusBadGateway
	case errors.Is(err, core.ErrValidation):
		return http.StatusUnprocessableEntity
	case errors.Is(err, core.ErrImportInProgress):
		return http.StatusConflict
	case errors.Is(err, core.ErrFileTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, core.ErrUnknownScreen):
		return http.StatusNotFound
	case errors.Is(err, core.ErrNoValidRows),
		errors.Is(err, core.ErrNoFile),
		errors.Is(err, core.ErrInvalidDate):
		return http.StatusBadRequest
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// fail is respondError with the status derived from err.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	s.respondError(w, r, err, statusFor(err))
}
