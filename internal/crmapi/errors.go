package crmapi

import (
	"fmt"

	"github.com/JonMunkholm/crmdesk/internal/core"
)

// DefaultMessage is used when a failed response carries no message.
const DefaultMessage = "Request failed"

// NetworkMessage is the message of every transport failure.
const NetworkMessage = "Network error. Please check your connection."

// NetworkError means the request never produced an HTTP response.
type NetworkError struct {
	Method string
	Path   string
	Err    error
}

func (e *NetworkError) Error() string {
	return NetworkMessage
}

func (e *NetworkError) Unwrap() []error {
	return []error{core.ErrNetwork, e.Err}
}

// Detail describes the underlying transport failure for logs.
func (e *NetworkError) Detail() string {
	return fmt.Sprintf("%s %s: %v", e.Method, e.Path, e.Err)
}

// AuthError is a 401 answer. The session has already been torn down when it is returned.
type AuthError struct {
	Blocked bool
	Message string
}

func (e *AuthError) Error() string {
	return e.Message
}

func (e *AuthError) Unwrap() []error {
	if e.Blocked {
		return []error{core.ErrUnauthorized, core.ErrAccountBlocked}
	}
	return []error{core.ErrUnauthorized}
}

// RedirectTarget is where the operator is sent to sign in again.
func (e *AuthError) RedirectTarget() string {
	if e.Blocked {
		return "/login?blocked=1"
	}
	return "/login"
}

// APIError is any other non-2xx answer, or a 2xx answer missing its payload.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return e.Message
}

func (e *APIError) Unwrap() error {
	return core.ErrBackendRejected
}
