package core

// # Error Codes Reference
//
// This file defines user-friendly error messages with codes for support reference.
// When operators encounter errors, they can quote the error code to support staff
// for faster diagnosis.
//
// Errors are matched first against sentinel errors (errors.Is), then against
// message patterns for errors that arrive as plain text.
//
// # Network and Session Errors (NET, AUTH)
//
//	NET001  - Network error: The backend could not be reached
//	          Action: Check your connection and try again
//	          Sentinel: ErrNetwork
//
//	AUTH001 - Session expired: The backend no longer accepts the session
//	          Action: Please sign in again
//	          Sentinel: ErrUnauthorized
//
//	AUTH002 - Account blocked: The account is blocked or deactivated
//	          Action: Contact an administrator
//	          Sentinel: ErrAccountBlocked
//
// # Import Errors (IMP)
//
//	IMP001  - No valid rows: Nothing usable was found in the file
//	          Action: Include a header row with Customer, Phone, Sold at, Total credits
//	          Sentinel: ErrNoValidRows
//
//	IMP002  - Import in progress: Another import is still running
//	          Action: Wait for the current import to finish
//	          Sentinel: ErrImportInProgress
//
//	IMP003  - Import failed: The backend did not accept the batch
//	          Action: Fix the file and import again
//	          Sentinel: ErrImportFailed
//
// # File Errors (FILE)
//
//	FILE001 - File too large: File exceeds the maximum size limit
//	          Action: Split the file into smaller files
//	          Sentinel: ErrFileTooLarge
//
//	FILE002 - No file: No file was selected
//	          Action: Please select a CSV file to import
//	          Sentinel: ErrNoFile
//
// # Validation Errors (VAL)
//
//	VAL001  - Invalid form: One or more fields are invalid
//	          Action: Correct the listed fields and try again
//	          Sentinel: ErrValidation
//
//	VAL002  - Invalid date: A date filter could not be read
//	          Action: Use YYYY-MM-DD
//	          Sentinel: ErrInvalidDate
//
// # Request Errors (SCR, API, REQ, RATE)
//
//	SCR001  - Unknown list: The requested list does not exist
//	API001  - Backend rejected: The server rejected the request
//	REQ001  - Request cancelled
//	REQ002  - Request timed out
//	RATE001 - Too many requests
//
// # Default Error (ERR000)
//
// Fallback when nothing matches. Check the application logs for the
// original technical error; every logged error carries the request_id.

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string // What happened (user-friendly)
	Action  string // What to do about it
	Code    string // Error code for support reference
}

var (
	msgNetwork = UserMessage{
		Message: "Network error. Please check your connection.",
		Action:  "Check your connection and try again",
		Code:    "NET001",
	}
	msgFileTooLarge = UserMessage{
		Message: "File exceeds maximum size limit",
		Action:  "Split the file into smaller files",
		Code:    "FILE001",
	}
	msgNoFile = UserMessage{
		Message: "No file was selected",
		Action:  "Please select a CSV file to import",
		Code:    "FILE002",
	}
)

// sentinelMessage maps a sentinel error to its user message.
type sentinelMessage struct {
	target error
	msg    UserMessage
}

// sentinelMessages is checked in order with errors.Is. An error can wrap more
// than one sentinel (an import that failed on the network), so the more
// specific cause comes first.
var sentinelMessages = []sentinelMessage{
	{ErrNetwork, msgNetwork},
	{ErrAccountBlocked, UserMessage{
		Message: "Your account has been blocked or deactivated",
		Action:  "Contact an administrator",
		Code:    "AUTH002",
	}},
	{ErrUnauthorized, UserMessage{
		Message: "Your session has expired",
		Action:  "Please sign in again",
		Code:    "AUTH001",
	}},
	{ErrNoValidRows, UserMessage{
		Message: "No valid rows to import",
		Action:  "CSV must have a header row with Customer, Phone, Sold at, Total credits (and optionally Email, Purchase date, Expiry, Package price)",
		Code:    "IMP001",
	}},
	{ErrImportInProgress, UserMessage{
		Message: "An import is already in progress",
		Action:  "Wait for the current import to finish",
		Code:    "IMP002",
	}},
	{ErrImportFailed, UserMessage{
		Message: "Import failed",
		Action:  "Fix the file and import again",
		Code:    "IMP003",
	}},
	{ErrFileTooLarge, msgFileTooLarge},
	{ErrNoFile, msgNoFile},
	{ErrValidation, UserMessage{
		Message: "Some fields are invalid",
		Action:  "Correct the listed fields and try again",
		Code:    "VAL001",
	}},
	{ErrInvalidDate, UserMessage{
		Message: "Invalid date format",
		Action:  "Use YYYY-MM-DD",
		Code:    "VAL002",
	}},
	{ErrUnknownScreen, UserMessage{
		Message: "This list does not exist",
		Action:  "Check the address and try again",
		Code:    "SCR001",
	}},
	{ErrBackendRejected, UserMessage{
		Message: "The server rejected the request",
		Action:  "Review the details and try again",
		Code:    "API001",
	}},
	{context.Canceled, UserMessage{
		Message: "Request was cancelled",
		Action:  "Please try again",
		Code:    "REQ001",
	}},
	{context.DeadlineExceeded, UserMessage{
		Message: "Request timed out",
		Action:  "Please try again in a few moments",
		Code:    "REQ002",
	}},
}

// errorPattern defines a pattern to match and its corresponding user message.
type errorPattern struct {
	pattern string
	msg     UserMessage
}

// errorPatterns maps technical error text (case-insensitive) to user messages
// for errors that carry no sentinel. The first matching pattern wins.
var errorPatterns = []errorPattern{
	{pattern: "connection refused", msg: msgNetwork},
	{pattern: "no such host", msg: msgNetwork},
	{pattern: "network error", msg: msgNetwork},
	{pattern: "request body too large", msg: msgFileTooLarge},
	{pattern: "file too large", msg: msgFileTooLarge},
	{pattern: "no file provided", msg: msgNoFile},
	{pattern: "rate limit", msg: UserMessage{
		Message: "Too many requests",
		Action:  "Please wait a moment before trying again",
		Code:    "RATE001",
	}},
}

// defaultMessage is returned when no pattern matches.
var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or contact support",
	Code:    "ERR000",
}

// MapError converts a technical error to a user-friendly message.
// Returns an empty UserMessage for a nil error.
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	for _, sm := range sentinelMessages {
		if errors.Is(err, sm.target) {
			return sm.msg
		}
	}

	errStr := strings.ToLower(err.Error())
	for _, ep := range errorPatterns {
		if strings.Contains(errStr, ep.pattern) {
			return ep.msg
		}
	}

	return defaultMessage
}

// FormatUserError creates a formatted error string for display.
// The format is: "Message (Code: XXX). Action"
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}

// IsUserFacing checks if an error maps to a specific message rather than the
// generic ERR000 fallback.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	return MapError(err).Code != defaultMessage.Code
}

// UserError pairs a technical error with its user-friendly message.
// The original error is preserved for logging.
type UserError struct {
	Technical error       // Original technical error for logging
	User      UserMessage // User-friendly message for display
}

func (e *UserError) Error() string {
	return e.User.Message
}

func (e *UserError) Unwrap() error {
	return e.Technical
}

// NewUserError maps a technical error to a UserError. Returns nil if err is nil.
func NewUserError(err error) *UserError {
	if err == nil {
		return nil
	}
	return &UserError{
		Technical: err,
		User:      MapError(err),
	}
}
