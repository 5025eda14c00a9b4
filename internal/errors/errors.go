package errors

import (
	"fmt"
	"strings"
)

// ErrorCode represents a unique error identifier
type ErrorCode string

// Error categories
const (
	// Authentication errors (AUTH-001 to AUTH-099)
	ErrCodeAuthFailed       ErrorCode = "AUTH-001"
	ErrCodeAuthUnauthorized ErrorCode = "AUTH-002"
	ErrCodeAuthInFlight     ErrorCode = "AUTH-003"
	ErrCodeAuthNotLoggedIn  ErrorCode = "AUTH-004"
	ErrCodeAuthRegister     ErrorCode = "AUTH-005"

	// API errors (API-001 to API-099)
	ErrCodeAPIRequest    ErrorCode = "API-001"
	ErrCodeAPIResponse   ErrorCode = "API-002"
	ErrCodeAPIStatus     ErrorCode = "API-003"
	ErrCodeAPIEnvelope   ErrorCode = "API-004"
	ErrCodeAPIBaseURL    ErrorCode = "API-005"
	ErrCodeAPIPagination ErrorCode = "API-006"

	// Complaint errors (COMPLAINT-001 to COMPLAINT-099)
	ErrCodeComplaintInvalidType    ErrorCode = "COMPLAINT-001"
	ErrCodeComplaintTooManyImages  ErrorCode = "COMPLAINT-002"
	ErrCodeComplaintDuplicateImage ErrorCode = "COMPLAINT-003"
	ErrCodeComplaintImageRead      ErrorCode = "COMPLAINT-004"
	ErrCodeComplaintMissingField   ErrorCode = "COMPLAINT-005"

	// Secure store errors (STORE-001 to STORE-099)
	ErrCodeStoreWrite   ErrorCode = "STORE-001"
	ErrCodeStoreEncrypt ErrorCode = "STORE-002"
	ErrCodeStoreKeyInit ErrorCode = "STORE-003"

	// Configuration errors (CONFIG-001 to CONFIG-099)
	ErrCodeConfigNotFound  ErrorCode = "CONFIG-001"
	ErrCodeConfigInvalid   ErrorCode = "CONFIG-002"
	ErrCodeConfigUnmarshal ErrorCode = "CONFIG-003"
	ErrCodeConfigWrite     ErrorCode = "CONFIG-004"
)

// CivicdeskError represents an enhanced error with code, suggestions, and documentation
type CivicdeskError struct {
	Code        ErrorCode
	Message     string
	Suggestions []string
	DocsURL     string
	Cause       error
}

// Error implements the error interface
func (e *CivicdeskError) Error() string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("[%s] %s", e.Code, e.Message))

	if e.Cause != nil {
		b.WriteString(fmt.Sprintf(": %v", e.Cause))
	}

	if len(e.Suggestions) > 0 {
		b.WriteString("\n\nSuggestions:")
		for _, suggestion := range e.Suggestions {
			b.WriteString(fmt.Sprintf("\n  • %s", suggestion))
		}
	}

	if e.DocsURL != "" {
		b.WriteString(fmt.Sprintf("\n\nDocumentation: %s", e.DocsURL))
	}

	return b.String()
}

// Unwrap implements error unwrapping for errors.Is and errors.As
func (e *CivicdeskError) Unwrap() error {
	return e.Cause
}

// New creates a new CivicdeskError
func New(code ErrorCode, message string) *CivicdeskError {
	return &CivicdeskError{
		Code:    code,
		Message: message,
	}
}

// Wrap creates a new CivicdeskError wrapping an existing error
func Wrap(code ErrorCode, message string, cause error) *CivicdeskError {
	return &CivicdeskError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// WithSuggestion adds a suggestion to the error
func (e *CivicdeskError) WithSuggestion(suggestion string) *CivicdeskError {
	e.Suggestions = append(e.Suggestions, suggestion)
	return e
}

// WithSuggestions adds multiple suggestions to the error
func (e *CivicdeskError) WithSuggestions(suggestions ...string) *CivicdeskError {
	e.Suggestions = append(e.Suggestions, suggestions...)
	return e
}

// WithDocs adds a documentation URL to the error
func (e *CivicdeskError) WithDocs(url string) *CivicdeskError {
	e.DocsURL = url
	return e
}

// Common error constructors for frequently used errors

// NewAuthFailedError creates a login failure error carrying the backend message
func NewAuthFailedError(message string) *CivicdeskError {
	if message == "" {
		message = "login failed"
	}
	return New(ErrCodeAuthFailed, message).
		WithSuggestion("Check your identifier and password").
		WithSuggestion("Run 'civicdesk auth login' to try again")
}

// NewAuthInFlightError creates an error for a login attempted while one is pending
func NewAuthInFlightError() *CivicdeskError {
	return New(ErrCodeAuthInFlight, "another login or registration is already in progress").
		WithSuggestion("Wait for the pending attempt to finish before retrying")
}

// NewNotLoggedInError creates an error for operations that need a session
func NewNotLoggedInError() *CivicdeskError {
	return New(ErrCodeAuthNotLoggedIn, "not logged in").
		WithSuggestion("Run 'civicdesk auth login' to authenticate").
		WithSuggestion("Run 'civicdesk auth register' to create an account")
}

// NewUnauthorizedError creates an error for a 401 from any endpoint
func NewUnauthorizedError(path string) *CivicdeskError {
	return New(ErrCodeAuthUnauthorized, fmt.Sprintf("session rejected by server: %s", path)).
		WithSuggestion("Your session has been cleared; run 'civicdesk auth login' to sign in again")
}

// NewTooManyImagesError creates an error for exceeding the image cap
func NewTooManyImagesError(count, max int) *CivicdeskError {
	return New(ErrCodeComplaintTooManyImages, fmt.Sprintf("too many images: %d (maximum %d)", count, max)).
		WithSuggestion(fmt.Sprintf("Attach at most %d images per complaint", max))
}

// NewInvalidComplaintTypeError creates an error for an unknown complaint type
func NewInvalidComplaintTypeError(value string, valid []string) *CivicdeskError {
	return New(ErrCodeComplaintInvalidType, fmt.Sprintf("invalid complaint type: %s", value)).
		WithSuggestion("Use one of: " + strings.Join(valid, ", "))
}

// NewConfigNotFoundError creates a config file not found error
func NewConfigNotFoundError(path string) *CivicdeskError {
	return New(ErrCodeConfigNotFound, fmt.Sprintf("configuration file not found: %s", path)).
		WithSuggestion("Run 'civicdesk config init' to create a default configuration").
		WithSuggestion("Set CIVICDESK_BASE_URL to point at your municipal backend")
}

// NewConfigUnmarshalError creates a config parse error
func NewConfigUnmarshalError(path string, cause error) *CivicdeskError {
	return Wrap(ErrCodeConfigUnmarshal, fmt.Sprintf("failed to parse configuration file: %s", path), cause).
		WithSuggestion("Check the file is valid YAML")
}
