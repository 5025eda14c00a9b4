package exitcode

import (
	"os"
	"strings"

	stderrors "errors"

	"github.com/civicdesk/civicdesk/internal/errors"
)

// Exit codes for consistent error handling across the CLI
const (
	// Success indicates successful execution
	Success = 0

	// GeneralError indicates a general error condition
	GeneralError = 1

	// UsageError indicates invalid command usage (bad flags, missing args, etc.)
	UsageError = 2

	// AuthError indicates an authentication failure or an expired session
	AuthError = 3

	// ValidationError indicates the backend or client rejected the input
	ValidationError = 4

	// NetworkError indicates a network connectivity issue
	NetworkError = 5

	// Interrupted indicates the user cancelled the operation
	Interrupted = 130
)

// Exit terminates the program with the given exit code
func Exit(code int) {
	os.Exit(code)
}

// ExitWithError exits with an appropriate code based on error type
func ExitWithError(err error) {
	if err == nil {
		Exit(Success)
		return
	}

	Exit(DetermineExitCode(err))
}

// DetermineExitCode analyzes an error and returns the appropriate exit code
func DetermineExitCode(err error) int {
	if err == nil {
		return Success
	}

	var deskErr *errors.CivicdeskError
	if stderrors.As(err, &deskErr) {
		switch deskErr.Code {
		case errors.ErrCodeAuthFailed, errors.ErrCodeAuthUnauthorized,
			errors.ErrCodeAuthInFlight, errors.ErrCodeAuthNotLoggedIn,
			errors.ErrCodeAuthRegister:
			return AuthError
		case errors.ErrCodeComplaintInvalidType, errors.ErrCodeComplaintTooManyImages,
			errors.ErrCodeComplaintDuplicateImage, errors.ErrCodeComplaintMissingField:
			return ValidationError
		case errors.ErrCodeAPIRequest:
			return NetworkError
		case errors.ErrCodeConfigNotFound, errors.ErrCodeConfigInvalid,
			errors.ErrCodeConfigUnmarshal:
			return UsageError
		}
	}

	errMsg := strings.ToLower(err.Error())

	if strings.Contains(errMsg, "unauthorized") || strings.Contains(errMsg, "not logged in") {
		return AuthError
	}
	if strings.Contains(errMsg, "connection") || strings.Contains(errMsg, "timeout") ||
		strings.Contains(errMsg, "unreachable") {
		return NetworkError
	}
	if strings.Contains(errMsg, "required flag") || strings.Contains(errMsg, "unknown command") ||
		strings.Contains(errMsg, "invalid flag") {
		return UsageError
	}

	return GeneralError
}

// GetExitCodeDescription returns a human-readable description of an exit code
func GetExitCodeDescription(code int) string {
	switch code {
	case Success:
		return "Success"
	case GeneralError:
		return "General error"
	case UsageError:
		return "Usage error (invalid flags or arguments)"
	case AuthError:
		return "Authentication error"
	case ValidationError:
		return "Validation error"
	case NetworkError:
		return "Network error"
	case Interrupted:
		return "Interrupted"
	default:
		return "Unknown error"
	}
}
