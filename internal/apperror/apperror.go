// Package apperror defines the error kinds shared by the registry's layers.
//
// Every failure a user can see falls into one of four kinds:
//
//	ErrStorage    - the helper table could not be read or written
//	ErrUpload     - a photo could not be persisted
//	ErrValidation - a form value is out of range
//	ErrAuth       - the submitted credentials do not match
//
// Services return *AppError values (possibly wrapped with fmt.Errorf("...: %w")).
// The HTTP layer maps the sentinel to a status code with errors.Is and shows
// Message to the user.
package apperror

import (
	"errors"
	"fmt"
)

var (
	ErrStorage    = errors.New("storage error")
	ErrUpload     = errors.New("upload error")
	ErrValidation = errors.New("validation error")
	ErrAuth       = errors.New("invalid credentials")
)

type AppError struct {
	Err     error  // sentinel kind
	Message string // Human-readable error message
	Field   string // Optional: field causing the error
	Cause   error  // Optional: underlying I/O or codec failure
}

func (e *AppError) Error() string {
	return e.Message
}

// Unwrap exposes both the kind and the cause, so errors.Is matches
// ErrStorage as well as, say, fs.ErrPermission.
func (e *AppError) Unwrap() []error {
	if e.Cause == nil {
		return []error{e.Err}
	}
	return []error{e.Err, e.Cause}
}

// Storage reports a failed table operation. op names what was attempted,
// e.g. "reading helper table".
func Storage(op string, cause error) *AppError {
	return &AppError{
		Err:     ErrStorage,
		Message: fmt.Sprintf("%s: %v", op, cause),
		Cause:   cause,
	}
}

// Upload reports a photo that could not be written.
func Upload(filename string, cause error) *AppError {
	return &AppError{
		Err:     ErrUpload,
		Message: fmt.Sprintf("saving photo %s: %v", filename, cause),
		Field:   "photo",
		Cause:   cause,
	}
}

func ValidationFailed(field, message string) *AppError {
	return &AppError{
		Err:     ErrValidation,
		Message: message,
		Field:   field,
	}
}

// InvalidCredentials is returned for any username/password pair the
// verifier rejects. The message does not say which half was wrong.
func InvalidCredentials() *AppError {
	return &AppError{
		Err:     ErrAuth,
		Message: "Invalid username or password",
	}
}
