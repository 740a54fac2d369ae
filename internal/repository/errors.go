package repository

import "errors"

// Common repository errors
var (
	// ErrTaskNotFound is returned when a task does not exist or is not
	// owned by the calling user.
	ErrTaskNotFound = errors.New("task not found")

	// ErrTagNotFound is returned when a tag does not exist or is not
	// owned by the calling user.
	ErrTagNotFound = errors.New("tag not found")

	// ErrUserNotFound is returned when a user is not found
	ErrUserNotFound = errors.New("user not found")

	// ErrDuplicateTagName is returned when a tag name already exists
	// for the same user.
	ErrDuplicateTagName = errors.New("tag name already exists")
)

// ValidationError reports one or more invalid input fields. The wrapped
// error is a multierror listing every violation found.
type ValidationError struct {
	Err error
}

func (e *ValidationError) Error() string {
	return "validation failed: " + e.Err.Error()
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var verr *ValidationError
	return errors.As(err, &verr)
}
