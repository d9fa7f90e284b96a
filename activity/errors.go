package activity

import (
	"errors"
	"fmt"
)

// ErrInvalidActivity indicates an activity failed validation before reaching
// the store.
var ErrInvalidActivity = errors.New("invalid activity")

type (
	// ConfigurationError reports a malformed connection URI or an otherwise
	// unusable configuration value. It is fatal at startup.
	ConfigurationError struct {
		// Field names the offending setting (e.g. "uri", "database").
		Field string
		// Err is the underlying cause.
		Err error
	}

	// PersistenceError reports a failure reaching or querying the store.
	PersistenceError struct {
		// Op is the repository operation that failed.
		Op string
		// Err is the underlying driver error.
		Err error
	}
)

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid configuration %q: %v", e.Field, e.Err)
}

func (e *ConfigurationError) Unwrap() error { return e.Err }

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("activity %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// NewPersistenceError wraps err for operation op. It returns nil when err is
// nil and leaves errors that are already PersistenceErrors untouched.
func NewPersistenceError(op string, err error) error {
	if err == nil {
		return nil
	}
	var pe *PersistenceError
	if errors.As(err, &pe) {
		return err
	}
	return &PersistenceError{Op: op, Err: err}
}

// IsPersistence reports whether err is a PersistenceError.
func IsPersistence(err error) bool {
	var pe *PersistenceError
	return errors.As(err, &pe)
}

// IsConfiguration reports whether err is a ConfigurationError.
func IsConfiguration(err error) bool {
	var ce *ConfigurationError
	return errors.As(err, &ce)
}
