package common

import (
	"errors"
	"fmt"
)

const (
	ErrTypeGeneric    = "NamecyclerGenericError"
	ErrTypeConfig     = "NamecyclerConfigError"
	ErrTypeAPI        = "NamecyclerAPIError"
	ErrTypeTransport  = "NamecyclerTransportError"
	ErrTypeDecode     = "NamecyclerDecodeError"
	ErrTypeValidation = "NamecyclerValidationError"
)

var (
	ErrMissingToken = errors.New("BOT_TOKEN is not set")
	ErrNotRunning   = errors.New("rename loop is not running")
	ErrNoConnection = errors.New("no business connection bound")
)

type NamecyclerError struct {
	Message string
	Type    string
	Err     error
}

func (e *NamecyclerError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

func (e *NamecyclerError) Unwrap() error {
	return e.Err
}

func NewNamecyclerError(message, errType string, err error) *NamecyclerError {
	return &NamecyclerError{
		Message: message,
		Type:    errType,
		Err:     err,
	}
}

// IsErrType reports whether err wraps a NamecyclerError of the given type.
func IsErrType(err error, errType string) bool {
	var nErr *NamecyclerError
	if errors.As(err, &nErr) {
		return nErr.Type == errType
	}
	return false
}
