package errors

import (
	"encoding/json"
	"fmt"
)

// ErrorCode represents a specific error condition
type ErrorCode string

const (
	// Configuration errors
	ErrCodeConfigNotFound ErrorCode = "CONFIG_NOT_FOUND"
	ErrCodeConfigInvalid  ErrorCode = "CONFIG_INVALID"

	// Durable snapshot errors
	ErrCodeSnapshotEncode ErrorCode = "SNAPSHOT_ENCODE"
	ErrCodeSnapshotDecode ErrorCode = "SNAPSHOT_DECODE"
	ErrCodeStorageOpen    ErrorCode = "STORAGE_OPEN"
	ErrCodeStorageRead    ErrorCode = "STORAGE_READ"
	ErrCodeStorageWrite   ErrorCode = "STORAGE_WRITE"

	// Bridge errors
	ErrCodeBridgeDecode      ErrorCode = "BRIDGE_DECODE"
	ErrCodeBridgeUnknownType ErrorCode = "BRIDGE_UNKNOWN_TYPE"
	ErrCodeOriginRejected    ErrorCode = "BRIDGE_ORIGIN_REJECTED"
	ErrCodeBridgeDial        ErrorCode = "BRIDGE_DIAL"

	// Session errors
	ErrCodeEmptyCart   ErrorCode = "EMPTY_CART"
	ErrCodeHostRunning ErrorCode = "HOST_RUNNING"

	// General errors
	ErrCodeInternal     ErrorCode = "INTERNAL_ERROR"
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"
)

// SessionError represents a structured error with context
type SessionError struct {
	Code    ErrorCode              `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
	Cause   error                  `json:"-"`
}

// Error implements the error interface
func (e *SessionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *SessionError) Unwrap() error {
	return e.Cause
}

// WithDetail adds a detail to the error
func (e *SessionError) WithDetail(key string, value interface{}) *SessionError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// ToJSON converts the error to JSON
func (e *SessionError) ToJSON() string {
	data, _ := json.MarshalIndent(e, "", "  ")
	return string(data)
}

// New creates a new SessionError
func New(code ErrorCode, message string) *SessionError {
	return &SessionError{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an existing error with a SessionError
func Wrap(err error, code ErrorCode, message string) *SessionError {
	return &SessionError{
		Code:    code,
		Message: message,
		Cause:   err,
	}
}

// Is checks if an error is a specific SessionError code
func Is(err error, code ErrorCode) bool {
	return GetCode(err) == code && code != ""
}

// GetCode extracts the error code from an error, walking the Unwrap chain.
func GetCode(err error) ErrorCode {
	for err != nil {
		if sessErr, ok := err.(*SessionError); ok {
			return sessErr.Code
		}
		unwrapper, ok := err.(interface{ Unwrap() error })
		if !ok {
			return ""
		}
		err = unwrapper.Unwrap()
	}
	return ""
}

// Find returns the first SessionError in err's Unwrap chain, or nil.
func Find(err error) *SessionError {
	for err != nil {
		if sessErr, ok := err.(*SessionError); ok {
			return sessErr
		}
		unwrapper, ok := err.(interface{ Unwrap() error })
		if !ok {
			return nil
		}
		err = unwrapper.Unwrap()
	}
	return nil
}
