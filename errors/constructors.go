package errors

import (
	"fmt"
)

// ConfigNotFound creates a configuration not found error
func ConfigNotFound(path string) *SessionError {
	return New(ErrCodeConfigNotFound, fmt.Sprintf("configuration file not found: %s", path)).
		WithDetail("path", path)
}

// ConfigInvalid creates an invalid configuration error
func ConfigInvalid(reason string) *SessionError {
	return New(ErrCodeConfigInvalid, fmt.Sprintf("invalid configuration: %s", reason))
}

// SnapshotDecode creates an error for a durable record that cannot be decoded
func SnapshotDecode(key string, err error) *SessionError {
	return Wrap(err, ErrCodeSnapshotDecode, fmt.Sprintf("cannot decode snapshot '%s'", key)).
		WithDetail("key", key)
}

// SnapshotEncode creates an error for a state that cannot be encoded
func SnapshotEncode(key string, err error) *SessionError {
	return Wrap(err, ErrCodeSnapshotEncode, fmt.Sprintf("cannot encode snapshot '%s'", key)).
		WithDetail("key", key)
}

// StorageRead creates a storage read failure error
func StorageRead(backend, key string, err error) *SessionError {
	return Wrap(err, ErrCodeStorageRead, fmt.Sprintf("%s storage: read '%s'", backend, key)).
		WithDetail("backend", backend).
		WithDetail("key", key)
}

// StorageWrite creates a storage write failure error
func StorageWrite(backend, key string, err error) *SessionError {
	return Wrap(err, ErrCodeStorageWrite, fmt.Sprintf("%s storage: write '%s'", backend, key)).
		WithDetail("backend", backend).
		WithDetail("key", key)
}

// UnknownMessageType creates an error for a bridge message with an unrecognized type
func UnknownMessageType(msgType string) *SessionError {
	return New(ErrCodeBridgeUnknownType, fmt.Sprintf("unknown bridge message type '%s'", msgType)).
		WithDetail("type", msgType)
}

// OriginRejected creates an error for a bridge peer outside the allow-list
func OriginRejected(origin string) *SessionError {
	return New(ErrCodeOriginRejected, fmt.Sprintf("origin '%s' is not allowed", origin)).
		WithDetail("origin", origin)
}

// EmptyCart creates an error for an order placed without cart lines
func EmptyCart() *SessionError {
	return New(ErrCodeEmptyCart, "cart is empty")
}

// BridgeDecode creates an error for a bridge payload that cannot be decoded
func BridgeDecode(err error) *SessionError {
	return Wrap(err, ErrCodeBridgeDecode, "cannot decode bridge message")
}

// BridgeDial creates an error for a bridge connection that cannot be established
func BridgeDial(url string, err error) *SessionError {
	return Wrap(err, ErrCodeBridgeDial, fmt.Sprintf("cannot connect to bridge at %s", url)).
		WithDetail("url", url)
}

// HostRunning creates an error for a session that already has a live host
func HostRunning(pid int, lockPath string) *SessionError {
	return New(ErrCodeHostRunning, fmt.Sprintf("a host is already running for this session (PID %d)", pid)).
		WithDetail("pid", pid).
		WithDetail("lock", lockPath)
}
