package errors

import (
	"fmt"
	"testing"
)

func TestSessionError(t *testing.T) {
	// Test basic error creation
	err := New(ErrCodeEmptyCart, "cart is empty")
	if err.Code != ErrCodeEmptyCart {
		t.Errorf("expected code %s, got %s", ErrCodeEmptyCart, err.Code)
	}

	// Test error wrapping
	cause := fmt.Errorf("underlying error")
	wrapped := Wrap(cause, ErrCodeStorageWrite, "write failed")

	if wrapped.Unwrap() != cause {
		t.Error("Unwrap should return the cause")
	}

	if !Is(wrapped, ErrCodeStorageWrite) {
		t.Error("Is should return true for matching code")
	}

	if Is(wrapped, ErrCodeStorageRead) {
		t.Error("Is should return false for non-matching code")
	}

	// Codes survive fmt.Errorf wrapping
	outer := fmt.Errorf("saving: %w", wrapped)
	if GetCode(outer) != ErrCodeStorageWrite {
		t.Errorf("expected code %s through wrapping, got %s", ErrCodeStorageWrite, GetCode(outer))
	}

	if GetCode(cause) != "" {
		t.Error("GetCode should be empty for plain errors")
	}

	detailed := err.WithDetail("lines", 0)
	if detailed.Details["lines"] != 0 {
		t.Error("WithDetail should add details")
	}
}

func TestErrorConstructors(t *testing.T) {
	err := SnapshotDecode("mfe-global-state", fmt.Errorf("bad json"))
	if err.Code != ErrCodeSnapshotDecode {
		t.Errorf("expected code %s, got %s", ErrCodeSnapshotDecode, err.Code)
	}
	if err.Details["key"] != "mfe-global-state" {
		t.Error("SnapshotDecode should include key detail")
	}

	err = OriginRejected("https://evil.example")
	if err.Code != ErrCodeOriginRejected {
		t.Errorf("expected code %s, got %s", ErrCodeOriginRejected, err.Code)
	}
	if err.Details["origin"] != "https://evil.example" {
		t.Error("OriginRejected should include origin detail")
	}

	err = StorageRead("file", "k", fmt.Errorf("eio"))
	if err.Details["backend"] != "file" {
		t.Error("StorageRead should include backend detail")
	}
}

func TestFind(t *testing.T) {
	inner := BridgeDial("ws://127.0.0.1:1/bridge", fmt.Errorf("refused"))
	wrapped := fmt.Errorf("notify: %w", inner)

	if got := Find(wrapped); got != inner {
		t.Errorf("Find() = %v, want %v", got, inner)
	}
	if Find(fmt.Errorf("plain")) != nil {
		t.Error("Find() should return nil without a SessionError")
	}
	if !Is(wrapped, ErrCodeBridgeDial) {
		t.Error("Is() should see through fmt wrapping")
	}
}
