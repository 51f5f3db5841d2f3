package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/grovetools/sessionsync/errors"
)

// ErrorHandler provides user-friendly error messages
type ErrorHandler struct {
	Verbose bool
	Out     io.Writer
}

// NewErrorHandler creates a new error handler
func NewErrorHandler(verbose bool) *ErrorHandler {
	return &ErrorHandler{
		Verbose: verbose,
		Out:     os.Stderr,
	}
}

// Handle provides user-friendly error messages based on error code
func (h *ErrorHandler) Handle(err error) error {
	if err == nil {
		return nil
	}

	se := errors.Find(err)

	switch errors.GetCode(err) {
	case errors.ErrCodeConfigNotFound:
		fmt.Fprintf(h.Out, "❌ Configuration not found. Create a sessionsync.yml or pass --config.\n")

	case errors.ErrCodeConfigInvalid:
		fmt.Fprintf(h.Out, "❌ %v\n", err)
		fmt.Fprintf(h.Out, "Run 'sessionsync schema config' to see the accepted settings.\n")

	case errors.ErrCodeEmptyCart:
		fmt.Fprintf(h.Out, "❌ Your cart is empty. Add products with 'sessionsync cart add <id>'.\n")

	case errors.ErrCodeBridgeDial:
		fmt.Fprintf(h.Out, "❌ Could not reach the host at %v\n", se.Details["url"])
		fmt.Fprintf(h.Out, "Start one with 'sessionsync host' or check bridge.url.\n")

	case errors.ErrCodeHostRunning:
		fmt.Fprintf(h.Out, "❌ %s\n", se.Message)
		fmt.Fprintf(h.Out, "Stop it first, or use --session to host a different session.\n")

	case errors.ErrCodeStorageOpen:
		fmt.Fprintf(h.Out, "❌ Could not open session storage: %v\n", err)

	case errors.ErrCodeInvalidInput:
		fmt.Fprintf(h.Out, "❌ %s\n", se.Message)
		for field, problem := range se.Details {
			fmt.Fprintf(h.Out, "   %s: %v\n", field, problem)
		}

	default:
		fmt.Fprintf(h.Out, "❌ Error: %v\n", err)
	}

	if h.Verbose && se != nil {
		fmt.Fprintf(h.Out, "\nError details:\n%s\n", se.ToJSON())
	}
	return err
}
