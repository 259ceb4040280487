package cli

import (
	"fmt"
	"os"

	"github.com/branchtools/sweep/errors"
)

// ErrorHandler provides user-friendly error messages
type ErrorHandler struct {
	Verbose bool
}

// NewErrorHandler creates a new error handler
func NewErrorHandler(verbose bool) *ErrorHandler {
	return &ErrorHandler{
		Verbose: verbose,
	}
}

// Handle provides user-friendly error messages based on error type
func (h *ErrorHandler) Handle(err error) error {
	switch errors.GetCode(err) {
	case errors.ErrCodeConfigNotFound:
		fmt.Fprintf(os.Stderr, "❌ Configuration not found. Run 'sweep init' to create one.\n")
		return err

	case errors.ErrCodeHookConfigNotFound:
		fmt.Fprintf(os.Stderr, "❌ No .pre-commit-config.yaml found in this repository.\n")
		fmt.Fprintf(os.Stderr, "Run 'sweep init' to create a starter configuration.\n")
		return err

	case errors.ErrCodeConfigValidation, errors.ErrCodeHookInvalid:
		fmt.Fprintf(os.Stderr, "❌ %v\n", err)
		return err

	case errors.ErrCodeHookFailed:
		if sweepErr, ok := err.(*errors.SweepError); ok {
			fmt.Fprintf(os.Stderr, "❌ Hook '%s' failed\n", sweepErr.Details["hook"])
		} else {
			fmt.Fprintf(os.Stderr, "❌ Hook failed: %v\n", err)
		}
		return err

	case errors.ErrCodeAPIUnauthorized:
		fmt.Fprintf(os.Stderr, "❌ Bitbucket rejected the credentials.\n")
		fmt.Fprintf(os.Stderr, "Check server.username/server.password in sweep.yml, or set SWEEP_USERNAME and SWEEP_PASSWORD.\n")
		return err

	case errors.ErrCodeStateNotFound:
		fmt.Fprintf(os.Stderr, "❌ No scan results found. Run 'sweep scan' first.\n")
		return err

	case errors.ErrCodeCommandNotFound:
		fmt.Fprintf(os.Stderr, "❌ Required command not found. Make sure git is installed.\n")
		return err

	default:
		// Generic error handling
		fmt.Fprintf(os.Stderr, "❌ Error: %v\n", err)

		// If verbose mode, show full error details
		if h.Verbose {
			if sweepErr, ok := err.(*errors.SweepError); ok {
				fmt.Fprintf(os.Stderr, "\nError details:\n%s\n", sweepErr.ToJSON())
			}
		}
		return err
	}
}
