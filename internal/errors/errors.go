package errors

import (
	"fmt"
	"os"

	"github.com/hearth-planner/hearth/internal/logger"
)

// Format renders err with the standard "Error: " prefix used on stderr.
func Format(err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Error: %v", err)
}

// Fatal logs the error, prints it to stderr, and exits with code 1. A nil
// error is a no-op so callers can pass command results through unchecked.
func Fatal(err error) {
	if err == nil {
		return
	}
	logger.Error("Command failed", "error", err)
	fmt.Fprintln(os.Stderr, Format(err))
	os.Exit(1)
}
