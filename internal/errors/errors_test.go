package errors

import (
	"fmt"
	"testing"
)

func TestFormat(t *testing.T) {
	if got := Format(nil); got != "" {
		t.Errorf("Expected empty string for nil error, got %q", got)
	}
	if got := Format(fmt.Errorf("boom")); got != "Error: boom" {
		t.Errorf("Unexpected format: %q", got)
	}
}
