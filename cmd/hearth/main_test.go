package main

import (
	"path/filepath"
	"testing"
)

func TestIsDefaultConfig(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	if !isDefaultConfig("~/.config/hearth/hearth.db") {
		t.Error("Expected unexpanded default path to count as default")
	}
	if !isDefaultConfig(filepath.Join(home, ".config", "hearth", "hearth.db")) {
		t.Error("Expected home-resolved default path to count as default")
	}
	// An explicit path that merely ends in hearth/hearth.db stays sqlite.
	if isDefaultConfig(filepath.Join(home, "data", "hearth", "hearth.db")) {
		t.Error("Expected explicit path to not count as default")
	}
}
