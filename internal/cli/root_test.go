package cli

import (
	"os"
	"strings"
	"testing"
)

func TestNewRootCommandStructure(t *testing.T) {
	cmd := NewRootCommand()
	if cmd == nil {
		t.Fatal("NewRootCommand should return a command")
	}

	if cmd.Use != "scitext" {
		t.Errorf("expected Use='scitext', got %q", cmd.Use)
	}
	if cmd.Short == "" {
		t.Error("Short should not be empty")
	}
	if cmd.Long == "" {
		t.Error("Long should not be empty")
	}
	if !strings.Contains(cmd.Version, Version) {
		t.Errorf("Version string %q should include %q", cmd.Version, Version)
	}
}

func TestNewRootCommandSubcommands(t *testing.T) {
	cmd := NewRootCommand()

	subNames := make(map[string]bool)
	for _, sub := range cmd.Commands() {
		subNames[sub.Name()] = true
	}

	for _, name := range []string{"normalize", "tokenize"} {
		if !subNames[name] {
			t.Errorf("expected subcommand %q not found", name)
		}
	}
}

func TestNewRootCommandGlobalFlags(t *testing.T) {
	cmd := NewRootCommand()

	for _, name := range []string{"config", "log-level", "history-dir", "save"} {
		if cmd.PersistentFlags().Lookup(name) == nil {
			t.Errorf("persistent flag %q should exist", name)
		}
	}
}

func TestNormalizeCommandFlags(t *testing.T) {
	cmd := newNormalizeCommand(&deps{})

	for _, name := range []string{"input", "no-clean", "resume"} {
		if cmd.Flags().Lookup(name) == nil {
			t.Errorf("normalize flag %q should exist", name)
		}
	}
}

func TestTokenizeCommandFlags(t *testing.T) {
	cmd := newTokenizeCommand(&deps{})

	for _, name := range []string{"input", "entities", "sentences", "exclude-punct"} {
		if cmd.Flags().Lookup(name) == nil {
			t.Errorf("tokenize flag %q should exist", name)
		}
	}

	entities := cmd.Flags().Lookup("entities")
	if entities != nil && entities.DefValue != "true" {
		t.Errorf("entities flag should default to true, got %q", entities.DefValue)
	}
}

func TestReadLines(t *testing.T) {
	dir := t.TempDir()
	path := dir + "/input.txt"
	content := "first abstract\n\nsecond abstract\nthird without newline"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	texts, err := readLines(path)
	if err != nil {
		t.Fatal(err)
	}

	want := []string{"first abstract", "second abstract", "third without newline"}
	if len(texts) != len(want) {
		t.Fatalf("expected %d texts, got %d: %v", len(want), len(texts), texts)
	}
	for i, w := range want {
		if texts[i] != w {
			t.Errorf("text %d: expected %q, got %q", i, w, texts[i])
		}
	}
}

func TestReadLinesMissingFile(t *testing.T) {
	if _, err := readLines("/nonexistent/input.txt"); err == nil {
		t.Error("expected error for missing file")
	}
}
