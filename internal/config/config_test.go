package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.Prompt != "pie> " || !cfg.Color || cfg.JSON {
		t.Errorf("Default() = %+v", cfg)
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pie.yaml")
	src := "prompt: \"λ> \"\ncolor: false\njson: true\n"
	if err := os.WriteFile(path, []byte(src), 0644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.Prompt != "λ> " {
		t.Errorf("Prompt = %q", cfg.Prompt)
	}
	if cfg.Color {
		t.Error("Color should be false")
	}
	if !cfg.JSON {
		t.Error("JSON should be true")
	}
}

func TestLoadFillsDefaultPrompt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pie.yaml")
	if err := os.WriteFile(path, []byte("color: true\n"), 0644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.Prompt != "pie> " {
		t.Errorf("Prompt = %q, want the default", cfg.Prompt)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("loading a missing file should fail")
	}
}
