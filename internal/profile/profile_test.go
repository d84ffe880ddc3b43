package profile

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoaderLoad(t *testing.T) {
	tmpDir := t.TempDir()
	yamlPath := filepath.Join(tmpDir, "profile.yaml")

	yamlContent := `---
persona: You are the friendly campus helpdesk.
providers:
  - groq
  - gemini
`

	if err := os.WriteFile(yamlPath, []byte(yamlContent), 0o644); err != nil {
		t.Fatalf("Failed to create test YAML file: %v", err)
	}

	loader := NewLoader(yamlPath)
	p, err := loader.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if p.Persona != "You are the friendly campus helpdesk." {
		t.Errorf("Persona = %q", p.Persona)
	}
	if len(p.Providers) != 2 || p.Providers[0] != "groq" || p.Providers[1] != "gemini" {
		t.Errorf("Providers = %v", p.Providers)
	}
}

func TestLoaderLoadDefaultsApplied(t *testing.T) {
	tmpDir := t.TempDir()
	yamlPath := filepath.Join(tmpDir, "profile.yaml")

	if err := os.WriteFile(yamlPath, []byte("persona: \"  \"\n"), 0o644); err != nil {
		t.Fatalf("Failed to create test YAML file: %v", err)
	}

	p, err := NewLoader(yamlPath).Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if p.Persona != DefaultPersona {
		t.Errorf("blank persona should fall back to default, got %q", p.Persona)
	}
	if len(p.Providers) != 3 || p.Providers[0] != "gemini" {
		t.Errorf("Providers = %v, want default order", p.Providers)
	}
}

func TestLoaderLoadEmptyPath(t *testing.T) {
	p, err := NewLoader("").Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if p.Persona != DefaultPersona {
		t.Errorf("Persona = %q, want built-in default", p.Persona)
	}
}

func TestLoaderLoadFileNotFound(t *testing.T) {
	if _, err := NewLoader("/nonexistent/path/profile.yaml").Load(); err == nil {
		t.Error("Load() with non-existent file should return error")
	}
}

func TestLoaderLoadInvalidYAML(t *testing.T) {
	tmpDir := t.TempDir()
	yamlPath := filepath.Join(tmpDir, "profile.yaml")
	if err := os.WriteFile(yamlPath, []byte("persona: [unclosed"), 0o644); err != nil {
		t.Fatalf("Failed to create test YAML file: %v", err)
	}
	if _, err := NewLoader(yamlPath).Load(); err == nil {
		t.Error("Load() with invalid yaml should return error")
	}
}
