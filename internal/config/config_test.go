package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sekai-tl/sekai-core/core/chardet"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sekai-core.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadEmptyPath(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Log.Level != "" || cfg.Log.Format != "" {
		t.Errorf("zero config expected, got %+v", cfg)
	}
	if cfg.Detector.FamilyWeights() != nil {
		t.Error("zero config should produce no weight overrides")
	}
}

func TestLoadFull(t *testing.T) {
	path := writeConfig(t, `
[log]
level = "debug"
format = "json"

[detector.weights.wide]
validity = 0.4
structure = 0.4
plausibility = 0.2
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Log.Level != "debug" || cfg.Log.Format != "json" {
		t.Errorf("log config = %+v", cfg.Log)
	}

	w := cfg.Detector.FamilyWeights()
	got, ok := w[chardet.FamilyWide]
	if !ok {
		t.Fatalf("wide family missing from overrides: %v", w)
	}
	if got.Validity != 0.4 || got.Structure != 0.4 || got.Plausibility != 0.2 {
		t.Errorf("wide weights = %+v", got)
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.toml")); err == nil {
		t.Error("missing file should error")
	}

	path := writeConfig(t, "log = not toml [")
	if _, err := Load(path); err == nil {
		t.Error("malformed TOML should error")
	}
}
