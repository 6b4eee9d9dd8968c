package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"precis/internal/rounding"
	"precis/internal/trace"
)

func writeConfig(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, FileName)
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, `
[format]
base = 16
uppercase = true

[rounding]
mode = "floor"

[check]
cases = 50
seed = 7

[trace]
level = "detail"
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Format.Base != 16 || !cfg.Format.Uppercase {
		t.Fatalf("format = %+v", cfg.Format)
	}
	if cfg.Rounding.Mode != rounding.Floor {
		t.Fatalf("mode = %v", cfg.Rounding.Mode)
	}
	if cfg.Check.Cases != 50 || cfg.Check.Seed != 7 || cfg.Check.MaxWords != 12 {
		t.Fatalf("check = %+v", cfg.Check)
	}
	if cfg.Trace.Level != trace.LevelDetail || cfg.Trace.Output != "-" {
		t.Fatalf("trace = %+v", cfg.Trace)
	}
	if cfg.Kernel.KaratsubaThreshold != 40 || cfg.Path != path {
		t.Fatalf("defaults lost: %+v", cfg)
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	tests := []struct {
		body, want string
	}{
		{"[format]\nbase = 40\n", "[format].base"},
		{"[rounding]\nmode = \"sideways\"\n", "sideways"},
		{"[kernel]\nkaratsuba_threshold = 1\n", "karatsuba_threshold"},
		{"[check]\njobs = 0\n", "[check].jobs"},
		{"[check]\nbogus = 1\n", "unknown keys: check.bogus"},
		{"[trace]\nlevel = \"loud\"\n", "loud"},
		{"[trace]\nformat = \"xml\"\n", "[trace].format"},
		{"not toml", "failed to parse TOML"},
	}
	for _, tt := range tests {
		path := writeConfig(t, t.TempDir(), tt.body)
		_, err := Load(path)
		if err == nil || !strings.Contains(err.Error(), tt.want) {
			t.Fatalf("Load(%q) err = %v, want mention of %q", tt.body, err, tt.want)
		}
	}
}

func TestResolveWalksUp(t *testing.T) {
	root := t.TempDir()
	writeConfig(t, root, "[format]\nbase = 2\n")
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}
	cfg, err := Resolve("", nested)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if cfg.Format.Base != 2 {
		t.Fatalf("base = %d", cfg.Format.Base)
	}
}

func TestResolveDefaultsWithoutFile(t *testing.T) {
	if _, ok, err := Find(t.TempDir()); err != nil {
		t.Fatalf("Find: %v", err)
	} else if ok {
		t.Skip("a precis.toml exists above the temp dir")
	}
	cfg, err := Resolve("", t.TempDir())
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if cfg.Path != "" || cfg.Format.Base != 10 || cfg.Rounding.Mode != rounding.Nearest {
		t.Fatalf("defaults = %+v", cfg)
	}
}
