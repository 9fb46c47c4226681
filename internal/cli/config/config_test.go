package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	perrors "github.com/shaderpatch/shaderpatch/internal/errors"
)

func chdir(t *testing.T, dir string) {
	t.Helper()
	oldWd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Chdir(oldWd) })
}

func TestLoad(t *testing.T) {
	// Test loading with no config file (should use defaults)
	chdir(t, t.TempDir())

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("expected no error loading defaults, got %v", err)
	}

	if cfg.Shaders.Dir != "shaders" {
		t.Errorf("expected default shader dir 'shaders', got %s", cfg.Shaders.Dir)
	}
	if cfg.Patches.File != "patches.yml" {
		t.Errorf("expected default patch file 'patches.yml', got %s", cfg.Patches.File)
	}
	if cfg.Snippets.Extension != ".glsl" {
		t.Errorf("expected default snippet extension '.glsl', got %s", cfg.Snippets.Extension)
	}
	if cfg.Debug.Enabled {
		t.Error("expected debug to be disabled by default")
	}
	if len(cfg.Shaders.Extensions) != 7 {
		t.Errorf("expected 7 default extensions, got %v", cfg.Shaders.Extensions)
	}
}

func TestLoadWithConfigFile(t *testing.T) {
	chdir(t, t.TempDir())

	configContent := `
shaders:
  dir: src/shaders
  output: out
patches:
  file: rules.yml
debug:
  enabled: true
  dir: dbg
defines:
  - name: QUALITY
    type: int
    value: 3
  - name: EXPOSURE
    type: float
    value: 1.5
  - name: BLOOM
    type: bool
    value: true
generated:
  fog: "float fog(float d) { return d; }"
extract:
  - file: water.frag
    function: dropletnoise
    key: droplets
`
	if err := os.WriteFile("shaderpatch.yml", []byte(configContent), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("expected no error loading config, got %v", err)
	}

	if cfg.Shaders.Dir != "src/shaders" || cfg.Shaders.Output != "out" {
		t.Errorf("unexpected shaders config %+v", cfg.Shaders)
	}
	if cfg.Patches.File != "rules.yml" {
		t.Errorf("expected patch file rules.yml, got %s", cfg.Patches.File)
	}
	if !cfg.Debug.Enabled || cfg.Debug.Dir != "dbg" {
		t.Errorf("unexpected debug config %+v", cfg.Debug)
	}
	if len(cfg.Defines) != 3 {
		t.Fatalf("expected 3 defines, got %d", len(cfg.Defines))
	}
	if v, err := cfg.Defines[0].Int(); err != nil || v != 3 {
		t.Errorf("expected QUALITY=3, got %d (%v)", v, err)
	}
	if v, err := cfg.Defines[1].Float(); err != nil || v != 1.5 {
		t.Errorf("expected EXPOSURE=1.5, got %f (%v)", v, err)
	}
	if v, err := cfg.Defines[2].Bool(); err != nil || !v {
		t.Errorf("expected BLOOM=true, got %v (%v)", v, err)
	}
	if cfg.Generated["fog"] == "" {
		t.Error("expected generated value for fog")
	}
	if len(cfg.Extract) != 1 || cfg.Extract[0].Key != "droplets" {
		t.Errorf("unexpected extract config %+v", cfg.Extract)
	}
	// Shader extensions fall back to the defaults
	if !cfg.IsShader("a.FRAG") || cfg.IsShader("a.txt") {
		t.Error("IsShader did not honour default extensions")
	}
}

func TestLoadExplicitPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.yaml")
	if err := os.WriteFile(path, []byte("snippets:\n  dir: lib\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Snippets.Dir != "lib" {
		t.Errorf("expected snippets dir lib, got %s", cfg.Snippets.Dir)
	}

	if _, err := Load(filepath.Join(dir, "missing.yml")); err == nil {
		t.Error("expected error for missing explicit config file")
	}
}

func TestLoadEnvOverride(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("SHADERPATCH_DEBUG_ENABLED", "true")
	t.Setenv("SHADERPATCH_SHADERS_DIR", "glsl")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !cfg.Debug.Enabled {
		t.Error("expected env to enable debug")
	}
	if cfg.Shaders.Dir != "glsl" {
		t.Errorf("expected env shader dir glsl, got %s", cfg.Shaders.Dir)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"empty", Config{}, false},
		{"good define", Config{Defines: []DefineConfig{{Name: "A_1", Type: "float", Value: "0.5"}}}, false},
		{"static anything", Config{Defines: []DefineConfig{{Name: "S", Type: "static", Value: "vec3(1)"}}}, false},
		{"bad name", Config{Defines: []DefineConfig{{Name: "1A", Type: "int", Value: "1"}}}, true},
		{"duplicate", Config{Defines: []DefineConfig{{Name: "A", Type: "int", Value: "1"}, {Name: "A", Type: "int", Value: "2"}}}, true},
		{"bad type", Config{Defines: []DefineConfig{{Name: "A", Type: "vec3", Value: "1"}}}, true},
		{"bad int", Config{Defines: []DefineConfig{{Name: "A", Type: "int", Value: "x"}}}, true},
		{"bad bool", Config{Defines: []DefineConfig{{Name: "A", Type: "bool", Value: "maybe"}}}, true},
		{"incomplete extract", Config{Extract: []ExtractConfig{{File: "a.frag", Function: "f"}}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(&tt.cfg)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, perrors.ErrInvalidConfig) {
				t.Errorf("expected CFG001, got %v", err)
			}
		})
	}
}

func TestSaveAndLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "shaderpatch.yml")

	cfg := DefaultConfig()
	cfg.Defines = []DefineConfig{{Name: "Q", Type: "int", Value: "2"}}
	if err := Save(path, cfg); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if d, ok := loaded.DefineByName("Q"); !ok || d.Value != "2" {
		t.Errorf("expected define Q=2 after round trip, got %+v", d)
	}
}

func TestFindConfigFile(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(root, "shaderpatch.yaml"), []byte("{}\n"), 0644); err != nil {
		t.Fatal(err)
	}
	chdir(t, nested)

	found, err := FindConfigFile()
	if err != nil {
		t.Fatalf("FindConfigFile() error = %v", err)
	}
	if filepath.Base(found) != "shaderpatch.yaml" {
		t.Errorf("unexpected config file %s", found)
	}
}
