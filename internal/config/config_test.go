package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/OpenTraceLab/OpenTraceXTCE/pkg/content"
	"github.com/OpenTraceLab/OpenTraceXTCE/pkg/layout"
	"github.com/OpenTraceLab/OpenTraceXTCE/pkg/render"
)

func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("APPDATA", "")
	t.Setenv("XDG_CONFIG_HOME", dir)
	return dir
}

func TestLoadDefaults(t *testing.T) {
	isolate(t)
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	want := &Config{
		Orientation: layout.LeftToRight,
		FontSize:    render.DefaultFontSize,
		Scale:       layout.DefaultScale,
		Theme:       render.ThemeClassic,
		ServerAddr:  "localhost:8080",
		LogLevel:    "info",
	}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Fatalf("defaults mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadFile(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "custom.toml")
	data := `
[aliases]
show_all_namespaces = true
show_namespace_names = true
preferred_namespace = "ops"

[drawing]
orientation = "ttb"
scale = 4
theme = "Nord"

[log]
level = "debug"
`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	wantAliases := content.AliasPreferences{ShowAllNamespaces: true, ShowNamespaceNames: true, PreferredNamespace: "ops"}
	if diff := cmp.Diff(wantAliases, cfg.Aliases); diff != "" {
		t.Fatalf("aliases mismatch (-want +got):\n%s", diff)
	}
	if cfg.Orientation != layout.TopToBottom || cfg.Scale != 4 || cfg.Theme != render.ThemeNord || cfg.LogLevel != "debug" {
		t.Fatalf("unexpected config %+v", cfg)
	}
	if cfg.File != path {
		t.Fatalf("File = %q, want %q", cfg.File, path)
	}
}

func TestLoadSearchesConfigDir(t *testing.T) {
	dir := isolate(t)
	confDir := filepath.Join(dir, "xtceview")
	if err := os.MkdirAll(confDir, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(confDir, "config.yaml"), []byte("server:\n  addr: \":9000\"\n"), 0644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.ServerAddr != ":9000" {
		t.Fatalf("ServerAddr = %q, want :9000", cfg.ServerAddr)
	}
}

func TestEnvOverride(t *testing.T) {
	isolate(t)
	t.Setenv("XTCEVIEW_DRAWING_ORIENTATION", "ttb")
	t.Setenv("XTCEVIEW_ALIASES_PREFERRED_NAMESPACE", "MIB")
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Orientation != layout.TopToBottom || cfg.Aliases.PreferredNamespace != "MIB" {
		t.Fatalf("environment not applied: %+v", cfg)
	}
}

func TestLoadErrors(t *testing.T) {
	dir := isolate(t)
	if _, err := Load(filepath.Join(dir, "missing.toml")); err == nil {
		t.Fatalf("expected error for missing explicit config")
	}

	t.Setenv("XTCEVIEW_DRAWING_ORIENTATION", "diagonal")
	if _, err := Load(""); err == nil {
		t.Fatalf("expected error for bad orientation")
	}
}

func TestSaveRoundTrip(t *testing.T) {
	dir := isolate(t)
	in := &Config{
		Aliases:     content.AliasPreferences{PreferredNamespace: "ops"},
		Orientation: layout.TopToBottom,
		FontSize:    14,
		Scale:       6,
		Theme:       render.ThemeBlueTone,
		ServerAddr:  ":8181",
		LogLevel:    "warn",
	}
	path := filepath.Join(dir, "nested", "saved.toml")
	if err := Save(in, path); err != nil {
		t.Fatalf("Save: %v", err)
	}
	out, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if diff := cmp.Diff(in, out, cmpopts.IgnoreFields(Config{}, "File")); diff != "" {
		t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
	}
}
