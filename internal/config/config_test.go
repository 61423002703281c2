package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/nicholasgasior/vdcheck/pkg/types"
)

func TestLoadExplicitFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vdcheck.yaml")
	content := `timeout: 30
verbose: true
profile_dir: /srv/ff/profile
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	f, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if f.Timeout != 30 || !f.Verbose || f.ProfileDir != "/srv/ff/profile" {
		t.Errorf("loaded %+v", f)
	}
}

func TestLoadMissingExplicitFileIsError(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected an error for an explicit missing file")
	}
}

func TestLoadRejectsNonPositiveTimeout(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vdcheck.yaml")
	if err := os.WriteFile(path, []byte("timeout: -1\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected a validation error")
	}
}

func TestApplyRespectsExplicitFlags(t *testing.T) {
	f := &File{Timeout: 30, Verbose: true, ProfileDir: "/from/file"}
	cfg := types.DefaultRunConfig()
	cfg.Timeout = 5

	changed := func(name string) bool { return name == "timeout" }
	f.Apply(&cfg, changed)

	if cfg.Timeout != 5 {
		t.Errorf("flag value overridden: timeout = %d", cfg.Timeout)
	}
	if !cfg.Verbose {
		t.Error("file verbose not applied")
	}
	if cfg.ProfileDir != "/from/file" {
		t.Errorf("profile dir = %q", cfg.ProfileDir)
	}
}
