package envscan

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/nicholasgasior/vdcheck/pkg/types"
)

var recognized = map[string]bool{
	"LIBVA_DRIVER_NAME":  true,
	"NVD_BACKEND":        true,
	"MOZ_ENABLE_WAYLAND": true,
}

func newTestScanner(t *testing.T, env map[string]string) (*Scanner, string, string) {
	t.Helper()
	home := t.TempDir()
	etc := t.TempDir()
	s := &Scanner{
		Home:   home,
		EtcDir: etc,
		LookupEnv: func(name string) (string, bool) {
			v, ok := env[name]
			return v, ok
		},
	}
	return s, home, etc
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestResolveLiveEnvironmentWins(t *testing.T) {
	s, home, _ := newTestScanner(t, map[string]string{"LIBVA_DRIVER_NAME": "nvidia"})
	writeFile(t, filepath.Join(home, ".config/environment.d/10-vaapi.conf"),
		"LIBVA_DRIVER_NAME=iHD\n")
	s.Scan(recognized)

	fact := s.Resolve("LIBVA_DRIVER_NAME")
	if !fact.Found() || fact.Value != "nvidia" {
		t.Fatalf("expected live value nvidia, got %+v", fact)
	}
	if fact.Source != types.SourceEnvironment {
		t.Errorf("expected environment source, got %q", fact.Source)
	}
}

func TestPersistedButNotActive(t *testing.T) {
	s, home, _ := newTestScanner(t, nil)
	path := filepath.Join(home, ".config/environment.d/10-vaapi.conf")
	writeFile(t, path, "LIBVA_DRIVER_NAME=nvidia\n")
	s.Scan(recognized)

	fact := s.Resolve("LIBVA_DRIVER_NAME")
	if fact.Found() {
		t.Fatalf("file-only value must resolve unset, got %+v", fact)
	}

	value, source, ok := s.Persisted("LIBVA_DRIVER_NAME")
	if !ok || value != "nvidia" || source != path {
		t.Errorf("Persisted() = %q, %q, %v", value, source, ok)
	}
}

func TestFilePrecedence(t *testing.T) {
	s, home, etc := newTestScanner(t, nil)
	writeFile(t, filepath.Join(home, ".bashrc"), "export NVD_BACKEND=egl\n")
	writeFile(t, filepath.Join(etc, "environment"), "NVD_BACKEND=direct\n")
	s.Scan(recognized)

	value, source, ok := s.Persisted("NVD_BACKEND")
	if !ok {
		t.Fatal("expected a persisted value")
	}
	// .bashrc outranks /etc/environment.
	if value != "egl" || source != filepath.Join(home, ".bashrc") {
		t.Errorf("Persisted() = %q from %q", value, source)
	}
}

func TestConflictSources(t *testing.T) {
	s, home, etc := newTestScanner(t, nil)
	writeFile(t, filepath.Join(home, ".profile"), "export NVD_BACKEND=direct\n")
	writeFile(t, filepath.Join(etc, "profile.d/vaapi.sh"), "export NVD_BACKEND=egl\n")
	s.Scan(recognized)

	sources := s.Sources("NVD_BACKEND")
	if len(sources) != 2 {
		t.Fatalf("expected 2 sources, got %v", sources)
	}
	names := s.SettingsWithSources()
	if len(names) != 1 || names[0] != "NVD_BACKEND" {
		t.Errorf("SettingsWithSources() = %v", names)
	}
}

func TestSyntaxPerFileKind(t *testing.T) {
	s, home, etc := newTestScanner(t, nil)
	// export keyword is shell syntax; environment.d would not parse it.
	writeFile(t, filepath.Join(home, ".config/environment.d/a.conf"),
		"export LIBVA_DRIVER_NAME=nvidia\n")
	// and a bare assignment in a shell file is not exported to the session.
	writeFile(t, filepath.Join(home, ".bashrc"), "NVD_BACKEND=direct\n")
	writeFile(t, filepath.Join(etc, "environment"), "# comment only\n")
	s.Scan(recognized)

	if _, _, ok := s.Persisted("LIBVA_DRIVER_NAME"); ok {
		t.Error("export line in environment.d must be ignored")
	}
	if _, _, ok := s.Persisted("NVD_BACKEND"); ok {
		t.Error("bare assignment in .bashrc must be ignored")
	}
}

func TestQuoteTrimming(t *testing.T) {
	s, home, _ := newTestScanner(t, nil)
	writeFile(t, filepath.Join(home, ".profile"), `export MOZ_ENABLE_WAYLAND="1"`+"\n")
	s.Scan(recognized)

	value, _, ok := s.Persisted("MOZ_ENABLE_WAYLAND")
	if !ok || value != "1" {
		t.Errorf("Persisted() = %q, %v", value, ok)
	}
}

func TestUnrecognizedNamesIgnored(t *testing.T) {
	s, home, _ := newTestScanner(t, nil)
	writeFile(t, filepath.Join(home, ".profile"), "export PATH=/usr/bin\nexport NVD_BACKEND=direct\n")
	s.Scan(recognized)

	if names := s.SettingsWithSources(); len(names) != 1 {
		t.Errorf("expected only recognized names recorded, got %v", names)
	}
}

func TestParseAssignment(t *testing.T) {
	tests := []struct {
		line   string
		syntax lineSyntax
		name   string
		value  string
		ok     bool
	}{
		{"NVD_BACKEND=direct", syntaxBare, "NVD_BACKEND", "direct", true},
		{"  NVD_BACKEND = direct ", syntaxBare, "NVD_BACKEND", "direct", true},
		{"# NVD_BACKEND=direct", syntaxBare, "", "", false},
		{"export NVD_BACKEND=direct", syntaxExport, "NVD_BACKEND", "direct", true},
		{"NVD_BACKEND=direct", syntaxExport, "", "", false},
		{"export 1BAD=x", syntaxExport, "", "", false},
		{"export lower=x", syntaxExport, "", "", false},
		{"=novalue", syntaxBare, "", "", false},
	}
	for _, tt := range tests {
		name, value, ok := parseAssignment(tt.line, tt.syntax)
		if name != tt.name || value != tt.value || ok != tt.ok {
			t.Errorf("parseAssignment(%q) = %q, %q, %v; want %q, %q, %v",
				tt.line, name, value, ok, tt.name, tt.value, tt.ok)
		}
	}
}
