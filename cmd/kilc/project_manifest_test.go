package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeManifest(t *testing.T, dir, body string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, manifestName), []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestLoadProjectManifestFromSubdir(t *testing.T) {
	root := t.TempDir()
	writeManifest(t, root, `
[build]
target = "x86"
input = "build/kernel.ilpk"
output = "out"
strict = true

[diagnostics]
max = 20
`)
	sub := filepath.Join(root, "src", "drivers")
	if err := os.MkdirAll(sub, 0o755); err != nil {
		t.Fatal(err)
	}

	m, ok, err := loadProjectManifest(sub)
	if err != nil || !ok {
		t.Fatalf("ok=%v err=%v", ok, err)
	}
	if m.Config.Build.Target != "x86" || !m.Config.Build.Strict || m.Config.Diagnostics.Max != 20 {
		t.Fatalf("unexpected config %+v", m.Config)
	}
	if got := m.resolve(m.Config.Build.Input); got != filepath.Join(root, "build", "kernel.ilpk") {
		t.Fatalf("resolve input = %q", got)
	}
}

func TestLoadProjectManifestErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"missing build", "[diagnostics]\nmax = 1\n", "missing [build]"},
		{"unknown key", "[build]\ntarget = \"x86\"\narch = \"x64\"\n", "unknown keys: build.arch"},
		{"negative max", "[build]\n[diagnostics]\nmax = -1\n", "must not be negative"},
		{"bad toml", "[build\n", "failed to parse TOML"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writeManifest(t, dir, tt.body)
			_, ok, err := loadProjectManifest(dir)
			if !ok || err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("ok=%v err=%v, want %q", ok, err, tt.want)
			}
		})
	}
}
