package version

import "testing"

func TestPlainStripsColour(t *testing.T) {
	orig := Version
	defer func() { Version = orig }()

	Version = "\x1b[33;1m1\x1b[0m.\x1b[32;1m2\x1b[0m.3"
	if got := Plain(); got != "1.2.3" {
		t.Fatalf("Plain() = %q, want 1.2.3", got)
	}
}

func TestVersionDefault(t *testing.T) {
	if Plain() != "0.3.0-dev" {
		t.Fatalf("unexpected default version %q", Plain())
	}
}
