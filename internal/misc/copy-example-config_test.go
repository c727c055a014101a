package misc

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestCopyConfigTemplate(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "config.example.yaml")
	dst := filepath.Join(dir, "out", "config.yaml")
	if err := os.WriteFile(src, []byte("challenge-mode: otp\n"), 0o644); err != nil {
		t.Fatalf("write template: %v", err)
	}

	if err := CopyConfigTemplate(src, dst); err != nil {
		t.Fatalf("CopyConfigTemplate: %v", err)
	}
	data, err := os.ReadFile(dst)
	if err != nil || string(data) != "challenge-mode: otp\n" {
		t.Fatalf("copied content = %q, err = %v", data, err)
	}

	if err = CopyConfigTemplate(src, dst); !errors.Is(err, ErrConfigExists) {
		t.Fatalf("second copy error = %v, want ErrConfigExists", err)
	}
}
