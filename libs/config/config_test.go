package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestPort(t *testing.T) {
	t.Setenv("TEST_PORT", "8085")
	if p, err := Port("TEST_PORT", "1"); err != nil || p != "8085" {
		t.Fatalf("unexpected port %q err=%v", p, err)
	}
	t.Setenv("TEST_PORT", "70000")
	if _, err := Port("TEST_PORT", "1"); err == nil {
		t.Fatal("expected error for out of range port")
	}
}

func TestIntBoolSeconds(t *testing.T) {
	t.Setenv("TEST_INT", "42")
	t.Setenv("TEST_BAD_INT", "-3")
	t.Setenv("TEST_BOOL", "off")
	t.Setenv("TEST_SECONDS", "15")

	if got := Int("TEST_INT", 1); got != 42 {
		t.Fatalf("expected 42, got %d", got)
	}
	if got := Int("TEST_BAD_INT", 7); got != 7 {
		t.Fatalf("expected fallback 7, got %d", got)
	}
	if got := Bool("TEST_BOOL", true); got {
		t.Fatal("expected false")
	}
	if got := Bool("TEST_MISSING_BOOL", true); !got {
		t.Fatal("expected fallback true")
	}
	if got := Seconds("TEST_SECONDS", time.Minute); got != 15*time.Second {
		t.Fatalf("expected 15s, got %s", got)
	}
}

func TestList(t *testing.T) {
	t.Setenv("TEST_LIST", " a, ,b,c ")
	got := List("TEST_LIST", "")
	if len(got) != 3 || got[0] != "a" || got[2] != "c" {
		t.Fatalf("unexpected list %v", got)
	}
	if got := List("TEST_MISSING_LIST", ""); len(got) != 0 {
		t.Fatalf("expected empty list, got %v", got)
	}
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.env")
	if err := os.WriteFile(path, []byte("DOTENV_SAMPLE=from-file\nDOTENV_KEEP=from-file\n"), 0o600); err != nil {
		t.Fatalf("write env file: %v", err)
	}
	t.Setenv("DOTENV_KEEP", "from-env")
	t.Cleanup(func() { _ = os.Unsetenv("DOTENV_SAMPLE") })

	if err := LoadDotEnv(path, filepath.Join(dir, "missing.env")); err != nil {
		t.Fatalf("LoadDotEnv: %v", err)
	}
	if got := os.Getenv("DOTENV_SAMPLE"); got != "from-file" {
		t.Fatalf("expected value from file, got %q", got)
	}
	if got := os.Getenv("DOTENV_KEEP"); got != "from-env" {
		t.Fatalf("expected existing env to win, got %q", got)
	}
}
