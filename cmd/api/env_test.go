package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })

	if err := loadDotEnv(); err != nil {
		t.Fatalf("missing default .env should be ignored: %v", err)
	}
	if err := loadDotEnv(filepath.Join(dir, "missing.env")); err == nil {
		t.Fatal("expected error for a missing named env file")
	}

	path := filepath.Join(dir, "calc.env")
	if err := os.WriteFile(path, []byte("CALC_ANGLE_UNIT=degrees\nCALC_ADDR=:9999\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("CALC_ANGLE_UNIT", "radians")
	t.Setenv("CALC_ADDR", "")
	os.Unsetenv("CALC_ADDR")

	if err := loadDotEnv(path); err != nil {
		t.Fatalf("load env file: %v", err)
	}
	if got := os.Getenv("CALC_ANGLE_UNIT"); got != "radians" {
		t.Fatalf("process environment should win, got %q", got)
	}
	if got := os.Getenv("CALC_ADDR"); got != ":9999" {
		t.Fatalf("expected CALC_ADDR from file, got %q", got)
	}
}
