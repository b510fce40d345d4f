package config

import (
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadEnvFilesMerges(t *testing.T) {
	t.Setenv(EnvRustup, "")
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "rls.env.yaml"), "RUST_BACKTRACE: \"1\"\nCARGO_TARGET_DIR: target/rls\n")
	path := filepath.Join(dir, FileName)
	writeFile(t, path, "server:\n  env:\n    RUST_LOG: rls=debug\n  env_files:\n    - rls.env.yaml\n")

	cfg, err := Load(path, dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Env["RUST_BACKTRACE"] != "1" || cfg.Server.Env["CARGO_TARGET_DIR"] != "target/rls" {
		t.Fatalf("env = %v", cfg.Server.Env)
	}
	if cfg.Server.Env["RUST_LOG"] != "rls=debug" {
		t.Fatalf("inline env lost: %v", cfg.Server.Env)
	}
}

func TestLoadEnvFilesDuplicate(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.yaml"), "RUST_LOG: info\n")
	path := filepath.Join(dir, FileName)
	writeFile(t, path, "server:\n  env:\n    RUST_LOG: debug\n  env_files: [a.yaml]\n")

	_, err := Load(path, dir)
	if err == nil || !strings.Contains(err.Error(), "defined in both") {
		t.Fatalf("err = %v", err)
	}
}

func TestLoadEnvFilesMissing(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, FileName)
	writeFile(t, path, "server:\n  env_files: [nope.yaml]\n")

	_, err := Load(path, dir)
	if err == nil || !strings.Contains(err.Error(), "nope.yaml") {
		t.Fatalf("err = %v", err)
	}
}

func TestResolveExternalPath(t *testing.T) {
	abs := filepath.Join(t.TempDir(), "x.yaml")
	if got := resolveExternalPath("/root", abs); got != abs {
		t.Fatalf("got %q", got)
	}
	if got := resolveExternalPath("/root", "x.yaml"); got != filepath.Join("/root", "x.yaml") {
		t.Fatalf("got %q", got)
	}
}
