package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/cladeviz/clade/pkg/errors"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if got, want := cfg.Render.Format, "svg"; got != want {
		t.Errorf("Render.Format = %q, want %q", got, want)
	}
	if got, want := cfg.Render.Width, 800.0; got != want {
		t.Errorf("Render.Width = %v, want %v", got, want)
	}
	if got, want := cfg.Cache.Backend, "file"; got != want {
		t.Errorf("Cache.Backend = %q, want %q", got, want)
	}
	if cfg.Cache.Dir == "" {
		t.Error("Cache.Dir should default to a usable directory")
	}
	if got, want := cfg.Server.Addr, ":8080"; got != want {
		t.Errorf("Server.Addr = %q, want %q", got, want)
	}
	if got, want := cfg.Store.Database, "clade"; got != want {
		t.Errorf("Store.Database = %q, want %q", got, want)
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "clade.toml")
	doc := `
[render]
format = "png"
x_scale = 40.0

[cache]
backend = "redis"
addr = "localhost:6379"

[server]
addr = ":9090"
`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got, want := cfg.Render.Format, "png"; got != want {
		t.Errorf("Render.Format = %q, want %q", got, want)
	}
	if got, want := cfg.Render.XScale, 40.0; got != want {
		t.Errorf("Render.XScale = %v, want %v", got, want)
	}
	if got, want := cfg.Cache.Backend, "redis"; got != want {
		t.Errorf("Cache.Backend = %q, want %q", got, want)
	}
	if got, want := cfg.Server.Addr, ":9090"; got != want {
		t.Errorf("Server.Addr = %q, want %q", got, want)
	}

	// Unset keys keep their defaults.
	if got, want := cfg.Render.Width, 800.0; got != want {
		t.Errorf("Render.Width = %v, want default %v", got, want)
	}
	if got, want := cfg.Store.Database, "clade"; got != want {
		t.Errorf("Store.Database = %q, want default %q", got, want)
	}
}

func TestLoadMissingExplicitPath(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("Load(missing explicit path) = %v, want file-not-found", err)
	}
}

func TestLoadMissingDefaultIsNotAnError(t *testing.T) {
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(t.TempDir()); err != nil {
		t.Fatal(err)
	}
	defer os.Chdir(wd)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\") with no file = %v, want defaults", err)
	}
	if got, want := cfg.Render.Format, "svg"; got != want {
		t.Errorf("Render.Format = %q, want default %q", got, want)
	}
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "clade.toml")
	if err := os.WriteFile(path, []byte("[render]\nfromat = \"svg\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := Load(path)
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("Load(unknown key) = %v, want invalid-input", err)
	}
}

func TestLoadRejectsBadTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "clade.toml")
	if err := os.WriteFile(path, []byte("[render\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := Load(path)
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("Load(bad toml) = %v, want invalid-input", err)
	}
}
