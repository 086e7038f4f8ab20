package config

import (
	"os"
	"path/filepath"
	"testing"

	apperrors "timeline/internal/errors"
)

func TestLoadCreatesDefaultOnFirstRun(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Export.Filename != "timeline.jpg" {
		t.Errorf("Export.Filename = %q, want timeline.jpg", cfg.Export.Filename)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("default config not written: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Errorf("perm = %o, want 600", perm)
	}
}

func TestLoadYAMLNormalizes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := []byte("listen: \":9000\"\ndate_format: ISO\nexport:\n  quality: 500\nstyle:\n  marker: \"#00ff00\"\n")
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Listen != ":9000" {
		t.Errorf("Listen = %q", cfg.Listen)
	}
	if cfg.DateFormat != "iso" {
		t.Errorf("DateFormat = %q, want iso", cfg.DateFormat)
	}
	if cfg.Export.Quality != 90 {
		t.Errorf("Quality = %d, want clamped default 90", cfg.Export.Quality)
	}
	if cfg.Style.Marker != "#00ff00" {
		t.Errorf("Style.Marker = %q", cfg.Style.Marker)
	}
	if cfg.Style.Text != "#000000" {
		t.Errorf("Style.Text = %q, want default", cfg.Style.Text)
	}
}

func TestLoadTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	data := []byte("listen = \"0.0.0.0:8081\"\ndate_format = \"iso\"\n\n[snapshot]\ncron = \"0 * * * *\"\n")
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Listen != "0.0.0.0:8081" || cfg.DateFormat != "iso" {
		t.Errorf("got listen=%q format=%q", cfg.Listen, cfg.DateFormat)
	}
	if cfg.Snapshot.Cron != "0 * * * *" {
		t.Errorf("Snapshot.Cron = %q", cfg.Snapshot.Cron)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	cfg := DefaultConfig()
	cfg.BasicAuth = &BasicAuthConfig{Username: "admin", PasswordHash: "argon2id$x$y"}

	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got.BasicAuth == nil || got.BasicAuth.Username != "admin" {
		t.Errorf("BasicAuth = %+v", got.BasicAuth)
	}
}

func TestLoadEmptyPath(t *testing.T) {
	if _, err := Load(""); err == nil {
		t.Error("Load(\"\") should fail")
	}
}

func TestLoadRejectsNonHexColours(t *testing.T) {
	tests := []struct {
		name  string
		style string
	}{
		{"named colour", "marker: red"},
		{"short hex", "background: \"#fff\""},
		{"missing hash", "text: \"000000\""},
		{"bad digit", "baseline: \"#00gg00\""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			if err := os.WriteFile(path, []byte("style:\n  "+tt.style+"\n"), 0o600); err != nil {
				t.Fatal(err)
			}
			cfg, err := Load(path)
			if !apperrors.Is(err, apperrors.ErrCodeInvalidConfig) {
				t.Errorf("Load() error = %v, want INVALID_CONFIG", err)
			}
			if cfg != nil {
				t.Error("Load() should not return a config on invalid style")
			}
		})
	}
}

func TestSaveRejectsNonHexColour(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Style.Marker = "red"
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := cfg.Save(path); !apperrors.Is(err, apperrors.ErrCodeInvalidConfig) {
		t.Errorf("Save() error = %v, want INVALID_CONFIG", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("invalid config should not be written")
	}
}
