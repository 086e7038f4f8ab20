package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	apperrors "timeline/internal/errors"
)

// hexColour matches the "#rrggbb" form both canvases accept.
var hexColour = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// NOTE: YAML is the primary format and the one written on first run.
// Paths ending in .toml are decoded with BurntSushi/toml instead.

// ExportConfig controls where and how "Save as Image" writes its file.
type ExportConfig struct {
	// Dir is the directory the image is written into.
	Dir string `yaml:"dir" toml:"dir" json:"dir"`
	// Filename is the fixed output name. The extension picks the encoder
	// (.jpg/.jpeg -> JPEG, .png -> PNG).
	Filename string `yaml:"filename" toml:"filename" json:"filename"`
	// Quality is the JPEG quality (1-100).
	Quality int `yaml:"quality" toml:"quality" json:"quality"`
}

// SnapshotConfig schedules periodic exports while serving.
type SnapshotConfig struct {
	// Cron is a standard 5-field cron expression (e.g. "0 * * * *").
	// Empty disables scheduled snapshots.
	Cron string `yaml:"cron" toml:"cron" json:"cron"`
}

// StyleConfig holds the colours and font size of the rendered timeline.
// Geometry (800x200 canvas, margins, marker radius) is fixed.
type StyleConfig struct {
	Background string  `yaml:"background" toml:"background" json:"background"`
	Baseline   string  `yaml:"baseline" toml:"baseline" json:"baseline"`
	Marker     string  `yaml:"marker" toml:"marker" json:"marker"`
	Text       string  `yaml:"text" toml:"text" json:"text"`
	FontSize   float64 `yaml:"font_size" toml:"font_size" json:"font_size"`
}

// ImportConfig controls ICS import and recurrence expansion.
type ImportConfig struct {
	// Timezone is the IANA zone used to pick the calendar day of imported
	// occurrences (e.g. "Europe/Rome").
	Timezone string `yaml:"timezone" toml:"timezone" json:"timezone"`
	// HorizonDays bounds recurrence expansion into the future.
	HorizonDays int `yaml:"horizon_days" toml:"horizon_days" json:"horizon_days"`
	// BackfillDays bounds recurrence expansion into the past.
	BackfillDays int `yaml:"backfill_days" toml:"backfill_days" json:"backfill_days"`
	// CacheDir stores ETag/Last-Modified metadata for remote feeds.
	CacheDir string `yaml:"cache_dir" toml:"cache_dir" json:"cache_dir"`
}

// BasicAuthConfig holds HTTP Basic Auth credentials for the Web UI/API.
type BasicAuthConfig struct {
	Username string `yaml:"username" toml:"username" json:"username"`
	// PasswordHash is produced by `timeline hash-password`.
	PasswordHash string `yaml:"password_hash" toml:"password_hash" json:"password_hash"`
}

// Config is the top-level application configuration.
type Config struct {
	// Listen is the HTTP listen address for the Web UI and API.
	Listen string `yaml:"listen" toml:"listen" json:"listen"`

	// DateFormat is the format selector's initial value:
	//   - "european" (default, day/month/year)
	//   - "iso" (year-month-day)
	DateFormat string `yaml:"date_format" toml:"date_format" json:"date_format"`

	Export   ExportConfig   `yaml:"export" toml:"export" json:"export"`
	Snapshot SnapshotConfig `yaml:"snapshot" toml:"snapshot" json:"snapshot"`
	Style    StyleConfig    `yaml:"style" toml:"style" json:"style"`
	Import   ImportConfig   `yaml:"import" toml:"import" json:"import"`

	// BasicAuth, if non-nil, enables HTTP Basic Authentication on all endpoints
	// except /health.
	BasicAuth *BasicAuthConfig `yaml:"basic_auth,omitempty" toml:"basic_auth,omitempty" json:"basic_auth,omitempty"`
}

// DefaultConfig returns an in-memory default configuration.
func DefaultConfig() *Config {
	return &Config{
		Listen:     "127.0.0.1:8080",
		DateFormat: "european",
		Export: ExportConfig{
			Dir:      ".",
			Filename: "timeline.jpg",
			Quality:  90,
		},
		Style: StyleConfig{
			Background: "#ffffff",
			Baseline:   "#000000",
			Marker:     "#ff0000",
			Text:       "#000000",
			FontSize:   12,
		},
		Import: ImportConfig{
			Timezone:     "UTC",
			HorizonDays:  365,
			BackfillDays: 365,
			CacheDir:     "./cache/ics-cache",
		},
	}
}

// Normalize fills in missing/zero values with sensible defaults so that
// partially-filled configs still behave correctly. Style colours that are
// set but not "#rrggbb" are rejected with INVALID_CONFIG.
func (c *Config) Normalize() error {
	def := DefaultConfig()

	if c.Listen == "" {
		c.Listen = def.Listen
	}
	switch strings.ToLower(c.DateFormat) {
	case "european", "iso":
		c.DateFormat = strings.ToLower(c.DateFormat)
	default:
		// Unknown value; fall back to european.
		c.DateFormat = def.DateFormat
	}

	if c.Export.Dir == "" {
		c.Export.Dir = def.Export.Dir
	}
	if c.Export.Filename == "" {
		c.Export.Filename = def.Export.Filename
	}
	if c.Export.Quality <= 0 || c.Export.Quality > 100 {
		c.Export.Quality = def.Export.Quality
	}

	if c.Style.Background == "" {
		c.Style.Background = def.Style.Background
	}
	if c.Style.Baseline == "" {
		c.Style.Baseline = def.Style.Baseline
	}
	if c.Style.Marker == "" {
		c.Style.Marker = def.Style.Marker
	}
	if c.Style.Text == "" {
		c.Style.Text = def.Style.Text
	}
	if c.Style.FontSize <= 0 {
		c.Style.FontSize = def.Style.FontSize
	}
	for _, col := range []struct{ name, value string }{
		{"background", c.Style.Background},
		{"baseline", c.Style.Baseline},
		{"marker", c.Style.Marker},
		{"text", c.Style.Text},
	} {
		if !hexColour.MatchString(col.value) {
			return apperrors.New(apperrors.ErrCodeInvalidConfig, "style.%s %q is not a #rrggbb colour", col.name, col.value)
		}
	}

	if c.Import.Timezone == "" {
		c.Import.Timezone = def.Import.Timezone
	}
	if c.Import.HorizonDays <= 0 {
		c.Import.HorizonDays = def.Import.HorizonDays
	}
	if c.Import.BackfillDays < 0 {
		c.Import.BackfillDays = 0
	}
	if c.Import.CacheDir == "" {
		c.Import.CacheDir = def.Import.CacheDir
	}
	return nil
}

// Load loads configuration from the given path.
//
// Behavior:
//   - If the file does not exist:
//   - create parent directory if needed
//   - write a default config with 0600 perms
//   - return the default config
//   - If the file exists:
//   - decode YAML (or TOML for *.toml) into Config
//   - normalize defaults
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config path is empty")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			// First run: create default config file.
			cfg := DefaultConfig()
			if err := Save(path, cfg); err != nil {
				// Even if save fails, return cfg with error so caller can decide.
				return cfg, err
			}
			return cfg, nil
		}
		return nil, err
	}

	var cfg Config
	if isTOML(path) {
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return nil, err
		}
	} else if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	if err := cfg.Normalize(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Save writes the given configuration to the specified path.
//
// Implementation details:
//   - Ensures parent directory exists (0700).
//   - Marshals cfg to YAML, or TOML for *.toml paths.
//   - Writes atomically via a temp file + rename.
//   - Ensures final file permissions are 0600.
func Save(path string, cfg *Config) error {
	if path == "" {
		return errors.New("config path is empty")
	}
	if cfg == nil {
		return errors.New("config is nil")
	}

	if err := cfg.Normalize(); err != nil {
		return err
	}

	var data []byte
	var err error
	if isTOML(path) {
		data, err = toml.Marshal(cfg)
	} else {
		data, err = yaml.Marshal(cfg)
	}
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}
	return WriteFileAtomic(path, data, 0o600)
}

// WriteFileAtomic writes data to a temp file in the target directory and
// renames it over path, so readers never observe a partial file. Missing
// parent directories are created 0755; callers that need a private
// directory create it first.
func WriteFileAtomic(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".timeline-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	// Ensure we clean up temp file on error.
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}

	// Flush and close before chmod/rename.
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	if err := os.Chmod(tmpName, perm); err != nil {
		return err
	}

	return os.Rename(tmpName, path)
}

// Save is a convenience method on Config that delegates to the package-level
// Save function.
func (c *Config) Save(path string) error {
	return Save(path, c)
}

func isTOML(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".toml")
}
