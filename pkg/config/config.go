// Package config loads runtime settings from the environment and an optional
// config.toml in the root directory. Environment variables win over the file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"
	"github.com/kerbaras/mangashelf/pkg/reader"
	"github.com/pelletier/go-toml/v2"
)

const FileName = "config.toml"

// ReaderDefaults are the reader settings used for manga without their own.
type ReaderDefaults struct {
	ReadingMode      string `toml:"reading_mode"`
	ReadingDirection string `toml:"reading_direction"`
	TapZoneLayout    string `toml:"tap_zone_layout"`
	TapZoneInvert    string `toml:"tap_zone_invert"`
	ScrollAmount     int    `toml:"scroll_amount"`
	StaticNav        bool   `toml:"static_nav"`
}

type Config struct {
	RootDir     string `toml:"-" env:"TACHIDESK_ROOT_DIR"`
	DownloadDir string `toml:"download_dir" env:"MANGASHELF_DOWNLOAD_DIR"`
	ServerURL   string `toml:"server_url" env:"MANGASHELF_SERVER_URL"`
	Environment string `toml:"environment" env:"MANGASHELF_ENV"`
	Debug       bool   `toml:"debug" env:"MANGASHELF_DEBUG"`
	Locale      string `toml:"locale" env:"MANGASHELF_LOCALE"`

	Reader ReaderDefaults `toml:"reader"`
}

func defaults() *Config {
	return &Config{
		Environment: "production",
		Reader: ReaderDefaults{
			ReadingMode:      reader.SinglePage.String(),
			ReadingDirection: reader.LTR.String(),
			TapZoneLayout:    reader.LayoutLShaped.String(),
			TapZoneInvert:    reader.InvertNone.String(),
			ScrollAmount:     reader.DefaultScrollAmount,
		},
	}
}

// Load reads the configuration. A missing config file is not an error.
func Load() (*Config, error) {
	cfg := defaults()

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment variables: %w", err)
	}
	if cfg.RootDir == "" {
		cfg.RootDir = RootDir()
	}
	rootDir := cfg.RootDir

	data, err := os.ReadFile(filepath.Join(rootDir, FileName))
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("config: failed to read %s: %w", FileName, err)
	default:
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("config: failed to parse %s: %w", FileName, err)
		}
		cfg.RootDir = rootDir
		// Environment overrides the file.
		if err := env.Parse(cfg); err != nil {
			return nil, fmt.Errorf("config: failed to parse environment variables: %w", err)
		}
	}

	if cfg.DownloadDir == "" {
		cfg.DownloadDir = filepath.Join(cfg.RootDir, "downloads")
	}
	return cfg, nil
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// TranslationDebug reports whether missing translations get logged.
func (c *Config) TranslationDebug() bool {
	return c.Debug || !c.IsProduction()
}

func (c *Config) DatabasePath() string {
	return filepath.Join(c.RootDir, "mangashelf.db")
}

func (c *Config) LogPath() string {
	return filepath.Join(c.RootDir, "logs", "mangashelf.log")
}

// ReaderSettings parses the reader defaults.
func (c *Config) ReaderSettings() (reader.Settings, error) {
	settings := reader.DefaultSettings()
	r := c.Reader

	var err error
	if settings.ReadingMode, err = reader.ParseReadingMode(r.ReadingMode); err != nil {
		return settings, fmt.Errorf("config: reader: %w", err)
	}
	if settings.ReadingDirection, err = reader.ParseReadingDirection(r.ReadingDirection); err != nil {
		return settings, fmt.Errorf("config: reader: %w", err)
	}
	layout, err := reader.ParseTapZoneLayout(r.TapZoneLayout)
	if err != nil {
		return settings, fmt.Errorf("config: reader: %w", err)
	}
	invert, err := reader.ParseTapZoneInvert(r.TapZoneInvert)
	if err != nil {
		return settings, fmt.Errorf("config: reader: %w", err)
	}
	settings.TapZones = reader.NewTapZones(layout, invert)
	if r.ScrollAmount < 0 || r.ScrollAmount > 100 {
		return settings, fmt.Errorf("config: reader: scroll amount %d out of range", r.ScrollAmount)
	}
	if r.ScrollAmount > 0 {
		settings.ScrollAmount = r.ScrollAmount
	}
	settings.StaticNav = r.StaticNav
	return settings, nil
}
