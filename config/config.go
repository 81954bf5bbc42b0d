// Package config loads the HTTP server configuration
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"

	"pixel-steganography/imaging"
	"pixel-steganography/observability"
)

const EnvPort = "PORT"

type Config struct {
	Server ServerConfig `toml:"server"`
	Log    LogConfig    `toml:"log"`
}

type ServerConfig struct {
	Addr           string   `toml:"addr"`
	AllowedOrigins []string `toml:"allowed_origins"`
	MaxUploadMB    int64    `toml:"max_upload_mb"`
	OutputFormat   string   `toml:"output_format"`
}

type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

func Default() Config {
	return Config{
		Server: ServerConfig{
			Addr:           ":8080",
			AllowedOrigins: []string{"http://localhost:3000"},
			MaxUploadMB:    32,
			OutputFormat:   imaging.FormatPNG,
		},
		Log: LogConfig{
			Level:  "info",
			Format: observability.FormatConsole,
		},
	}
}

// Load reads a TOML file over the defaults. An empty path returns the
// defaults. PORT and PIXSTEG_LOG_LEVEL override the file.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("config load failed (%s): %w", path, err)
		}
		if _, err := toml.Decode(string(data), &cfg); err != nil {
			return Config{}, fmt.Errorf("config parse failed (%s): %w", path, err)
		}
	}
	applyEnvOverrides(&cfg)
	if err := Validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if port := strings.TrimSpace(os.Getenv(EnvPort)); port != "" {
		cfg.Server.Addr = ":" + strings.TrimPrefix(port, ":")
	}
	if lvl := strings.TrimSpace(os.Getenv(observability.EnvLogLevel)); lvl != "" {
		cfg.Log.Level = lvl
	}
}

func Validate(cfg Config) error {
	var errs []error
	if strings.TrimSpace(cfg.Server.Addr) == "" {
		errs = append(errs, errors.New("server.addr is required"))
	}
	if cfg.Server.MaxUploadMB <= 0 {
		errs = append(errs, fmt.Errorf("server.max_upload_mb must be positive, was %d", cfg.Server.MaxUploadMB))
	}
	if !imaging.IsOutputFormat(cfg.Server.OutputFormat) {
		errs = append(errs, fmt.Errorf("server.output_format %q is not one of %v", cfg.Server.OutputFormat, imaging.OutputFormats))
	}
	if _, ok := observability.ParseLevel(cfg.Log.Level); !ok {
		errs = append(errs, fmt.Errorf("log.level %q is not recognised", cfg.Log.Level))
	}
	switch cfg.Log.Format {
	case observability.FormatConsole, observability.FormatJSON:
	default:
		errs = append(errs, fmt.Errorf("log.format must be %q or %q, was %q", observability.FormatConsole, observability.FormatJSON, cfg.Log.Format))
	}
	return errors.Join(errs...)
}

// MaxUploadBytes returns the multipart memory limit.
func (s ServerConfig) MaxUploadBytes() int64 {
	return s.MaxUploadMB << 20
}
