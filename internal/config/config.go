package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/mgpai22/cueline/internal/caption"
	"github.com/mgpai22/cueline/internal/subtitle"
)

const (
	DefaultHost = "127.0.0.1"
	DefaultPort = 8790

	DefaultBatchSize   = 50
	DefaultConcurrency = 3
)

var ErrInvalidConfig = errors.New("invalid configuration")

type Config struct {
	Caption struct {
		DefaultDuration float64 `yaml:"default_duration"`
		StrictTiming    bool    `yaml:"strict_timing"`
	} `yaml:"caption"`

	Server struct {
		Host            string        `yaml:"host"`
		Port            int           `yaml:"port"`
		ReadTimeout     time.Duration `yaml:"read_timeout"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	} `yaml:"server"`

	Export struct {
		Format string `yaml:"format"`
		// empty means subtitles.<ext>
		Filename string `yaml:"filename"`
	} `yaml:"export"`

	Media struct {
		FFmpegPath  string `yaml:"ffmpeg_path"`
		FFprobePath string `yaml:"ffprobe_path"`
	} `yaml:"media"`

	Translate struct {
		Provider    string `yaml:"provider"`
		Model       string `yaml:"model"`
		BatchSize   int    `yaml:"batch_size"`
		Concurrency int    `yaml:"concurrency"`
	} `yaml:"translate"`

	path string
}

func Default() *Config {
	c := &Config{}

	c.Caption.DefaultDuration = caption.DefaultDuration
	c.Caption.StrictTiming = false

	c.Server.Host = DefaultHost
	c.Server.Port = DefaultPort
	c.Server.ReadTimeout = 15 * time.Second
	c.Server.ShutdownTimeout = 10 * time.Second

	c.Export.Format = string(subtitle.FormatSRT)

	c.Translate.Provider = "gemini"
	c.Translate.BatchSize = DefaultBatchSize
	c.Translate.Concurrency = DefaultConcurrency

	return c
}

// DefaultPath is config.yaml under the user config directory.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "cueline.yaml"
	}
	return filepath.Join(dir, "cueline", "config.yaml")
}

// Load reads the YAML file at path over the defaults. An empty path means
// DefaultPath, and a missing default file yields the defaults. A missing
// explicit path is an error.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}

	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && !explicit {
			cfg.normalize()
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	// fields absent from the file keep their defaults
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	cfg.path = path

	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Path is the file the configuration was read from, empty for defaults.
func (c *Config) Path() string {
	return c.path
}

func (c *Config) normalize() {
	if c.Caption.DefaultDuration <= 0 {
		c.Caption.DefaultDuration = caption.DefaultDuration
	}

	c.Server.Host = strings.TrimSpace(c.Server.Host)
	if c.Server.Host == "" {
		c.Server.Host = DefaultHost
	}
	if c.Server.ReadTimeout <= 0 {
		c.Server.ReadTimeout = 15 * time.Second
	}
	if c.Server.ShutdownTimeout <= 0 {
		c.Server.ShutdownTimeout = 10 * time.Second
	}

	c.Export.Format = strings.TrimPrefix(strings.ToLower(strings.TrimSpace(c.Export.Format)), ".")
	if c.Export.Format == "" {
		c.Export.Format = string(subtitle.FormatSRT)
	}
	c.Export.Filename = strings.TrimSpace(c.Export.Filename)

	c.Media.FFmpegPath = cleanPath(c.Media.FFmpegPath)
	c.Media.FFprobePath = cleanPath(c.Media.FFprobePath)

	c.Translate.Provider = strings.ToLower(strings.TrimSpace(c.Translate.Provider))
	if c.Translate.Provider == "" {
		c.Translate.Provider = "gemini"
	}
	c.Translate.Model = strings.TrimSpace(c.Translate.Model)
	if c.Translate.BatchSize <= 0 {
		c.Translate.BatchSize = DefaultBatchSize
	}
	if c.Translate.Concurrency <= 0 {
		c.Translate.Concurrency = DefaultConcurrency
	}
}

func cleanPath(p string) string {
	p = strings.TrimSpace(p)
	if p == "" {
		return ""
	}
	return filepath.Clean(p)
}

// Validate reports values that normalization cannot repair.
func (c *Config) Validate() error {
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("%w: server.port %d out of range", ErrInvalidConfig, c.Server.Port)
	}
	if _, err := subtitle.ParseFormat(c.Export.Format); err != nil {
		return fmt.Errorf("%w: export.format: %v", ErrInvalidConfig, err)
	}
	switch c.Translate.Provider {
	case "gemini", "openai", "anthropic":
	default:
		return fmt.Errorf("%w: unknown translate.provider %q", ErrInvalidConfig, c.Translate.Provider)
	}
	return nil
}

func (c *Config) ExportFormat() subtitle.Format {
	f, err := subtitle.ParseFormat(c.Export.Format)
	if err != nil {
		return subtitle.FormatSRT
	}
	return f
}

func (c *Config) Addr() string {
	return net.JoinHostPort(c.Server.Host, strconv.Itoa(c.Server.Port))
}
