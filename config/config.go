package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds everything the service and the CLI need. Values are layered:
// defaults, then an optional YAML file, then environment variables.
type Config struct {
	Addr        string `yaml:"addr"`
	Dev         bool   `yaml:"dev"`
	LogFile     string `yaml:"log_file"`
	MaxUploadMB int64  `yaml:"max_upload_mb"`
	JPEGQuality int    `yaml:"jpeg_quality"`
	StaticDir   string `yaml:"static_dir"`

	// MaxSide downscales uploads before segmentation; 0 keeps them as is.
	MaxSide         int  `yaml:"max_side"`
	SkipTransparent bool `yaml:"skip_transparent"`

	RemBG    RemBG    `yaml:"rembg"`
	Artifact Artifact `yaml:"artifact"`
}

type RemBG struct {
	Backend      string        `yaml:"backend"`
	URL          string        `yaml:"url"`
	Timeout      time.Duration `yaml:"timeout"`
	PollInterval time.Duration `yaml:"poll_interval"`
}

// Artifact configures optional persistence of results. An empty Dir
// disables it.
type Artifact struct {
	Dir       string        `yaml:"dir"`
	TTL       time.Duration `yaml:"ttl"`
	PruneSpec string        `yaml:"prune_spec"`
}

func Default() *Config {
	return &Config{
		Addr:        ":5000",
		MaxUploadMB: 16,
		JPEGQuality: 95,
		RemBG: RemBG{
			Backend:      "none",
			Timeout:      120 * time.Second,
			PollInterval: 500 * time.Millisecond,
		},
		Artifact: Artifact{
			TTL:       24 * time.Hour,
			PruneSpec: "@hourly",
		},
	}
}

// Load builds a Config from path (skipped when empty) and the environment,
// and validates the result.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	c.Addr = getEnvOrDefault("CUTOUT_ADDR", c.Addr)
	c.Dev = parseBoolEnv("CUTOUT_DEV", c.Dev)
	c.LogFile = getEnvOrDefault("LOG_FILE", c.LogFile)
	c.MaxUploadMB = parseInt64Env("MAX_UPLOAD_MB", c.MaxUploadMB)
	c.JPEGQuality = parseIntEnv("JPEG_QUALITY", c.JPEGQuality)
	c.StaticDir = getEnvOrDefault("STATIC_DIR", c.StaticDir)
	c.MaxSide = parseIntEnv("MAX_SIDE", c.MaxSide)
	c.SkipTransparent = parseBoolEnv("SKIP_TRANSPARENT", c.SkipTransparent)

	c.RemBG.Backend = strings.ToLower(getEnvOrDefault("REMBG_BACKEND", c.RemBG.Backend))
	c.RemBG.URL = getEnvOrDefault("REMBG_URL", c.RemBG.URL)
	c.RemBG.Timeout = parseSecondsEnv("REMBG_TIMEOUT", c.RemBG.Timeout)

	c.Artifact.Dir = getEnvOrDefault("ARTIFACT_DIR", c.Artifact.Dir)
	if v := os.Getenv("ARTIFACT_TTL"); v != "" {
		if hours, err := strconv.Atoi(v); err == nil {
			c.Artifact.TTL = time.Duration(hours) * time.Hour
		}
	}
	c.Artifact.PruneSpec = getEnvOrDefault("ARTIFACT_PRUNE_SPEC", c.Artifact.PruneSpec)
}

// MaxUploadBytes is the request body limit for uploads.
func (c *Config) MaxUploadBytes() int64 {
	return c.MaxUploadMB << 20
}

func (c *Config) Validate() error {
	var errs []error
	if c.Addr == "" {
		errs = append(errs, errors.New("addr must not be empty"))
	}
	if c.MaxUploadMB <= 0 {
		errs = append(errs, fmt.Errorf("max_upload_mb must be positive, got %d", c.MaxUploadMB))
	}
	if c.JPEGQuality < 1 || c.JPEGQuality > 100 {
		errs = append(errs, fmt.Errorf("jpeg_quality must be within 1..100, got %d", c.JPEGQuality))
	}
	if c.MaxSide < 0 {
		errs = append(errs, fmt.Errorf("max_side must not be negative, got %d", c.MaxSide))
	}
	switch c.RemBG.Backend {
	case "none", "":
	case "http", "birefnet":
		if c.RemBG.URL == "" {
			errs = append(errs, fmt.Errorf("rembg backend %q needs a url", c.RemBG.Backend))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown rembg backend %q", c.RemBG.Backend))
	}
	if c.Artifact.Dir != "" && c.Artifact.TTL <= 0 {
		errs = append(errs, fmt.Errorf("artifact ttl must be positive, got %s", c.Artifact.TTL))
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}
