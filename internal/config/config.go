package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/keagan/reelforge/pkg/util"
)

type contextKey string

const configKey contextKey = "config"

// Config holds all application configuration
type Config struct {
	// Directory holding editor.db and its lock file
	StateDir string `yaml:"state_dir" toml:"state_dir"`

	Editor EditorConfig `yaml:"editor" toml:"editor"`
	Render RenderConfig `yaml:"render" toml:"render"`
	FFmpeg FFmpegConfig `yaml:"ffmpeg" toml:"ffmpeg"`
}

type EditorConfig struct {
	DefaultDuration float64 `yaml:"default_duration" toml:"default_duration"`
	MinDuration     float64 `yaml:"min_duration" toml:"min_duration"`
	MaxDuration     float64 `yaml:"max_duration" toml:"max_duration"`
	Format          string  `yaml:"format" toml:"format"`
	FPS             int     `yaml:"fps" toml:"fps"`
	SkipSeconds     float64 `yaml:"skip_seconds" toml:"skip_seconds"`
	ResizeEpsilon   float64 `yaml:"resize_epsilon" toml:"resize_epsilon"`
	PixelsPerSecond float64 `yaml:"pixels_per_second" toml:"pixels_per_second"`
	TimelineHeight  int     `yaml:"timeline_height" toml:"timeline_height"`
}

type RenderConfig struct {
	Background     string  `yaml:"background" toml:"background"`
	BrandColor     string  `yaml:"brand_color" toml:"brand_color"`
	ProgressBar    bool    `yaml:"progress_bar" toml:"progress_bar"`
	PreviewScale   float64 `yaml:"preview_scale" toml:"preview_scale"`
	WordsPerScreen int     `yaml:"words_per_screen" toml:"words_per_screen"`
}

type FFmpegConfig struct {
	BinaryPath string `yaml:"binary_path" toml:"binary_path"`
	ProbePath  string `yaml:"probe_path" toml:"probe_path"`
	// Optional; audio clips stay silent without it
	PlayPath   string `yaml:"play_path" toml:"play_path"`
}

// Load reads configuration from file or returns defaults, then applies
// .env and REELFORGE_* environment overrides.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = findConfigFile()
	}

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := decode(path, data, cfg); err != nil {
				return nil, fmt.Errorf("parse config %s: %w", path, err)
			}
		case !os.IsNotExist(err):
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	// .env is optional; a missing file is not an error
	_ = godotenv.Load()
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	cfg.normalize()
	return cfg, nil
}

func decode(path string, data []byte, cfg *Config) error {
	if util.GetExtension(path) == ".toml" {
		return toml.Unmarshal(data, cfg)
	}
	return yaml.Unmarshal(data, cfg)
}

// Save writes configuration to file, TOML when the extension asks for it.
func (c *Config) Save(path string) error {
	var (
		data []byte
		err  error
	)
	if util.GetExtension(path) == ".toml" {
		data, err = toml.Marshal(c)
	} else {
		data, err = yaml.Marshal(c)
	}
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := util.EnsureDir(dir); err != nil {
			return err
		}
	}
	return os.WriteFile(path, data, 0644)
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		StateDir: "~/.reelforge",
		Editor: EditorConfig{
			DefaultDuration: 90,
			MinDuration:     10,
			MaxDuration:     300,
			Format:          "vertical",
			FPS:             30,
			SkipSeconds:     5,
			ResizeEpsilon:   0.1,
			PixelsPerSecond: 10,
			TimelineHeight:  220,
		},
		Render: RenderConfig{
			Background:     "#1a1a2e",
			BrandColor:     "#00A6CE",
			ProgressBar:    false,
			PreviewScale:   0.25,
			WordsPerScreen: 4,
		},
		FFmpeg: FFmpegConfig{
			BinaryPath: "ffmpeg",
			ProbePath:  "ffprobe",
			PlayPath:   "ffplay",
		},
	}
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("REELFORGE_STATE_DIR"); v != "" {
		c.StateDir = v
	}
	if v := os.Getenv("REELFORGE_FORMAT"); v != "" {
		c.Editor.Format = v
	}
	if v := os.Getenv("REELFORGE_FFMPEG"); v != "" {
		c.FFmpeg.BinaryPath = v
	}
	if v := os.Getenv("REELFORGE_DURATION"); v != "" {
		d, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("REELFORGE_DURATION: %w", err)
		}
		c.Editor.DefaultDuration = d
	}
	return nil
}

// normalize repairs values a hand-edited file may leave unusable.
func (c *Config) normalize() {
	def := Default()
	c.StateDir = util.ExpandHome(c.StateDir)
	if c.Editor.MinDuration <= 0 {
		c.Editor.MinDuration = def.Editor.MinDuration
	}
	if c.Editor.MaxDuration < c.Editor.MinDuration {
		c.Editor.MaxDuration = c.Editor.MinDuration
	}
	c.Editor.DefaultDuration = util.Clamp(c.Editor.DefaultDuration, c.Editor.MinDuration, c.Editor.MaxDuration)
	c.Editor.Format = strings.ToLower(c.Editor.Format)
	if c.Editor.Format != "vertical" && c.Editor.Format != "horizontal" {
		c.Editor.Format = def.Editor.Format
	}
	if c.Editor.FPS <= 0 {
		c.Editor.FPS = def.Editor.FPS
	}
	if c.Editor.SkipSeconds <= 0 {
		c.Editor.SkipSeconds = def.Editor.SkipSeconds
	}
	if c.Editor.ResizeEpsilon <= 0 {
		c.Editor.ResizeEpsilon = def.Editor.ResizeEpsilon
	}
	if c.Editor.PixelsPerSecond <= 0 {
		c.Editor.PixelsPerSecond = def.Editor.PixelsPerSecond
	}
	if c.Render.PreviewScale <= 0 || c.Render.PreviewScale > 1 {
		c.Render.PreviewScale = def.Render.PreviewScale
	}
	if c.Render.WordsPerScreen <= 0 {
		c.Render.WordsPerScreen = def.Render.WordsPerScreen
	}
}

func findConfigFile() string {
	candidates := []string{
		"./reelforge.yaml",
		"./reelforge.yml",
		"./reelforge.toml",
		filepath.Join(os.Getenv("HOME"), ".reelforge", "config.yaml"),
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// WithConfig stores config in context
func WithConfig(ctx context.Context, cfg *Config) context.Context {
	return context.WithValue(ctx, configKey, cfg)
}

// FromContext retrieves config from context
func FromContext(ctx context.Context) *Config {
	if cfg, ok := ctx.Value(configKey).(*Config); ok {
		return cfg
	}
	return Default()
}
