package config

import (
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ytget/yt-scribe/internal/model"
)

// Default values
const (
	DefaultQuality          = "best"
	DefaultEngine           = "whisper"
	DefaultModelSize        = "base"
	DefaultLanguage         = "ja"
	DefaultPacingMinSeconds = 3.0
	DefaultPacingMaxSeconds = 5.0
)

// DefaultCaptionFallback is the caption language order tried after the
// requested language.
var DefaultCaptionFallback = []string{"ja", "en"}

// Environment override keys, applied on top of the file by ApplyEnv.
const (
	EnvOutputDir  = "YTSCRIBE_OUTPUT_DIR"
	EnvFFmpegPath = "YTSCRIBE_FFMPEG_PATH"
	EnvEngine     = "YTSCRIBE_ENGINE"
	EnvModelSize  = "YTSCRIBE_MODEL_SIZE"
)

// PacingConfig is the anti-throttling delay window for batch downloads.
type PacingConfig struct {
	Enabled    bool    `yaml:"enabled"`
	MinSeconds float64 `yaml:"min_seconds"`
	MaxSeconds float64 `yaml:"max_seconds"`
}

// Min returns the lower bound as a duration.
func (p PacingConfig) Min() time.Duration {
	return time.Duration(p.MinSeconds * float64(time.Second))
}

// Max returns the upper bound as a duration.
func (p PacingConfig) Max() time.Duration {
	return time.Duration(p.MaxSeconds * float64(time.Second))
}

// Config is the application configuration, stored as YAML.
type Config struct {
	OutputDir        string       `yaml:"output_dir"`
	Quality          string       `yaml:"quality"`
	Pacing           PacingConfig `yaml:"pacing"`
	PreferCaptions   bool         `yaml:"prefer_captions"`
	CaptionFallback  []string     `yaml:"caption_fallback"`
	SubtitleLangs    []string     `yaml:"subtitle_langs"`
	Engine           string       `yaml:"engine"`
	ModelSize        string       `yaml:"model_size"`
	Language         string       `yaml:"language"`
	CustomVocabulary string       `yaml:"custom_vocabulary"`
	FFmpegPath       string       `yaml:"ffmpeg_path"`
}

// Default returns the configuration used when no file exists yet.
func Default() *Config {
	return &Config{
		OutputDir: defaultOutputDir(),
		Quality:   DefaultQuality,
		Pacing: PacingConfig{
			Enabled:    true,
			MinSeconds: DefaultPacingMinSeconds,
			MaxSeconds: DefaultPacingMaxSeconds,
		},
		PreferCaptions:  true,
		CaptionFallback: append([]string(nil), DefaultCaptionFallback...),
		Engine:          DefaultEngine,
		ModelSize:       DefaultModelSize,
		Language:        DefaultLanguage,
	}
}

func defaultOutputDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "downloads"
	}
	return filepath.Join(home, "Downloads")
}

// Load reads the configuration from path. A missing file is created with
// defaults; a malformed file is an error rather than silently replaced.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		cfg := Default()
		if err := cfg.Save(path); err != nil {
			return nil, err
		}
		return cfg, nil
	}
	if err != nil {
		return nil, model.NewError(model.KindFileIO, "cannot read config", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, model.NewError(model.KindFileIO, "malformed config", err)
	}
	cfg.normalize()
	return &cfg, nil
}

// Save writes the configuration to path, creating parent directories.
func (c *Config) Save(path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return model.NewError(model.KindFileIO, "cannot create config directory", err)
		}
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return model.NewError(model.KindFileIO, "cannot encode config", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return model.NewError(model.KindFileIO, "cannot write config", err)
	}
	return nil
}

// ApplyEnv overlays environment variable overrides.
func (c *Config) ApplyEnv() {
	if v := os.Getenv(EnvOutputDir); v != "" {
		c.OutputDir = v
	}
	if v := os.Getenv(EnvFFmpegPath); v != "" {
		c.FFmpegPath = v
	}
	if v := os.Getenv(EnvEngine); v != "" {
		c.Engine = v
	}
	if v := os.Getenv(EnvModelSize); v != "" {
		c.ModelSize = v
	}
}

// normalize fills gaps left by hand-edited files.
func (c *Config) normalize() {
	if c.OutputDir == "" {
		c.OutputDir = defaultOutputDir()
	}
	if c.Quality == "" {
		c.Quality = DefaultQuality
	}
	if c.Engine == "" {
		c.Engine = DefaultEngine
	}
	if c.ModelSize == "" {
		c.ModelSize = DefaultModelSize
	}
	if c.Language == "" {
		c.Language = DefaultLanguage
	}
	if len(c.CaptionFallback) == 0 {
		c.CaptionFallback = append([]string(nil), DefaultCaptionFallback...)
	}
	if c.Pacing.MinSeconds <= 0 && c.Pacing.MaxSeconds <= 0 {
		c.Pacing.MinSeconds = DefaultPacingMinSeconds
		c.Pacing.MaxSeconds = DefaultPacingMaxSeconds
	}
	if c.Pacing.MaxSeconds < c.Pacing.MinSeconds {
		c.Pacing.MaxSeconds = c.Pacing.MinSeconds
	}
}

// DefaultPath is the per-user config file location.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "yt-scribe.yaml"
	}
	return filepath.Join(dir, "yt-scribe", "config.yaml")
}
