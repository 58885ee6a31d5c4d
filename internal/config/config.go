package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds runtime configuration values.
type Config struct {
	App      AppConfig      `mapstructure:"app"`
	Log      LogConfig      `mapstructure:"log"`
	Provider ProviderConfig `mapstructure:"provider"`
	Media    MediaConfig    `mapstructure:"media"`
}

// AppConfig describes the session host.
type AppConfig struct {
	Env    string `mapstructure:"env"`
	Port   string `mapstructure:"port"`
	WebDir string `mapstructure:"web_dir"`
}

// LogConfig selects the log level; empty means the environment default.
type LogConfig struct {
	Level string `mapstructure:"level"`
}

// ProviderConfig describes the AI provider backend.
type ProviderConfig struct {
	Name         string        `mapstructure:"name"`
	APIKey       string        `mapstructure:"api_key"`
	BaseURL      string        `mapstructure:"base_url"`
	ChatModel    string        `mapstructure:"chat_model"`
	VisionModel  string        `mapstructure:"vision_model"`
	ImageModel   string        `mapstructure:"image_model"`
	HDImageModel string        `mapstructure:"hd_image_model"`
	ImageSize    string        `mapstructure:"image_size"`
	Timeout      time.Duration `mapstructure:"timeout"`
}

// MediaConfig describes where uploads and renderings are kept.
type MediaConfig struct {
	Dir            string `mapstructure:"dir"`
	MaxItems       int    `mapstructure:"max_items"`
	MaxUploadBytes int64  `mapstructure:"max_upload_bytes"`
}

const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
)

var envBindings = map[string]string{
	"app.env":                 "APP_ENV",
	"app.port":                "APP_PORT",
	"app.web_dir":             "APP_WEB_DIR",
	"log.level":               "LOG_LEVEL",
	"provider.name":           "AI_PROVIDER",
	"provider.api_key":        "AI_API_KEY",
	"provider.base_url":       "AI_BASE_URL",
	"provider.chat_model":     "AI_CHAT_MODEL",
	"provider.vision_model":   "AI_VISION_MODEL",
	"provider.image_model":    "AI_IMAGE_MODEL",
	"provider.hd_image_model": "AI_HD_IMAGE_MODEL",
	"provider.image_size":     "AI_IMAGE_SIZE",
	"provider.timeout":        "AI_TIMEOUT",
	"media.dir":               "MEDIA_DIR",
	"media.max_items":         "MEDIA_MAX_ITEMS",
	"media.max_upload_bytes":  "MEDIA_MAX_UPLOAD_BYTES",
}

// Load reads .env (when present), the optional config file at path, and the
// environment, in increasing order of precedence.
func Load(path string) (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)
	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return Config{}, fmt.Errorf("bind %s: %w", env, err)
		}
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	cfg.Provider.Name = strings.ToLower(strings.TrimSpace(cfg.Provider.Name))
	applyProviderDefaults(&cfg.Provider)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects configurations the host cannot start with. A missing API
// key is accepted; the provider reports it as an authentication failure.
func (c Config) Validate() error {
	if strings.TrimSpace(c.App.Port) == "" {
		return errors.New("config: app.port cannot be empty")
	}
	switch c.Provider.Name {
	case ProviderOpenAI, ProviderGemini:
	default:
		return fmt.Errorf("config: unknown provider %q", c.Provider.Name)
	}
	if c.Provider.Timeout <= 0 {
		return errors.New("config: provider.timeout must be positive")
	}
	if c.Media.MaxItems <= 0 {
		return errors.New("config: media.max_items must be positive")
	}
	if c.Media.MaxUploadBytes <= 0 {
		return errors.New("config: media.max_upload_bytes must be positive")
	}
	return nil
}

// IsDevelopment reports whether the host runs in development mode.
func (c Config) IsDevelopment() bool {
	return c.App.Env == "development"
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "8080")
	v.SetDefault("app.web_dir", "web")
	v.SetDefault("log.level", "")
	v.SetDefault("provider.name", ProviderOpenAI)
	v.SetDefault("provider.api_key", "")
	v.SetDefault("provider.base_url", "")
	v.SetDefault("provider.chat_model", "")
	v.SetDefault("provider.vision_model", "")
	v.SetDefault("provider.image_model", "")
	v.SetDefault("provider.hd_image_model", "")
	v.SetDefault("provider.image_size", "1792x1024")
	v.SetDefault("provider.timeout", "120s")
	v.SetDefault("media.dir", "")
	v.SetDefault("media.max_items", 64)
	v.SetDefault("media.max_upload_bytes", 7*1024*1024)
}

// applyProviderDefaults fills models and the key from the provider's
// conventional environment variable.
func applyProviderDefaults(p *ProviderConfig) {
	switch p.Name {
	case ProviderGemini:
		if p.APIKey == "" {
			p.APIKey = os.Getenv("GEMINI_API_KEY")
		}
		setIfEmpty(&p.ChatModel, "gemini-2.5-flash")
		setIfEmpty(&p.ImageModel, "gemini-2.5-flash-image")
	default:
		if p.APIKey == "" {
			p.APIKey = os.Getenv("OPENAI_API_KEY")
		}
		setIfEmpty(&p.BaseURL, "https://api.openai.com/v1")
		setIfEmpty(&p.ChatModel, "gpt-4o")
		setIfEmpty(&p.ImageModel, "dall-e-3")
	}
	setIfEmpty(&p.VisionModel, p.ChatModel)
	setIfEmpty(&p.HDImageModel, p.ImageModel)
}

func setIfEmpty(dst *string, value string) {
	if strings.TrimSpace(*dst) == "" {
		*dst = value
	}
}
