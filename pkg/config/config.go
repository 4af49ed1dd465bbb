package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Config aggregates every tunable of the admin console.
type Config struct {
	Env string

	API       APIConfig
	Log       LogConfig
	Downloads DownloadsConfig
	Uploads   UploadsConfig
	Metrics   MetricsConfig
	Console   ConsoleConfig
}

// APIConfig points the client at the remote school API. The base URL is
// injectable per environment; the session cookie is the ambient credential
// attached to every outbound request.
type APIConfig struct {
	BaseURL       string
	SessionCookie string
	CookieName    string
	Timeout       time.Duration
}

type LogConfig struct {
	Level  string
	Format string
}

// DownloadsConfig controls where generated and fetched reports are written.
type DownloadsConfig struct {
	Dir string
}

// UploadsConfig bounds file fields on multipart forms.
type UploadsConfig struct {
	MaxFileSizeBytes  int64
	AllowedImageMIMEs []string
}

// MetricsConfig exposes the Prometheus endpoint for the console process.
type MetricsConfig struct {
	Enabled bool
	Addr    string
}

// ConsoleConfig tunes interactive behaviour.
type ConsoleConfig struct {
	AssumeYes bool
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")

	cfg.API = APIConfig{
		BaseURL:       strings.TrimRight(v.GetString("API_BASE_URL"), "/"),
		SessionCookie: v.GetString("API_SESSION_COOKIE"),
		CookieName:    v.GetString("API_COOKIE_NAME"),
		Timeout:       parseDuration(v.GetString("API_TIMEOUT"), 0),
	}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Downloads = DownloadsConfig{Dir: v.GetString("DOWNLOAD_DIR")}

	cfg.Uploads = UploadsConfig{
		MaxFileSizeBytes:  v.GetInt64("UPLOAD_MAX_FILE_SIZE_BYTES"),
		AllowedImageMIMEs: splitAndTrim(v.GetString("UPLOAD_ALLOWED_IMAGE_MIMES")),
	}

	cfg.Metrics = MetricsConfig{
		Enabled: v.GetBool("METRICS_ENABLED"),
		Addr:    v.GetString("METRICS_ADDR"),
	}

	cfg.Console = ConsoleConfig{AssumeYes: v.GetBool("ASSUME_YES")}

	if cfg.API.BaseURL == "" {
		return nil, fmt.Errorf("API_BASE_URL is required")
	}
	if _, err := url.Parse(cfg.API.BaseURL); err != nil {
		return nil, fmt.Errorf("invalid API_BASE_URL: %w", err)
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("API_COOKIE_NAME", "session")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
	v.SetDefault("DOWNLOAD_DIR", "./downloads")
	v.SetDefault("UPLOAD_MAX_FILE_SIZE_BYTES", int64(10*1024*1024))
	v.SetDefault("UPLOAD_ALLOWED_IMAGE_MIMES", "image/jpeg,image/png,image/gif,image/webp")
	v.SetDefault("METRICS_ENABLED", false)
	v.SetDefault("METRICS_ADDR", ":9190")
	v.SetDefault("ASSUME_YES", false)
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}
	return d
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
