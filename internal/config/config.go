// Package config handles loading and validating the voxlist configuration.
package config

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// Config is the root configuration for voxlist.
type Config struct {
	Server      ServerConfig      `mapstructure:"server"`
	Transports  TransportsConfig  `mapstructure:"transports"`
	Spotify     SpotifyConfig     `mapstructure:"spotify"`
	Transcriber TranscriberConfig `mapstructure:"transcriber"`
	Dispatch    DispatchConfig    `mapstructure:"dispatch"`
	Logging     LoggingConfig     `mapstructure:"logging"`
	Metrics     MetricsConfig     `mapstructure:"metrics"`
}

// ServerConfig holds the health check server settings.
type ServerConfig struct {
	HealthPort int `mapstructure:"health_port"`
}

// TransportsConfig holds the configuration for each transport layer.
type TransportsConfig struct {
	GRPC GRPCConfig `mapstructure:"grpc"`
	HTTP HTTPConfig `mapstructure:"http"`
}

// GRPCConfig configures the gRPC transport.
type GRPCConfig struct {
	Enabled bool `mapstructure:"enabled"`
	Port    int  `mapstructure:"port"`
}

// HTTPConfig configures the HTTP transport.
type HTTPConfig struct {
	Enabled bool `mapstructure:"enabled"`
	Port    int  `mapstructure:"port"`
}

// SpotifyConfig holds the Spotify application credentials and the user's
// refresh token.
type SpotifyConfig struct {
	ClientID     string      `mapstructure:"client_id"`
	ClientSecret string      `mapstructure:"client_secret"`
	RedirectURL  string      `mapstructure:"redirect_url"`
	RefreshToken string      `mapstructure:"refresh_token"`
	Retry        RetryConfig `mapstructure:"retry"`
}

// RetryConfig tunes retries of idempotent playlist service calls.
type RetryConfig struct {
	MaxAttempts     int           `mapstructure:"max_attempts"` // 1 disables retries
	InitialInterval time.Duration `mapstructure:"initial_interval"`
	MaxInterval     time.Duration `mapstructure:"max_interval"`
	MaxElapsedTime  time.Duration `mapstructure:"max_elapsed_time"`
}

// TranscriberConfig selects and configures the speech-to-text backend.
type TranscriberConfig struct {
	Backend  string        `mapstructure:"backend"`  // "openai", "asr" or "none"
	Language string        `mapstructure:"language"` // ISO-639-1 default language
	Prompt   string        `mapstructure:"prompt"`
	Timeout  time.Duration `mapstructure:"timeout"`
	OpenAI   OpenAIConfig  `mapstructure:"openai"`
	ASR      ASRConfig     `mapstructure:"asr"`
}

// OpenAIConfig holds OpenAI (or OpenAI-compatible) transcription settings.
type OpenAIConfig struct {
	APIKey  string `mapstructure:"api_key"`
	BaseURL string `mapstructure:"base_url"` // set for self-hosted whisper servers
	Model   string `mapstructure:"model"`
}

// ASRConfig holds whisper-asr-webservice settings.
type ASRConfig struct {
	Endpoint  string `mapstructure:"endpoint"`
	VADFilter bool   `mapstructure:"vad_filter"`
}

// DispatchConfig tunes the command dispatcher.
type DispatchConfig struct {
	Suggestions bool `mapstructure:"suggestions"` // "did you mean" hints
}

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Format string `mapstructure:"format"` // json, text
	Output string `mapstructure:"output"` // stdout, stderr
}

// MetricsConfig toggles the OpenTelemetry providers.
type MetricsConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// NewViper returns a viper instance with defaults, the config file search
// path and environment binding applied. If configFile is non-empty it is
// used directly; otherwise the standard search order applies:
// ./voxlist.yaml, ./configs/voxlist.yaml, /etc/voxlist/voxlist.yaml.
func NewViper(configFile string) *viper.Viper {
	v := viper.New()

	// Defaults
	v.SetDefault("server.health_port", 8081)
	v.SetDefault("transports.grpc.enabled", true)
	v.SetDefault("transports.grpc.port", 50051)
	v.SetDefault("transports.http.enabled", true)
	v.SetDefault("transports.http.port", 8080)
	v.SetDefault("spotify.client_id", "")
	v.SetDefault("spotify.client_secret", "")
	v.SetDefault("spotify.redirect_url", "http://127.0.0.1:8888/callback")
	v.SetDefault("spotify.refresh_token", "")
	v.SetDefault("spotify.retry.max_attempts", 3)
	v.SetDefault("spotify.retry.initial_interval", "200ms")
	v.SetDefault("spotify.retry.max_interval", "2s")
	v.SetDefault("spotify.retry.max_elapsed_time", "10s")
	v.SetDefault("transcriber.backend", "openai")
	v.SetDefault("transcriber.language", "en")
	v.SetDefault("transcriber.prompt", "")
	v.SetDefault("transcriber.timeout", "30s")
	v.SetDefault("transcriber.openai.api_key", "")
	v.SetDefault("transcriber.openai.base_url", "")
	v.SetDefault("transcriber.openai.model", "whisper-1")
	v.SetDefault("transcriber.asr.endpoint", "http://localhost:9000/asr")
	v.SetDefault("transcriber.asr.vad_filter", false)
	v.SetDefault("dispatch.suggestions", true)
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.output", "stdout")
	v.SetDefault("metrics.enabled", true)

	// Config file
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("voxlist")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		v.AddConfigPath("/etc/voxlist")
	}

	// Environment variables: VOXLIST_SPOTIFY_CLIENT_ID, VOXLIST_LOGGING_LEVEL, etc.
	v.SetEnvPrefix("VOXLIST")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return v
}

// Load reads the configuration from file, environment variables, and defaults.
func Load(configFile string) (*Config, error) {
	return Read(NewViper(configFile))
}

// Read loads the config file known to v, if any, and decodes the result.
func Read(v *viper.Viper) (*Config, error) {
	// Read config file (optional: env vars and defaults are sufficient)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config: %w", err)
		}
		slog.Info("no config file found, using defaults and environment variables")
	} else {
		slog.Info("loaded config file", "path", v.ConfigFileUsed())
	}
	return decode(v)
}

func decode(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	// Resolve env var references in sensitive fields (e.g., "${SPOTIFY_CLIENT_SECRET}")
	cfg.Spotify.ClientID = resolveEnvRef(cfg.Spotify.ClientID)
	cfg.Spotify.ClientSecret = resolveEnvRef(cfg.Spotify.ClientSecret)
	cfg.Spotify.RefreshToken = resolveEnvRef(cfg.Spotify.RefreshToken)
	cfg.Transcriber.OpenAI.APIKey = resolveEnvRef(cfg.Transcriber.OpenAI.APIKey)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values that would otherwise fail late.
func (c *Config) Validate() error {
	switch c.Transcriber.Backend {
	case "openai", "asr", "none":
	default:
		return fmt.Errorf("config: unknown transcriber backend %q", c.Transcriber.Backend)
	}
	for name, port := range map[string]int{
		"server.health_port":   c.Server.HealthPort,
		"transports.grpc.port": c.Transports.GRPC.Port,
		"transports.http.port": c.Transports.HTTP.Port,
	} {
		if port < 0 || port > 65535 {
			return fmt.Errorf("config: %s out of range: %d", name, port)
		}
	}
	return nil
}

// Watch re-reads the config file on change and passes the new config to
// onChange. Invalid edits are logged and ignored.
func Watch(v *viper.Viper, onChange func(*Config)) {
	v.OnConfigChange(func(e fsnotify.Event) {
		cfg, err := decode(v)
		if err != nil {
			slog.Warn("ignoring invalid config change", "path", e.Name, "error", err)
			return
		}
		slog.Info("config reloaded", "path", e.Name, "op", e.Op.String())
		onChange(cfg)
	})
	v.WatchConfig()
}

// resolveEnvRef replaces "${VAR_NAME}" patterns with the corresponding env var value.
func resolveEnvRef(val string) string {
	if strings.HasPrefix(val, "${") && strings.HasSuffix(val, "}") {
		envKey := val[2 : len(val)-1]
		if envVal := os.Getenv(envKey); envVal != "" {
			return envVal
		}
	}
	return val
}

// logLevel backs the default logger so the level can change at runtime.
var logLevel = new(slog.LevelVar)

// SetupLogging configures the global slog logger based on config.
func SetupLogging(cfg LoggingConfig) {
	SetLogLevel(cfg.Level)

	opts := &slog.HandlerOptions{Level: logLevel}

	var out io.Writer = os.Stdout
	if strings.ToLower(cfg.Output) == "stderr" {
		out = os.Stderr
	}

	var handler slog.Handler
	if strings.ToLower(cfg.Format) == "text" {
		handler = slog.NewTextHandler(out, opts)
	} else {
		handler = slog.NewJSONHandler(out, opts)
	}

	slog.SetDefault(slog.New(handler))
}

// SetLogLevel changes the level of the logger installed by SetupLogging.
func SetLogLevel(level string) {
	logLevel.Set(ParseLevel(level))
}

// ParseLevel maps a config level name to a slog.Level. Unknown names map to
// info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
