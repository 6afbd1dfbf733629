package config

import (
	"errors"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

type Config struct {
	DiscordToken            string        `yaml:"discord_token"`
	LogLevel                string        `yaml:"log_level"`
	OwnerIDs                []string      `yaml:"owner_ids"`
	TestGuilds              []string      `yaml:"test_guilds"`
	LangDir                 string        `yaml:"lang_dir"`
	Activities              []string      `yaml:"activities"`
	ActivityType            string        `yaml:"activity_type"`
	ActivityStatus          string        `yaml:"activity_status"`
	ActivityIntervalSeconds int           `yaml:"activity_interval_seconds"`
	EmbedColor              int           `yaml:"embed_color"`
	Support                 SupportConfig `yaml:"support"`
	HTTP                    HTTPConfig    `yaml:"http"`
	Health                  HealthConfig  `yaml:"health"`
}

type SupportConfig struct {
	InviteCode string `yaml:"invite_code"`
}

type HTTPConfig struct {
	TimeoutSeconds int          `yaml:"timeout_seconds"`
	RatePerSecond  float64      `yaml:"rate_per_second"`
	Burst          int          `yaml:"burst"`
	UserAgent      string       `yaml:"user_agent"`
	OAuth2         OAuth2Config `yaml:"oauth2"`
}

type OAuth2Config struct {
	TokenURL     string   `yaml:"token_url"`
	ClientID     string   `yaml:"client_id"`
	ClientSecret string   `yaml:"client_secret"`
	Scopes       []string `yaml:"scopes"`
}

func (c OAuth2Config) Enabled() bool {
	return c.TokenURL != "" && c.ClientID != ""
}

type HealthConfig struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"`
}

func DefaultConfig() Config {
	return Config{
		LogLevel:                "info",
		Activities:              []string{"/help"},
		ActivityType:            "watching",
		ActivityStatus:          "online",
		ActivityIntervalSeconds: 300,
		EmbedColor:              0x5865F2,
		Support:                 SupportConfig{InviteCode: "example"},
		HTTP:                    HTTPConfig{TimeoutSeconds: 15, Burst: 1, UserAgent: "bot-template"},
		Health:                  HealthConfig{Enabled: false, Addr: ":8080"},
	}
}

// Load reads defaults, then CONFIG_PATH (or config.yaml), then the
// environment. A .env file, when present, is applied to the environment first.
func Load() (Config, error) {
	cfg := DefaultConfig()

	_ = godotenv.Overload()

	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		path = "config.yaml"
	}
	if data, err := os.ReadFile(path); err == nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, err
		}
	}

	applyEnv(&cfg)
	if cfg.DiscordToken == "" {
		return Config{}, errors.New("DISCORD_TOKEN is required")
	}
	if cfg.ActivityIntervalSeconds <= 0 {
		cfg.ActivityIntervalSeconds = 300
	}
	cfg.ActivityType = normalizeActivityType(cfg.ActivityType)
	cfg.ActivityStatus = normalizeStatus(cfg.ActivityStatus)

	return cfg, nil
}

func applyEnv(cfg *Config) {
	cfg.DiscordToken = envString("TOKEN", cfg.DiscordToken)
	cfg.DiscordToken = envString("DISCORD_TOKEN", cfg.DiscordToken)
	cfg.LogLevel = envString("LOG_LEVEL", cfg.LogLevel)
	cfg.OwnerIDs = envList("OWNER_IDS", cfg.OwnerIDs)
	cfg.TestGuilds = envList("TEST_GUILDS", cfg.TestGuilds)
	cfg.LangDir = envString("LANG_DIR", cfg.LangDir)
	cfg.Activities = envList("ACTIVITIES", cfg.Activities)
	cfg.ActivityType = envString("ACTIVITY_TYPE", cfg.ActivityType)
	cfg.ActivityStatus = envString("ACTIVITY_STATUS", cfg.ActivityStatus)
	cfg.ActivityIntervalSeconds = envInt("ACTIVITY_INTERVAL_SECONDS", cfg.ActivityIntervalSeconds)
	cfg.EmbedColor = envInt("EMBED_COLOR", cfg.EmbedColor)
	cfg.Support.InviteCode = envString("SUPPORT_INVITE_CODE", cfg.Support.InviteCode)
	cfg.HTTP.TimeoutSeconds = envInt("HTTP_TIMEOUT_SECONDS", cfg.HTTP.TimeoutSeconds)
	cfg.HTTP.RatePerSecond = envFloat("HTTP_RATE_PER_SECOND", cfg.HTTP.RatePerSecond)
	cfg.HTTP.Burst = envInt("HTTP_BURST", cfg.HTTP.Burst)
	cfg.HTTP.UserAgent = envString("HTTP_USER_AGENT", cfg.HTTP.UserAgent)
	cfg.HTTP.OAuth2.TokenURL = envString("HTTP_OAUTH2_TOKEN_URL", cfg.HTTP.OAuth2.TokenURL)
	cfg.HTTP.OAuth2.ClientID = envString("HTTP_OAUTH2_CLIENT_ID", cfg.HTTP.OAuth2.ClientID)
	cfg.HTTP.OAuth2.ClientSecret = envString("HTTP_OAUTH2_CLIENT_SECRET", cfg.HTTP.OAuth2.ClientSecret)
	cfg.HTTP.OAuth2.Scopes = envList("HTTP_OAUTH2_SCOPES", cfg.HTTP.OAuth2.Scopes)
	cfg.Health.Enabled = envBool("HEALTH_ENABLED", cfg.Health.Enabled)
	cfg.Health.Addr = envString("HEALTH_ADDR", cfg.Health.Addr)
}

func BuildLogger(level string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Encoding = "json"
	cfg.EncoderConfig.TimeKey = "time"
	cfg.EncoderConfig.MessageKey = "message"
	cfg.EncoderConfig.LevelKey = "level"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.Level = zap.NewAtomicLevelAt(parseLevel(strings.ToLower(level)))

	return cfg.Build()
}

func parseLevel(level string) zapcore.Level {
	switch level {
	case "debug":
		return zapcore.DebugLevel
	case "warn":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

func envString(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseInt(value, 0, 64); err == nil {
			return int(parsed)
		}
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseFloat(value, 64); err == nil {
			return parsed
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if value := os.Getenv(key); value != "" {
		lower := strings.ToLower(value)
		return lower == "1" || lower == "true" || lower == "yes"
	}
	return fallback
}

// envList splits a comma separated variable, dropping empty items.
func envList(key string, fallback []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	var out []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func normalizeActivityType(value string) string {
	switch strings.ToLower(value) {
	case "playing", "listening", "competing", "streaming":
		return strings.ToLower(value)
	default:
		return "watching"
	}
}

func normalizeStatus(value string) string {
	switch strings.ToLower(value) {
	case "idle", "dnd", "invisible":
		return strings.ToLower(value)
	default:
		return "online"
	}
}
