package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	ProviderAzure     = "azure"
	ProviderAnthropic = "anthropic"
)

type Config struct {
	Port     int
	LogLevel string

	LLMProvider     string
	LLMTimeout      time.Duration
	AzureAPIKey     string
	AzureEndpoint   string
	AzureDeployment string
	AzureAPIVersion string
	AnthropicAPIKey string
	AnthropicModel  string

	OpenAIAPIKey string
	WhisperURL   string
	WhisperModel string

	NatsURL   string
	NatsToken string
	RedisAddr string

	SessionTTL  time.Duration
	MaxUploadMB int
	CORSOrigins []string
}

func Load() Config {
	return Config{
		Port:            envInt("COACHR_PORT", 8760),
		LogLevel:        envStr("LOG_LEVEL", "info"),
		LLMProvider:     strings.ToLower(envStr("COACHR_LLM_PROVIDER", ProviderAzure)),
		LLMTimeout:      envDuration("COACHR_LLM_TIMEOUT", 120*time.Second),
		AzureAPIKey:     envStr("AZURE_OPENAI_API_KEY", ""),
		AzureEndpoint:   envStr("AZURE_OPENAI_ENDPOINT", ""),
		AzureDeployment: envStr("AZURE_OPENAI_DEPLOYMENT", "gpt-4.1"),
		AzureAPIVersion: envStr("AZURE_OPENAI_API_VERSION", "2024-12-01-preview"),
		AnthropicAPIKey: envStr("ANTHROPIC_API_KEY", ""),
		AnthropicModel:  envStr("COACHR_ANTHROPIC_MODEL", "claude-sonnet-4-20250514"),
		OpenAIAPIKey:    envStr("OPENAI_API_KEY", ""),
		WhisperURL:      envStr("WHISPER_URL", "https://api.openai.com/v1"),
		WhisperModel:    envStr("WHISPER_MODEL", "whisper-1"),
		NatsURL:         envStr("NATS_URL", ""),
		NatsToken:       envStr("NATS_TOKEN", ""),
		RedisAddr:       envStr("REDIS_ADDR", ""),
		SessionTTL:      envDuration("COACHR_SESSION_TTL", 2*time.Hour),
		MaxUploadMB:     envInt("COACHR_MAX_UPLOAD_MB", 32),
		CORSOrigins:     envList("COACHR_CORS_ORIGINS", []string{"*"}),
	}
}

// Validate reports missing credentials for the selected provider.
func (c Config) Validate() error {
	switch c.LLMProvider {
	case ProviderAzure:
		if c.AzureAPIKey == "" || c.AzureEndpoint == "" {
			return errors.New("AZURE_OPENAI_API_KEY and AZURE_OPENAI_ENDPOINT are required for the azure provider")
		}
	case ProviderAnthropic:
		if c.AnthropicAPIKey == "" {
			return errors.New("ANTHROPIC_API_KEY is required for the anthropic provider")
		}
	default:
		return errors.New("COACHR_LLM_PROVIDER must be azure or anthropic, got " + strconv.Quote(c.LLMProvider))
	}
	return nil
}

// MaxUploadBytes is the multipart ceiling in bytes.
func (c Config) MaxUploadBytes() int64 {
	return int64(c.MaxUploadMB) << 20
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			return d
		}
	}
	return fallback
}

func envList(key string, fallback []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
