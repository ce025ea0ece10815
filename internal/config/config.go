package config

import (
	"encoding/json"
	"os"
	"strconv"
)

type Config struct {
	// Server (Tool Provider)
	Host      string `json:"host"`
	Port      int    `json:"port"`
	LogLevel  string `json:"log_level"`
	ServerURL string `json:"server_url"` // SSE endpoint the host connects to

	// Alpha Vantage
	AlphaVantageAPIKey  string `json:"alpha_vantage_api_key"`
	AlphaVantageBaseURL string `json:"alpha_vantage_base_url"`

	// Anthropic
	AnthropicAPIKey  string `json:"anthropic_api_key"`
	AnthropicBaseURL string `json:"anthropic_base_url"` // override for custom proxy
	Model            string `json:"model"`
	MaxTokens        int    `json:"max_tokens"`

	// Connection retry
	MaxRetries       int     `json:"max_retries"`
	BaseDelaySeconds float64 `json:"base_delay_seconds"`

	// Operation timeouts (seconds)
	ConnectTimeout  int `json:"connect_timeout"`
	InitTimeout     int `json:"init_timeout"`
	DiscoverTimeout int `json:"discover_timeout"`
	ToolCallTimeout int `json:"tool_call_timeout"`
	LLMTimeout      int `json:"llm_timeout"`

	// Tool-use rounds per user turn. 1 means a single tool round-trip:
	// the follow-up completion is final regardless of its stop reason.
	MaxToolRounds int `json:"max_tool_rounds"`
}

func Load() (*Config, error) {
	cfg := &Config{
		Host:                DefaultHost,
		Port:                DefaultPort,
		LogLevel:            DefaultLogLevel,
		ServerURL:           DefaultServerURL,
		AlphaVantageBaseURL: DefaultAlphaVantageBaseURL,
		Model:               DefaultModel,
		MaxTokens:           DefaultMaxTokens,
		MaxRetries:          DefaultMaxRetries,
		BaseDelaySeconds:    DefaultBaseDelaySeconds,
		ConnectTimeout:      DefaultConnectTimeout,
		InitTimeout:         DefaultInitTimeout,
		DiscoverTimeout:     DefaultDiscoverTimeout,
		ToolCallTimeout:     DefaultToolCallTimeout,
		LLMTimeout:          DefaultLLMTimeout,
		MaxToolRounds:       DefaultMaxToolRounds,
	}

	// Load from JSON config file if specified
	if path := getEnv("FINSIGHT_CONFIG", ""); path != "" {
		if err := loadJSON(path, cfg); err != nil {
			return nil, err
		}
	}

	// Environment overrides
	applyEnvOverrides(cfg)

	return cfg, nil
}

func loadJSON(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, cfg)
}

func applyEnvOverrides(cfg *Config) {
	if v := getEnv("FINSIGHT_HOST", ""); v != "" {
		cfg.Host = v
	}
	if v := getEnv("FINSIGHT_PORT", ""); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			cfg.Port = p
		}
	}
	if v := getEnv("FINSIGHT_LOG_LEVEL", ""); v != "" {
		cfg.LogLevel = v
	}
	if v := getEnv("FINSIGHT_SERVER_URL", ""); v != "" {
		cfg.ServerURL = v
	}
	if v := getEnv("ALPHA_VANTAGE_API_KEY", ""); v != "" {
		cfg.AlphaVantageAPIKey = v
	}
	if v := getEnv("ALPHA_VANTAGE_BASE_URL", ""); v != "" {
		cfg.AlphaVantageBaseURL = v
	}
	if v := getEnv("ANTHROPIC_API_KEY", ""); v != "" {
		cfg.AnthropicAPIKey = v
	}
	if v := getEnv("ANTHROPIC_BASE_URL", ""); v != "" {
		cfg.AnthropicBaseURL = v
	}
	if v := getEnv("FINSIGHT_MODEL", ""); v != "" {
		cfg.Model = v
	}
	if v := getEnv("FINSIGHT_MAX_TOKENS", ""); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.MaxTokens = n
		}
	}
	if v := getEnv("FINSIGHT_MAX_RETRIES", ""); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.MaxRetries = n
		}
	}
	if v := getEnv("FINSIGHT_BASE_DELAY_SECONDS", ""); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.BaseDelaySeconds = f
		}
	}
	if v := getEnv("FINSIGHT_MAX_TOOL_ROUNDS", ""); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.MaxToolRounds = n
		}
	}
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return fallback
}
