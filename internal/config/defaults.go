package config

const (
	DefaultHost     = "0.0.0.0"
	DefaultPort     = 8000
	DefaultLogLevel = "info"

	DefaultServerURL = "http://localhost:8000/sse"

	DefaultAlphaVantageBaseURL = "https://www.alphavantage.co/query"

	DefaultModel     = "claude-3-5-sonnet-20241022"
	DefaultMaxTokens = 1000

	DefaultMaxRetries       = 3
	DefaultBaseDelaySeconds = 1.0

	DefaultConnectTimeout  = 10 // seconds
	DefaultInitTimeout     = 10
	DefaultDiscoverTimeout = 5
	DefaultToolCallTimeout = 30
	DefaultLLMTimeout      = 30

	DefaultMaxToolRounds = 1
)
