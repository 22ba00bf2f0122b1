package config

import (
	"log/slog"
	"time"

	"github.com/caarlos0/env/v10"
)

// Config holds runtime configuration read from the environment.
type Config struct {
	// Server
	Port      int    `env:"PORT" envDefault:"8080"`
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"` // "json" or "text"

	// LLM & Embeddings
	LLMProvider    string  `env:"LLM_PROVIDER" envDefault:"openai"`
	OpenAIKey      string  `env:"OPENAI_API_KEY"`
	OpenAIBaseURL  string  `env:"OPENAI_BASE_URL"`
	LLMModel       string  `env:"LLM_MODEL" envDefault:"gpt-4o-mini"`
	LLMTemperature float64 `env:"LLM_TEMPERATURE" envDefault:"0"`
	EmbeddingModel string  `env:"EMBEDDING_MODEL" envDefault:"text-embedding-3-small"`

	// Upper bound for every call to an external collaborator.
	ExternalTimeout time.Duration `env:"EXTERNAL_TIMEOUT" envDefault:"30s"`

	// Dispatcher
	ClassifyMaxAttempts int           `env:"CLASSIFY_MAX_ATTEMPTS" envDefault:"3"`
	ClassifyBackoff     time.Duration `env:"CLASSIFY_BACKOFF" envDefault:"200ms"`

	// Weather
	PlaceExtractor    string `env:"PLACE_EXTRACTOR" envDefault:"llm"` // "llm", "prose" (NER) or "hybrid" (prose, then llm)
	GeocoderURL       string `env:"GEOCODER_URL" envDefault:"https://nominatim.openstreetmap.org"`
	GeocoderUserAgent string `env:"GEOCODER_USER_AGENT" envDefault:"weather-agent"`
	ForecastURL       string `env:"FORECAST_URL" envDefault:"https://api.open-meteo.com"`

	// Geocode cache
	CacheProvider    string        `env:"CACHE_PROVIDER" envDefault:"memory"` // "redis", "memory" or "none"
	RedisAddr        string        `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPassword    string        `env:"REDIS_PASSWORD"`
	GeocodeCacheTTL  time.Duration `env:"GEOCODE_CACHE_TTL" envDefault:"24h"`
	GeocodeCacheSize int           `env:"GEOCODE_CACHE_SIZE" envDefault:"1024"`

	// Knowledge
	IndexProvider        string   `env:"INDEX_PROVIDER" envDefault:"postgres"`
	DBURL                string   `env:"DB_URL"`
	KnowledgeTopK        int      `env:"KNOWLEDGE_TOP_K" envDefault:"4"`
	KnowledgeDocumentIDs []string `env:"KNOWLEDGE_DOCUMENT_IDS" envSeparator:","`
}

// Load reads configuration from environment variables with defaults.
func Load() Config {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		slog.Warn("failed to parse env; using defaults where set", "err", err)
	}
	return cfg
}
