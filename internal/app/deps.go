package app

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/openai/openai-go/v3"

	"agent-router/internal/availability"
	"agent-router/internal/cache"
	"agent-router/internal/config"
	"agent-router/internal/conversation"
	"agent-router/internal/dispatch"
	"agent-router/internal/embeddings"
	"agent-router/internal/forecast"
	"agent-router/internal/geocode"
	"agent-router/internal/index"
	"agent-router/internal/knowledge"
	"agent-router/internal/llm"
	"agent-router/internal/logger"
	"agent-router/internal/places"
	"agent-router/internal/retry"
	"agent-router/internal/weather"
)

// Deps bundles the runtime dependencies of the router service.
type Deps struct {
	Config     config.Config
	Log        *slog.Logger
	Dispatcher *dispatch.Dispatcher
	History    *conversation.History
	// Components holds the startup status of each subsystem, keyed by name.
	Components map[string]availability.Status

	closers []io.Closer
}

// Build loads env and config and wires every component. A component that
// fails to initialize does not fail Build: it is recorded as unavailable
// and the responders answer with their fixed unavailable replies.
func Build() (Deps, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Deps{}, fmt.Errorf("failed to load environment variables: %w", err)
	}
	cfg := config.Load()
	log := logger.NewWithFormat(os.Stdout, cfg.LogLevel, cfg.LogFormat)
	return BuildWith(cfg, log), nil
}

// BuildWith wires components from an already loaded config.
func BuildWith(cfg config.Config, log *slog.Logger) Deps {
	d := Deps{
		Config:     cfg,
		Log:        log,
		History:    conversation.NewHistory(),
		Components: make(map[string]availability.Status),
	}

	llmClient, err := buildLLM(cfg, log)
	modelStatus := availability.FromError(err)
	d.Components["model"] = modelStatus

	retriever, closer, err := buildRetriever(cfg, log)
	indexStatus := availability.FromError(err)
	d.Components["index"] = indexStatus
	if closer != nil {
		d.closers = append(d.closers, closer)
	}

	geoCache := buildCache(cfg, log)
	d.closers = append(d.closers, geoCache)

	extractor, geocoder, err := buildWeather(cfg, log, llmClient, geoCache)
	weatherStatus := availability.FromError(err)
	d.Components["weather"] = weatherStatus

	// The weather gate covers extraction and geocoding only. A broken
	// forecast client surfaces per request as a retrieval failure.
	fc, forecastStatus := buildForecast(cfg, log)
	d.Components["forecast"] = forecastStatus

	for name, s := range d.Components {
		if !s.IsReady() {
			log.Warn("component unavailable", "component", name, "reason", s.Reason())
		}
	}

	weatherResponder := weather.NewResponder(weather.Deps{
		Extractor:    extractor,
		Geocoder:     geocoder,
		Forecast:     fc,
		Status:       weatherStatus,
		StageTimeout: cfg.ExternalTimeout,
		Log:          log,
	})
	knowledgeResponder := knowledge.NewResponder(knowledge.Deps{
		LLM:         llmClient,
		Retriever:   retriever,
		History:     d.History,
		ModelStatus: modelStatus,
		IndexStatus: indexStatus,
		CallTimeout: cfg.ExternalTimeout,
		Log:         log,
	})
	d.Dispatcher = dispatch.New(dispatch.Deps{
		LLM:         llmClient,
		ModelStatus: modelStatus,
		Weather:     weatherResponder,
		Knowledge:   knowledgeResponder,
		Retry:       retry.Policy{MaxAttempts: cfg.ClassifyMaxAttempts, Base: cfg.ClassifyBackoff},
		CallTimeout: cfg.ExternalTimeout,
		Log:         log,
	})
	return d
}

// Close releases the cache and index connections.
func (d Deps) Close() error {
	var errs []error
	for _, c := range d.closers {
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func buildLLM(cfg config.Config, log *slog.Logger) (llm.Client, error) {
	switch cfg.LLMProvider {
	case "openai":
		if cfg.OpenAIKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY is required when LLM_PROVIDER=openai")
		}
		client, err := llm.NewOpenAIClient(llm.Options{
			APIKey:      cfg.OpenAIKey,
			Model:       openai.ChatModel(cfg.LLMModel),
			BaseURL:     cfg.OpenAIBaseURL,
			Temperature: cfg.LLMTemperature,
			Timeout:     cfg.ExternalTimeout,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to initialize OpenAI client: %w", err)
		}
		log.Info("using OpenAI LLM client", "model", cfg.LLMModel)
		return client, nil
	default:
		return nil, fmt.Errorf("invalid LLM_PROVIDER: %s (valid option: openai)", cfg.LLMProvider)
	}
}

func buildEmbedder(cfg config.Config, log *slog.Logger) (embeddings.Embedder, error) {
	switch cfg.LLMProvider {
	case "openai":
		if cfg.OpenAIKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY is required when LLM_PROVIDER=openai")
		}
		embedder, err := embeddings.NewOpenAIEmbedder(cfg.OpenAIKey, cfg.OpenAIBaseURL, openai.EmbeddingModel(cfg.EmbeddingModel), cfg.ExternalTimeout)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize OpenAI embedder: %w", err)
		}
		log.Info("using OpenAI embedder", "model", cfg.EmbeddingModel)
		return embedder, nil
	default:
		return nil, fmt.Errorf("invalid LLM_PROVIDER: %s (valid option: openai)", cfg.LLMProvider)
	}
}

// buildRetriever needs both the embedder and the index; the knowledge base
// is unavailable when either is missing.
func buildRetriever(cfg config.Config, log *slog.Logger) (knowledge.Retriever, io.Closer, error) {
	embedder, err := buildEmbedder(cfg, log)
	if err != nil {
		return nil, nil, err
	}
	switch cfg.IndexProvider {
	case "postgres":
		if cfg.DBURL == "" {
			return nil, nil, fmt.Errorf("DB_URL is required when INDEX_PROVIDER=postgres")
		}
		ids, err := parseDocumentIDs(cfg.KnowledgeDocumentIDs)
		if err != nil {
			return nil, nil, err
		}
		idx, err := index.NewPostgres(cfg.DBURL, ids)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to initialize Postgres index: %w", err)
		}
		log.Info("using Postgres index", "documents", len(ids))
		return knowledge.NewVectorRetriever(embedder, idx, cfg.KnowledgeTopK), idx, nil
	default:
		return nil, nil, fmt.Errorf("invalid INDEX_PROVIDER: %s (valid option: postgres)", cfg.IndexProvider)
	}
}

func parseDocumentIDs(raw []string) ([]uuid.UUID, error) {
	ids := make([]uuid.UUID, 0, len(raw))
	for _, s := range raw {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		id, err := uuid.Parse(s)
		if err != nil {
			return nil, fmt.Errorf("invalid KNOWLEDGE_DOCUMENT_IDS entry %q: %w", s, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// buildCache never fails: an unreachable Redis falls back to the in-memory
// cache.
func buildCache(cfg config.Config, log *slog.Logger) cache.Cache {
	switch cfg.CacheProvider {
	case "redis":
		c, err := cache.NewRedisCache(cfg.RedisAddr, cfg.RedisPassword, cfg.GeocodeCacheTTL)
		if err == nil {
			log.Info("using Redis geocode cache", "addr", cfg.RedisAddr)
			return c
		}
		log.Warn("redis unavailable, falling back to in-memory geocode cache", "err", err)
		return cache.NewMemoryCache(cfg.GeocodeCacheSize, cfg.GeocodeCacheTTL)
	case "none":
		log.Info("geocode cache disabled")
		return cache.NewNoOpCache()
	default:
		log.Info("using in-memory geocode cache", "size", cfg.GeocodeCacheSize)
		return cache.NewMemoryCache(cfg.GeocodeCacheSize, cfg.GeocodeCacheTTL)
	}
}

func buildExtractor(cfg config.Config, log *slog.Logger, client llm.Client) (places.Extractor, error) {
	switch cfg.PlaceExtractor {
	case "prose":
		ex, err := places.NewProseExtractor()
		if err != nil {
			return nil, err
		}
		log.Info("using prose place extractor")
		return ex, nil
	case "llm":
		ex, err := places.NewLLMExtractor(client)
		if err != nil {
			return nil, err
		}
		log.Info("using LLM place extractor")
		return ex, nil
	case "hybrid":
		primary, err := places.NewProseExtractor()
		if err != nil {
			return nil, err
		}
		secondary, err := places.NewLLMExtractor(client)
		if err != nil {
			return nil, err
		}
		log.Info("using prose place extractor with LLM fallback")
		return places.NewFallbackExtractor(primary, secondary, log), nil
	default:
		return nil, fmt.Errorf("invalid PLACE_EXTRACTOR: %s (valid options: llm, prose, hybrid)", cfg.PlaceExtractor)
	}
}

func buildWeather(cfg config.Config, log *slog.Logger, client llm.Client, c cache.Cache) (places.Extractor, geocode.Geocoder, error) {
	extractor, err := buildExtractor(cfg, log, client)
	if err != nil {
		return nil, nil, fmt.Errorf("place extractor: %w", err)
	}
	nominatim, err := geocode.NewNominatim(cfg.GeocoderURL, cfg.GeocoderUserAgent, cfg.ExternalTimeout)
	if err != nil {
		return nil, nil, fmt.Errorf("geocoder: %w", err)
	}
	return extractor, geocode.NewCached(nominatim, c, cfg.ExternalTimeout, log), nil
}

func buildForecast(cfg config.Config, log *slog.Logger) (forecast.Client, availability.Status) {
	fc, err := forecast.NewOpenMeteo(cfg.ForecastURL, cfg.ExternalTimeout)
	if err != nil {
		err = fmt.Errorf("forecast: %w", err)
		return forecast.NewUnavailable(err), availability.FromError(err)
	}
	log.Info("using Open-Meteo forecast", "url", cfg.ForecastURL)
	return fc, availability.Ready()
}
