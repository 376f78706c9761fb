package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"
)

const (
	ProviderOpenAI = "openai"
	ProviderGoogle = "google"
	ProviderVertex = "vertex"
)

type Config struct {
	Port          string
	AllowedOrigin string
	PersonaFile   string

	OpenAIAPIKey string
	SerpAPIKey   string

	TranscribeModel string
	GenerationModel string
	TTSModel        string
	TTSVoice        string
	RealtimeModel   string
	RealtimeVoice   string

	TranscribeTimeout   time.Duration
	GenerationTimeout   time.Duration
	SearchTimeout       time.Duration
	SynthesisTimeout    time.Duration
	UpstreamDialTimeout time.Duration

	STTProvider           string
	LLMProvider           string
	GCPProjectID          string
	GCPLocation           string
	GoogleCredentialsFile string

	RedisAddr      string
	SearchCacheTTL time.Duration
}

// Load reads the process environment. Missing credentials and malformed
// durations are reported together so a bad deploy fails once, loudly.
func Load() (*Config, error) {
	var errs []error

	cfg := &Config{
		Port:          env("PORT", "3000"),
		AllowedOrigin: env("ALLOWED_ORIGIN", "http://localhost:5173"),
		PersonaFile:   env("PERSONA_FILE", ""),

		OpenAIAPIKey: env("OPENAI_API_KEY", ""),
		SerpAPIKey:   env("SERPAPI_API_KEY", ""),

		TranscribeModel: env("TRANSCRIBE_MODEL", "whisper-1"),
		GenerationModel: env("GENERATION_MODEL", ""),
		TTSModel:        env("TTS_MODEL", "tts-1"),
		TTSVoice:        env("TTS_VOICE", "onyx"),
		RealtimeModel:   env("REALTIME_MODEL", "gpt-4o-realtime-preview"),
		RealtimeVoice:   env("REALTIME_VOICE", "alloy"),

		STTProvider:           strings.ToLower(env("STT_PROVIDER", ProviderOpenAI)),
		LLMProvider:           strings.ToLower(env("LLM_PROVIDER", ProviderOpenAI)),
		GCPProjectID:          env("GCP_PROJECT_ID", ""),
		GCPLocation:           env("GCP_LOCATION", "europe-west1"),
		GoogleCredentialsFile: env("GOOGLE_CREDENTIALS_FILE", ""),

		RedisAddr: RedisAddr(),
	}

	cfg.TranscribeTimeout = duration("TRANSCRIBE_TIMEOUT", 30*time.Second, &errs)
	cfg.GenerationTimeout = duration("GENERATION_TIMEOUT", 30*time.Second, &errs)
	cfg.SearchTimeout = duration("SEARCH_TIMEOUT", 8*time.Second, &errs)
	cfg.SynthesisTimeout = duration("SYNTHESIS_TIMEOUT", 30*time.Second, &errs)
	cfg.UpstreamDialTimeout = duration("UPSTREAM_DIAL_TIMEOUT", 10*time.Second, &errs)
	cfg.SearchCacheTTL = duration("SEARCH_CACHE_TTL", 6*time.Hour, &errs)

	if cfg.OpenAIAPIKey == "" {
		errs = append(errs, errors.New("OPENAI_API_KEY environment variable is not set"))
	}
	if cfg.SerpAPIKey == "" {
		errs = append(errs, errors.New("SERPAPI_API_KEY environment variable is not set"))
	}

	switch cfg.STTProvider {
	case ProviderOpenAI, ProviderGoogle:
	default:
		errs = append(errs, fmt.Errorf("STT_PROVIDER %q is not one of openai, google", cfg.STTProvider))
	}
	switch cfg.LLMProvider {
	case ProviderOpenAI:
		if cfg.GenerationModel == "" {
			cfg.GenerationModel = "gpt-4.1-mini"
		}
	case ProviderVertex:
		if cfg.GenerationModel == "" {
			cfg.GenerationModel = "gemini-1.5-flash"
		}
		if cfg.GCPProjectID == "" {
			errs = append(errs, errors.New("GCP_PROJECT_ID is required when LLM_PROVIDER=vertex"))
		}
	default:
		errs = append(errs, fmt.Errorf("LLM_PROVIDER %q is not one of openai, vertex", cfg.LLMProvider))
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return cfg, nil
}

func env(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func duration(key string, def time.Duration, errs *[]error) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		*errs = append(*errs, fmt.Errorf("%s must be a positive duration like 30s, got %q", key, v))
		return def
	}
	return d
}
