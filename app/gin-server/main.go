package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/yoockh/halte-concierge/config"
	"github.com/yoockh/halte-concierge/internal/api/handlers"
	"github.com/yoockh/halte-concierge/internal/api/routes"
	"github.com/yoockh/halte-concierge/internal/cache"
	"github.com/yoockh/halte-concierge/internal/logger"
	"github.com/yoockh/halte-concierge/internal/persona"
	"github.com/yoockh/halte-concierge/internal/providers/httpc"
	"github.com/yoockh/halte-concierge/internal/providers/llm"
	"github.com/yoockh/halte-concierge/internal/providers/realtime"
	"github.com/yoockh/halte-concierge/internal/providers/search"
	"github.com/yoockh/halte-concierge/internal/providers/stt"
	"github.com/yoockh/halte-concierge/internal/providers/tts"
	"github.com/yoockh/halte-concierge/internal/services"
)

func main() {
	_ = godotenv.Load()

	lg := logger.New()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	p, err := persona.Load(cfg.PersonaFile)
	if err != nil {
		log.Fatalf("persona error: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client := httpc.NewClient()

	transcriber, err := newTranscriber(ctx, cfg, client)
	if err != nil {
		log.Fatalf("stt init error: %v", err)
	}
	defer transcriber.Close()

	gen, err := newGenerator(ctx, cfg, client)
	if err != nil {
		log.Fatalf("llm init error: %v", err)
	}
	defer gen.Close()

	synth := tts.NewOpenAI(cfg.OpenAIAPIKey, cfg.TTSModel, cfg.TTSVoice, "", client)
	defer synth.Close()

	var finder search.Provider = search.NewSerpAPI(cfg.SerpAPIKey, "", client)
	if cfg.RedisAddr != "" {
		rdb, err := config.InitRedis(ctx, cfg.RedisAddr)
		if err != nil {
			log.Fatalf("Redis init error: %v", err)
		}
		defer rdb.Close()
		finder = search.NewCached(finder, cache.NewRedisCache(rdb, ""), cfg.SearchCacheTTL, lg)
		lg.Info("search cache: redis")
	} else {
		finder = search.NewCached(finder, cache.NewMemoryCache(), cfg.SearchCacheTTL, lg)
		lg.Info("search cache: memory")
	}

	timeouts := services.StageTimeouts{
		Transcribe: cfg.TranscribeTimeout,
		Generate:   cfg.GenerationTimeout,
		Search:     cfg.SearchTimeout,
		Synthesize: cfg.SynthesisTimeout,
	}

	knowledge := services.NewKnowledgeBranch(finder, gen, timeouts, lg)
	talkSvc := services.NewTalkService(p, transcriber, gen, knowledge, synth, timeouts, lg)

	dialer := realtime.NewDialer(cfg.OpenAIAPIKey, cfg.RealtimeModel, "", cfg.UpstreamDialTimeout)
	relaySvc, err := services.NewRelayService(dialer, p, cfg.RealtimeVoice, lg)
	if err != nil {
		log.Fatalf("relay init error: %v", err)
	}

	relayHandler := handlers.NewRelayHandler(relaySvc, 0)
	r := routes.NewRouter(routes.Deps{
		Talk:          handlers.NewTalkHandler(talkSvc, 0, lg),
		Relay:         relayHandler,
		AllowedOrigin: cfg.AllowedOrigin,
		Logger:        lg,
	})

	srv := &http.Server{
		Addr:              "0.0.0.0:" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	shutdownDone := make(chan struct{})
	go func() {
		defer close(shutdownDone)
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			lg.WithError(err).Warn("http shutdown incomplete")
		}
		if err := relayHandler.Shutdown(shutdownCtx); err != nil {
			lg.WithError(err).Warn("relay sessions still open at shutdown")
		}
	}()

	lg.WithFields(logrus.Fields{
		"port":         cfg.Port,
		"stt_provider": cfg.STTProvider,
		"llm_provider": cfg.LLMProvider,
	}).Info("server listening")

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("server error: %v", err)
	}
	<-shutdownDone
	lg.Info("server stopped")
}

func newTranscriber(ctx context.Context, cfg *config.Config, client *http.Client) (stt.Provider, error) {
	if cfg.STTProvider == config.ProviderGoogle {
		return stt.NewGoogleSpeech(ctx, cfg.GoogleClientOptions()...)
	}
	return stt.NewOpenAI(cfg.OpenAIAPIKey, cfg.TranscribeModel, "", client), nil
}

func newGenerator(ctx context.Context, cfg *config.Config, client *http.Client) (llm.Provider, error) {
	if cfg.LLMProvider == config.ProviderVertex {
		return llm.NewVertexGemini(ctx, cfg.GCPProjectID, cfg.GCPLocation, cfg.GenerationModel, cfg.GoogleClientOptions()...)
	}
	return llm.NewOpenAI(cfg.OpenAIAPIKey, cfg.GenerationModel, "", client), nil
}
