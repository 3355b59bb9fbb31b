package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/MikeSquared-Agency/coachr/internal/anthropic"
	"github.com/MikeSquared-Agency/coachr/internal/api"
	"github.com/MikeSquared-Agency/coachr/internal/azure"
	"github.com/MikeSquared-Agency/coachr/internal/coach"
	"github.com/MikeSquared-Agency/coachr/internal/config"
	"github.com/MikeSquared-Agency/coachr/internal/feedback"
	"github.com/MikeSquared-Agency/coachr/internal/hermes"
	"github.com/MikeSquared-Agency/coachr/internal/llm"
	"github.com/MikeSquared-Agency/coachr/internal/session"
	"github.com/MikeSquared-Agency/coachr/internal/whisper"
)

func main() {
	cfg := config.Load()
	setupLogging(cfg.LogLevel)

	slog.Info("coachr starting", "port", cfg.Port, "llm_provider", cfg.LLMProvider)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	// Chat model
	var model llm.Completer
	switch cfg.LLMProvider {
	case config.ProviderAnthropic:
		model = anthropic.NewClient(cfg.AnthropicAPIKey, cfg.AnthropicModel, cfg.LLMTimeout)
		slog.Info("anthropic client ready", "model", cfg.AnthropicModel)
	default:
		model = azure.NewClient(cfg.AzureAPIKey, cfg.AzureEndpoint, cfg.AzureDeployment, cfg.AzureAPIVersion, cfg.LLMTimeout)
		slog.Info("azure openai client ready", "deployment", cfg.AzureDeployment, "api_version", cfg.AzureAPIVersion)
	}

	// Transcription (optional, audio uploads fail without it)
	var transcriber feedback.Transcriber
	if cfg.OpenAIAPIKey != "" {
		transcriber = whisper.NewClient(cfg.OpenAIAPIKey, cfg.WhisperURL, cfg.WhisperModel, 0)
		slog.Info("whisper client ready", "model", cfg.WhisperModel)
	} else {
		slog.Warn("OPENAI_API_KEY not set, audio feedback disabled")
	}

	// NATS/Hermes (optional)
	var events feedback.Publisher
	if cfg.NatsURL != "" {
		hermesClient, err := hermes.NewClient(ctx, cfg.NatsURL, cfg.NatsToken, slog.Default())
		if err != nil {
			slog.Error("failed to connect to NATS", "error", err)
			os.Exit(1)
		}
		defer hermesClient.Close()
		events = hermesClient
		slog.Info("NATS connected", "url", cfg.NatsURL)
	}

	// Sessions
	var store session.Store
	if cfg.RedisAddr != "" {
		rs, err := session.NewRedisStore(ctx, cfg.RedisAddr, cfg.SessionTTL)
		if err != nil {
			slog.Error("failed to connect to redis", "error", err)
			os.Exit(1)
		}
		defer rs.Close()
		store = rs
		slog.Info("redis session store ready", "addr", cfg.RedisAddr, "ttl", cfg.SessionTTL)
	} else {
		ms := session.NewMemoryStore(cfg.SessionTTL)
		go ms.RunJanitor(ctx, time.Minute)
		store = ms
		slog.Info("in-memory session store ready", "ttl", cfg.SessionTTL)
	}

	fb := feedback.New(model, transcriber, events, slog.Default())
	mgr := coach.NewManager(model, events, slog.Default())

	srv := api.NewServer(api.Options{
		Port:           cfg.Port,
		MaxUploadBytes: cfg.MaxUploadBytes(),
		CORSOrigins:    cfg.CORSOrigins,
		Provider:       cfg.LLMProvider,
		Transcription:  transcriber != nil,
	}, fb, mgr, store, slog.Default())
	go func() {
		if err := srv.Start(); err != nil {
			slog.Error("HTTP server error", "error", err)
			cancel()
		}
	}()

	slog.Info("coachr ready", "port", cfg.Port)

	// Graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-sigCh:
	case <-ctx.Done():
	}
	slog.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Warn("HTTP shutdown incomplete", "error", err)
	}
	cancel()
	slog.Info("coachr stopped")
}

func setupLogging(level string) {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl})
	slog.SetDefault(slog.New(handler))
}
