package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"voxassist/config"
	"voxassist/internal/application"
	"voxassist/internal/infra/audio"
	"voxassist/internal/infra/deepseek"
	"voxassist/internal/infra/firecrawl"
	"voxassist/internal/infra/gemini"
	"voxassist/internal/infra/homeassistant"
	"voxassist/internal/infra/newsapi"
	"voxassist/internal/infra/openai"
	"voxassist/internal/infra/pushover"
	"voxassist/internal/infra/serpapi"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	query := flag.String("query", "", "answer a single question and exit")
	raw := flag.Bool("raw", false, "with -query, print the raw provider content without condensation")
	diagnose := flag.Bool("diagnose", false, "probe providers and the condenser, then exit")
	flag.Parse()

	// A local .env is optional; real deployments export the variables.
	_ = godotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("loading config", "error", err)
		os.Exit(1)
	}

	logger := setupLogger(cfg.Log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		logger.Info("shutting down")
		cancel()
	}()

	resolver := buildResolver(cfg, logger)

	if *diagnose {
		fmt.Println(resolver.Diagnose(ctx))
		return
	}

	if *query != "" {
		if *raw {
			fmt.Println(resolver.ResolveRaw(ctx, *query).Content)
		} else {
			fmt.Println(resolver.Resolve(ctx, *query))
		}
		return
	}

	audioSource := createAudioSource(cfg.Audio, logger)

	var stt application.SpeechToText
	if cfg.OpenAI.APIKey != "" {
		stt = openai.NewWhisperClient(cfg.OpenAI.APIKey, cfg.OpenAI.Language)
	} else {
		stt = &application.NoopSTT{}
	}

	announcers := application.MultiAnnouncer{&application.ConsoleAnnouncer{Out: os.Stdout}}
	if cfg.Pushover.Enabled {
		announcers = append(announcers, pushover.NewClient(cfg.Pushover.Token, cfg.Pushover.UserKey))
	}
	if cfg.HomeAssistant.Enabled {
		announcers = append(announcers, homeassistant.NewClient(
			cfg.HomeAssistant.BaseURL,
			cfg.HomeAssistant.Token,
			cfg.HomeAssistant.TTSService,
			cfg.HomeAssistant.MediaPlayer,
		))
	}

	assistant := application.NewAssistant(
		audioSource,
		stt,
		resolver,
		announcers,
		logger,
	)

	logger.Info("starting voice assistant",
		"audio_source", cfg.Audio.Source,
		"primary", cfg.Primary.Provider,
		"fallback", cfg.Fallback.Provider,
		"routing", cfg.Resolver.Routing,
	)

	if err := assistant.Run(ctx); err != nil && err != context.Canceled {
		logger.Error("assistant error", "error", err)
		os.Exit(1)
	}
}

func buildResolver(cfg *config.Config, logger *slog.Logger) *application.Resolver {
	primary, condenser := createPrimary(cfg, logger)

	return application.NewResolver(
		primary,
		createFallback(cfg.Fallback, logger),
		condenser,
		application.ResolverConfig{
			Routing:  application.Routing(cfg.Resolver.Routing),
			MinWords: cfg.Resolver.SummaryMinWords,
			MaxWords: cfg.Resolver.SummaryMaxWords,
		},
		logger,
	)
}

func createPrimary(cfg *config.Config, logger *slog.Logger) (application.AnswerProvider, *application.SummarizerHandle) {
	switch cfg.Primary.Provider {
	case "gemini":
		client := gemini.NewClient(cfg.Gemini.APIKey, cfg.Gemini.Model)
		return client, application.NewSummarizerHandle(func(_ context.Context) (application.Summarizer, error) {
			return gemini.NewSummarizer(client)
		})
	case "deepseek":
	default:
		logger.Warn("unknown primary provider, using deepseek", "provider", cfg.Primary.Provider)
	}

	client := deepseek.NewClient(cfg.DeepSeek.APIKey, cfg.DeepSeek.Model)
	return client, application.NewSummarizerHandle(func(_ context.Context) (application.Summarizer, error) {
		return deepseek.NewSummarizer(client)
	})
}

func createFallback(cfg config.FallbackConfig, logger *slog.Logger) application.AnswerProvider {
	switch cfg.Provider {
	case "newsapi":
		return newsapi.NewClient(cfg.NewsAPI.APIKey)
	case "serpapi":
		return serpapi.NewClient(cfg.SerpAPI.APIKey)
	case "firecrawl":
		return firecrawl.NewClient(cfg.Firecrawl.APIKey)
	default:
		logger.Warn("unknown fallback provider, using firecrawl", "provider", cfg.Provider)
		return firecrawl.NewClient(cfg.Firecrawl.APIKey)
	}
}

func createAudioSource(cfg config.AudioConfig, logger *slog.Logger) application.AudioSource {
	switch cfg.Source {
	case "http":
		return audio.NewHTTPSource(cfg.HTTPAddr, cfg.AuthToken, logger)
	case "file":
		return audio.NewFileSource(cfg.FileDir)
	case "microphone":
		return audio.NewMicrophoneSource(cfg.WakeWord, cfg.SampleRate, logger)
	default:
		logger.Warn("unknown audio source, using http", "source", cfg.Source)
		return audio.NewHTTPSource(cfg.HTTPAddr, cfg.AuthToken, logger)
	}
}

func setupLogger(cfg config.LogConfig) *slog.Logger {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	return slog.New(handler)
}
