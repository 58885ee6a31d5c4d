package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"decorstudio/internal/config"
	"decorstudio/internal/events"
	"decorstudio/internal/llm"
	"decorstudio/internal/logging"
	"decorstudio/internal/media"
	"decorstudio/internal/pipeline"
	"decorstudio/internal/server"
	"decorstudio/internal/session"
	"decorstudio/internal/studio"
)

const shutdownTimeout = 10 * time.Second

func main() {
	configPath := flag.String("config", "", "optional config file (yaml or json)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		zerolog.New(os.Stderr).Fatal().Err(err).Msg("failed to load config")
	}
	logger := logging.New(cfg.App.Env, cfg.Log.Level)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	mediaStore, err := newMediaStore(cfg.Media)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to init media storage")
	}

	client, err := newClient(ctx, cfg.Provider, mediaStore, logger)
	if err != nil {
		logger.Fatal().Err(err).Str("provider", cfg.Provider.Name).Msg("failed to init provider client")
	}
	if cfg.Provider.APIKey == "" {
		logger.Warn().Str("provider", cfg.Provider.Name).Msg("no API key configured, provider calls will fail authentication")
	}

	store := session.NewStore()
	broker := events.NewBroker()
	orchestrator := pipeline.New(client, store, pipeline.Options{
		Timeout: cfg.Provider.Timeout,
		Logger:  logger,
		Events:  broker,
		Media:   mediaStore,
	})

	studioHandler := studio.Handler{
		Store:          store,
		Workflows:      orchestrator,
		Media:          mediaStore,
		Events:         broker,
		MaxUploadBytes: cfg.Media.MaxUploadBytes,
		Logger:         logger.With().Str("component", "studio").Logger(),
	}

	var staticFS http.Handler
	if info, err := os.Stat(cfg.App.WebDir); err == nil && info.IsDir() {
		staticFS = http.FileServer(http.Dir(cfg.App.WebDir))
	} else {
		logger.Warn().Str("dir", cfg.App.WebDir).Msg("web directory missing, serving API only")
	}
	srv := server.New(cfg.App.Port, logger, studioHandler, staticFS)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info().Msg("shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("server shutdown error")
		}

		runsCtx, cancelRuns := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancelRuns()
		if err := orchestrator.Shutdown(runsCtx); err != nil {
			logger.Error().Err(err).Msg("workflow runs did not settle")
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Fatal().Err(err).Msg("server failed")
	}
}

func newMediaStore(cfg config.MediaConfig) (media.Store, error) {
	if cfg.Dir != "" {
		local, err := media.NewLocalUploader(cfg.Dir, "/media/")
		if err != nil {
			return nil, err
		}
		return local, nil
	}
	mem, err := media.NewMemoryStore(cfg.MaxItems, cfg.MaxUploadBytes, "/media/")
	if err != nil {
		return nil, err
	}
	return mem, nil
}

func newClient(ctx context.Context, cfg config.ProviderConfig, store media.Uploader, logger zerolog.Logger) (llm.Client, error) {
	var client llm.Client
	switch cfg.Name {
	case config.ProviderGemini:
		gemini, err := llm.NewGeminiClient(ctx, llm.GeminiConfig{
			APIKey:       cfg.APIKey,
			BaseURL:      cfg.BaseURL,
			TextModel:    cfg.ChatModel,
			VisionModel:  cfg.VisionModel,
			ImageModel:   cfg.ImageModel,
			HDImageModel: cfg.HDImageModel,
			Timeout:      cfg.Timeout,
		}, store)
		if err != nil {
			return nil, err
		}
		client = gemini
	default:
		client = llm.NewOpenAIClient(llm.OpenAIConfig{
			APIKey:      cfg.APIKey,
			BaseURL:     cfg.BaseURL,
			ChatModel:   cfg.ChatModel,
			VisionModel: cfg.VisionModel,
			ImageModel:  cfg.ImageModel,
			ImageSize:   cfg.ImageSize,
			Timeout:     cfg.Timeout,
		})
	}
	logger.Info().Str("provider", cfg.Name).Str("chat_model", cfg.ChatModel).Str("image_model", cfg.ImageModel).Msg("provider client ready")
	return llm.Instrument(client, cfg.Name, logger), nil
}
