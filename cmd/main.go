package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"subtitle-gen-service/internal/app"
	"subtitle-gen-service/internal/config"
	"subtitle-gen-service/internal/events"
	httpapi "subtitle-gen-service/internal/http"
	"subtitle-gen-service/internal/observability"
	"subtitle-gen-service/internal/service/align"
	"subtitle-gen-service/internal/service/separation"
	"subtitle-gen-service/internal/service/stt"
	"subtitle-gen-service/internal/service/stt/fasterwhisper"
	"subtitle-gen-service/internal/service/stt/google"
	"subtitle-gen-service/internal/service/stt/mock"
	"subtitle-gen-service/internal/service/transcription"
)

func main() {
	cfg := config.Load()
	application := app.New(cfg)

	ctx := context.Background()

	recognizer, err := buildRecognizer(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Str("provider", cfg.STT.Provider).Msg("failed to build recognizer")
	}

	separator := separation.New(separation.Config{
		Binary:    cfg.Separation.Binary,
		Model:     cfg.Separation.Model,
		ModelsDir: cfg.Separation.ModelsDir,
		TempDir:   cfg.Separation.TempDir,
		MaxAge:    cfg.Separation.MaxAge,
	})
	application.SetSeparator(separator)

	aligner := align.NewWhisperX(align.WhisperXConfig{
		Language: cfg.STT.Language,
		Device:   cfg.STT.Device,
		Python:   cfg.STT.Python,
	})

	// Kafka publisher with separate topics for completed and failed requests
	publisher := events.New(&events.Config{
		Enabled:        cfg.Kafka.Enabled,
		Brokers:        cfg.Kafka.Brokers,
		TopicCompleted: cfg.Kafka.TopicCompleted,
		TopicFailed:    cfg.Kafka.TopicFailed,
		Principal:      cfg.Service.Principal,
	})
	defer publisher.Close()

	pipeline := transcription.New(recognizer, aligner, separator, publisher)

	handler := httpapi.NewHandler(pipeline, separator, httpapi.Config{
		UploadDir:                cfg.Service.UploadDir,
		MaxUploadBytes:           cfg.Service.MaxUploadBytes,
		SeparationDefaultEnabled: cfg.Separation.DefaultEnabled,
	})

	if err := application.Start(); err != nil {
		log.Fatal().Err(err).Msg("application startup failed")
	}

	obsServer := observability.NewServer(":"+cfg.Observability.MetricsPort, func() bool { return true })
	obsServer.Start()

	server := &http.Server{
		Addr:        ":" + cfg.Service.HTTPPort,
		Handler:     httpapi.NewRouter(handler),
		ReadTimeout: 5 * time.Minute,
		IdleTimeout: 120 * time.Second,
	}

	go func() {
		log.Info().
			Str("port", cfg.Service.HTTPPort).
			Str("provider", recognizer.Name()).
			Msg("subtitle generation service started")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("http serve failed")
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown failed")
	}
	if err := obsServer.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("observability shutdown failed")
	}
	application.Shutdown()
}

// buildRecognizer selects the speech recognition backend by configuration.
func buildRecognizer(ctx context.Context, cfg *config.Configuration) (stt.Recognizer, error) {
	switch cfg.STT.Provider {
	case "google":
		return google.New(ctx, google.Config{
			LanguageCode:    cfg.STT.LanguageCode,
			SampleRateHz:    cfg.STT.SampleRateHz,
			AudioEncoding:   cfg.STT.AudioEncoding,
			CredentialsFile: cfg.STT.CredentialsFile,
		})
	case "mock":
		return mock.New(), nil
	default:
		return fasterwhisper.New(fasterwhisper.Config{
			Model:           cfg.STT.Model,
			Device:          cfg.STT.Device,
			BeamSize:        cfg.STT.BeamSize,
			Language:        cfg.STT.Language,
			InitialPrompt:   cfg.STT.InitialPrompt,
			VADMinSilenceMS: cfg.STT.VADMinSilenceMS,
			Python:          cfg.STT.Python,
		}), nil
	}
}
