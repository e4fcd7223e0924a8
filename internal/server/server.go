package server

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/cors"
	"github.com/rs/zerolog/log"

	"ailetic/config"
	"ailetic/entity"
	"ailetic/internal/compute"
	v1 "ailetic/internal/controller/http/v1"
	"ailetic/internal/pipeline"
	"ailetic/internal/telemetry/metric"
	"ailetic/pkg/audio_converter"
	"ailetic/pkg/httpserver"
	"ailetic/pkg/logger"

	ttrace "ailetic/internal/telemetry/trace"
)

var name = "ailetic"

// NewServer ...
func NewServer(cfg *config.Config) *Server {
	srv := &Server{}

	srv.InitGlobalProvider(name, cfg)

	return srv
}

type Server struct {
	traceProviderCloseFn []ttrace.CloseFunc
}

// Run ...
func (s *Server) Run(ctx context.Context, cfg *config.Config) error {
	l := logger.New(cfg.Log.Level)
	l.Info("Starting server...")

	metrics := metric.New()

	models, stopModels, err := newModelProvider(ctx, cfg.Model, l, metrics)
	if err != nil {
		return fmt.Errorf("app - Run - segmentation model: %w", err)
	}
	defer stopModels()

	var converter entity.AudioConverter = audio_converter.NewAudioConverter()
	if !audio_converter.Available() {
		l.Warn("ffmpeg not found on PATH, audio routes will fail")
	}

	registry, err := newRegistry(cfg, models, converter)
	if err != nil {
		return fmt.Errorf("app - Run - pipeline registry: %w", err)
	}

	rec, err := newRecorders(ctx, cfg, l)
	if err != nil {
		return fmt.Errorf("app - Run - recorders: %w", err)
	}
	defer rec.close(l)

	opts := []compute.Option{compute.WithMetrics(metrics)}
	if len(rec.chain) > 0 {
		opts = append(opts, compute.WithRecorder(rec.chain))
	}
	computeUsecase := compute.NewComputeUsecase(registry, pipeline.NewDispatcher(converter), l, opts...)

	if cfg.Log.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	handler := gin.New()
	v1.NewRouter(handler, l, computeUsecase, metrics, cfg.Server.BasePath)
	httpServer := httpserver.New(s.cors().Handler(handler), httpserver.Port(cfg.Server.Port))

	l.Info("server serving on port %s", cfg.Server.Port)

	// Waiting signal
	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)

	select {
	case s := <-interrupt:
		l.Info("app - Run - signal: " + s.String())
	case err = <-httpServer.Notify():
		l.Error(fmt.Errorf("app - Run - httpServer.Notify: %w", err))
	case <-ctx.Done():
		l.Info("app - Run - context done")
	}

	// Shutdown
	if shutdownErr := httpServer.Shutdown(); shutdownErr != nil {
		l.Error(fmt.Errorf("app - Run - httpServer.Shutdown: %w", shutdownErr))
	}
	computeUsecase.Wait()

	log.Printf("server stopped")

	ctxShutDown, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	for _, closeFn := range s.traceProviderCloseFn {
		if closeErr := closeFn(ctxShutDown); closeErr != nil {
			log.Error().Err(closeErr).Msgf("Unable to close trace provider")
		}
	}

	log.Printf("server exited properly")

	return err
}

func (s *Server) cors() *cors.Cors {
	return cors.New(cors.Options{
		AllowedOrigins:     []string{"*"},
		AllowedMethods:     []string{"POST", "GET", "PUT", "DELETE", "HEAD", "OPTIONS"},
		AllowedHeaders:     []string{"Accept", "Content-Type", "Content-Length", "Accept-Encoding", "X-CSRF-Token", "Authorization"},
		MaxAge:             60, // 1 minutes
		AllowCredentials:   true,
		OptionsPassthrough: false,
		Debug:              false,
	})
}
