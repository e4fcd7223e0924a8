package server

import (
	"context"

	"github.com/pkg/errors"

	"ailetic/config"
	"ailetic/internal/pipeline"
	"ailetic/internal/segmentation"
	"ailetic/internal/telemetry/metric"
	"ailetic/internal/transform"
	"ailetic/pkg/codec"
	"ailetic/pkg/httpclient"
	"ailetic/pkg/logger"
)

const (
	routeImageToImage = "image-to-image"
	routeGrayscale    = "grayscale"
	routeTextToAudio  = "text-to-audio"
)

// newModelProvider returns the segmentation model handle and a stop function
// for any scheduled reloads.
func newModelProvider(ctx context.Context, cfg config.Model, l logger.Interface, m *metric.Metrics) (segmentation.Provider, func(), error) {
	load := func(ctx context.Context) (segmentation.Segmenter, error) {
		r, err := segmentation.LoadRemote(ctx, segmentation.RemoteConfig{
			Endpoint:   cfg.Endpoint,
			HealthPath: cfg.HealthPath,
			Timeout:    cfg.Timeout,
		})
		if err != nil {
			return nil, err
		}
		return r, nil
	}
	hook := segmentation.WithLoadHook(m.ModelLoaded)

	if cfg.ReloadPerRequest {
		l.Info("segmentation model reloads on every request")
		return segmentation.NewPerRequest(load, hook), func() {}, nil
	}

	shared, err := segmentation.NewShared(ctx, load, hook)
	if err != nil {
		return nil, nil, err
	}
	if cfg.RefreshSchedule == "" {
		return shared, func() {}, nil
	}

	c, err := shared.Schedule(cfg.RefreshSchedule, l)
	if err != nil {
		return nil, nil, err
	}
	l.Info("segmentation model refresh scheduled: %s", cfg.RefreshSchedule)

	return shared, func() { <-c.Stop().Done() }, nil
}

// newRegistry registers every pipeline the configuration enables and freezes
// the table.
func newRegistry(cfg *config.Config, models segmentation.Provider, decoder codec.AudioDecoder) (*pipeline.Registry, error) {
	registry := pipeline.NewRegistry()
	imageOpts := pipeline.WithImageFormat(cfg.Pipeline.ImageFormat)

	remover := transform.NewBackgroundRemover(models, cfg.Model.InputSize)
	if err := registry.Register(routeImageToImage, remover.Transform, pipeline.ImageToImage, imageOpts); err != nil {
		return nil, errors.Wrap(err, routeImageToImage)
	}

	if err := registry.Register(routeGrayscale, transform.Grayscale, pipeline.ImageToImage, imageOpts); err != nil {
		return nil, errors.Wrap(err, routeGrayscale)
	}

	if cfg.TTS.Endpoint != "" {
		speech := transform.NewSpeech(
			cfg.TTS.Endpoint,
			cfg.TTS.Voice,
			cfg.TTS.Format,
			cfg.Pipeline.SampleRate,
			httpclient.NewHTTPClientWithTimeout(cfg.TTS.Timeout),
			decoder,
		)
		err := registry.Register(routeTextToAudio, speech.Transform, pipeline.TextToAudio,
			pipeline.WithAudio(cfg.Pipeline.SampleRate, cfg.Pipeline.AudioFormat))
		if err != nil {
			return nil, errors.Wrap(err, routeTextToAudio)
		}
	}

	registry.Freeze()
	return registry, nil
}
