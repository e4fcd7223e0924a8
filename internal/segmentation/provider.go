package segmentation

import (
	"context"
	"fmt"
	"sync"

	"github.com/pkg/errors"
	"github.com/robfig/cron/v3"

	"ailetic/pkg/logger"
)

// Loader loads (or reconnects to) the model.
type Loader func(ctx context.Context) (Segmenter, error)

// Provider hands out the model for one request.
type Provider interface {
	Acquire(ctx context.Context) (Segmenter, error)
}

type Option func(*options)

type options struct {
	onLoad func()
}

// WithLoadHook calls fn after every successful load.
func WithLoadHook(fn func()) Option {
	return func(o *options) {
		o.onLoad = fn
	}
}

func buildOptions(opts []Option) options {
	o := options{onLoad: func() {}}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Shared loads the model once and shares it read-only between requests.
type Shared struct {
	mu      sync.RWMutex
	current Segmenter
	load    Loader
	opts    options
}

// NewShared loads the model immediately.
func NewShared(ctx context.Context, load Loader, opts ...Option) (*Shared, error) {
	s := &Shared{load: load, opts: buildOptions(opts)}
	if err := s.Reload(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Shared) Acquire(_ context.Context) (Segmenter, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.current == nil {
		return nil, errors.New("segmentation: model not loaded")
	}
	return s.current, nil
}

// Reload loads a fresh model and swaps it in. On failure the previous model stays.
func (s *Shared) Reload(ctx context.Context) error {
	m, err := s.load(ctx)
	if err != nil {
		return errors.Wrap(err, "load model")
	}
	s.opts.onLoad()

	s.mu.Lock()
	s.current = m
	s.mu.Unlock()

	return nil
}

// Schedule reloads the model on a cron spec. The caller stops the returned cron.
func (s *Shared) Schedule(spec string, l logger.Interface) (*cron.Cron, error) {
	c := cron.New()
	_, err := c.AddFunc(spec, func() {
		if err := s.Reload(context.Background()); err != nil {
			l.Error(fmt.Errorf("segmentation - scheduled reload: %w", err))
			return
		}
		l.Info("segmentation model reloaded")
	})
	if err != nil {
		return nil, errors.Wrapf(err, "parse refresh schedule %q", spec)
	}
	c.Start()

	return c, nil
}

// PerRequest loads the model on every Acquire.
type PerRequest struct {
	load Loader
	opts options
}

func NewPerRequest(load Loader, opts ...Option) *PerRequest {
	return &PerRequest{load: load, opts: buildOptions(opts)}
}

func (p *PerRequest) Acquire(ctx context.Context) (Segmenter, error) {
	m, err := p.load(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "load model")
	}
	p.opts.onLoad()
	return m, nil
}
