package pipeline

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"sync"

	"ailetic/entity"
	"ailetic/pkg/codec"
	"ailetic/pkg/ndarray"
)

// Payload is the pre-processed transform input. Array is set for image
// pipelines, Text for audio pipelines.
type Payload struct {
	Array *ndarray.Array
	Text  string
}

// Output is what a transform hands to post-processing. SampleRate, when
// positive, overrides the route's audio sample rate.
type Output struct {
	Array      *ndarray.Array
	SampleRate int
}

// Transform is the opaque user computation run between pre and post processing.
type Transform func(ctx context.Context, in Payload) (Output, error)

var ErrRegistryFrozen = errors.New("pipeline registry is frozen")

type Route struct {
	Path        string
	Transform   Transform
	Kind        Kind
	Methods     []string
	ImageFormat string
	SampleRate  int
	AudioFormat string
}

type RouteOption func(*Route)

func WithMethods(methods ...string) RouteOption {
	return func(r *Route) {
		r.Methods = methods
	}
}

func WithImageFormat(format string) RouteOption {
	return func(r *Route) {
		r.ImageFormat = format
	}
}

func WithAudio(sampleRate int, format string) RouteOption {
	return func(r *Route) {
		if sampleRate > 0 {
			r.SampleRate = sampleRate
		}
		if format != "" {
			r.AudioFormat = format
		}
	}
}

// Registry maps route paths to pipelines. It is written during startup and
// read-only once frozen.
type Registry struct {
	mu     sync.RWMutex
	routes map[string]Route
	frozen bool
}

func NewRegistry() *Registry {
	return &Registry{routes: make(map[string]Route)}
}

// NormalizePath trims surrounding slashes so "/grayscale/" and "grayscale" name the same route.
func NormalizePath(path string) string {
	return strings.Trim(path, "/")
}

// Register stores a route. A second registration of the same path replaces the first.
func (r *Registry) Register(path string, fn Transform, kind Kind, opts ...RouteOption) error {
	if !kind.Valid() {
		return fmt.Errorf("%w: %s", entity.ErrUnsupportedPipeline, kind)
	}
	if fn == nil {
		return fmt.Errorf("pipeline: nil transform for %q", path)
	}
	path = NormalizePath(path)
	if path == "" {
		return fmt.Errorf("pipeline: empty route path")
	}

	route := Route{
		Path:        path,
		Transform:   fn,
		Kind:        kind,
		Methods:     []string{http.MethodPost},
		ImageFormat: codec.FormatPNG,
		SampleRate:  codec.DefaultSampleRate,
		AudioFormat: "mp3",
	}
	for _, opt := range opts {
		opt(&route)
	}

	format, err := codec.ParseImageFormat(route.ImageFormat)
	if err != nil {
		return fmt.Errorf("pipeline: route %q: %w", path, err)
	}
	route.ImageFormat = format

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.frozen {
		return ErrRegistryFrozen
	}
	r.routes[path] = route

	return nil
}

func (r *Registry) Lookup(path string) (Route, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	route, ok := r.routes[NormalizePath(path)]
	return route, ok
}

// Routes returns every route sorted by path.
func (r *Registry) Routes() []Route {
	r.mu.RLock()
	defer r.mu.RUnlock()

	routes := make([]Route, 0, len(r.routes))
	for _, route := range r.routes {
		routes = append(routes, route)
	}
	sort.Slice(routes, func(i, j int) bool { return routes[i].Path < routes[j].Path })

	return routes
}

// Freeze makes the registry read-only.
func (r *Registry) Freeze() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.frozen = true
}
