package compute

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"ailetic/entity"
	"ailetic/internal/pipeline"
	"ailetic/internal/telemetry/metric"
	"ailetic/pkg/logger"
)

const traceName = "compute-usecase"

type ComputeUsecase struct {
	registry   *pipeline.Registry
	dispatcher *pipeline.Dispatcher
	recorder   entity.ComputeRecorder
	metrics    *metric.Metrics
	l          logger.Interface

	pending sync.WaitGroup
}

type Option func(*ComputeUsecase)

// WithRecorder sets where the outcome of every request is written.
func WithRecorder(rec entity.ComputeRecorder) Option {
	return func(c *ComputeUsecase) {
		c.recorder = rec
	}
}

func WithMetrics(m *metric.Metrics) Option {
	return func(c *ComputeUsecase) {
		c.metrics = m
	}
}

func NewComputeUsecase(registry *pipeline.Registry, dispatcher *pipeline.Dispatcher, l logger.Interface, opts ...Option) *ComputeUsecase {
	c := &ComputeUsecase{
		registry:   registry,
		dispatcher: dispatcher,
		l:          l,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *ComputeUsecase) Compute(ctx context.Context, path string, in entity.Input) (*entity.ComputeResult, error) {
	ctx, span := otel.Tracer(traceName).Start(ctx, "Compute")
	defer span.End()

	requestID := uuid.NewString()
	span.SetAttributes(attribute.String("request_id", requestID))
	span.SetAttributes(attribute.String("route", path))

	route, ok := c.registry.Lookup(path)
	if !ok {
		span.SetStatus(codes.Error, entity.ErrRouteNotFound.Error())
		return nil, entity.ErrRouteNotFound
	}
	span.SetAttributes(attribute.String("kind", route.Kind.String()))

	start := time.Now()
	res, err := c.dispatcher.Dispatch(ctx, route, in)
	elapsed := time.Since(start)

	rec := &entity.ComputeRecord{
		RequestID: requestID,
		Route:     route.Path,
		Kind:      route.Kind.String(),
		Status:    entity.StatusSucceeded,
		Duration:  elapsed,
		CreatedAt: start,
	}

	var artifact []byte
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		rec.Status = entity.StatusFailed
		rec.Error = err.Error()
	} else {
		rec.ContentType = res.ContentType
		rec.Size = len(res.Body)
		artifact = res.Body
	}

	c.metrics.ObserveCompute(route.Path, rec.Kind, rec.Status, elapsed)
	c.record(ctx, rec, artifact)

	return res, err
}

// record hands rec to the recorder in the background. The request context is
// detached so recording outlives the HTTP response.
func (c *ComputeUsecase) record(ctx context.Context, rec *entity.ComputeRecord, artifact []byte) {
	if c.recorder == nil {
		return
	}

	ctx = context.WithoutCancel(ctx)
	c.pending.Add(1)
	go func() {
		defer c.pending.Done()
		if err := c.recorder.Record(ctx, rec, artifact); err != nil {
			c.l.Error(fmt.Errorf("compute - record %s: %w", rec.RequestID, err))
		}
	}()
}

// Wait blocks until every in-flight record has been written.
func (c *ComputeUsecase) Wait() {
	c.pending.Wait()
}

func (c *ComputeUsecase) Routes() []entity.RouteInfo {
	routes := c.registry.Routes()
	infos := make([]entity.RouteInfo, 0, len(routes))
	for _, r := range routes {
		infos = append(infos, entity.RouteInfo{
			Path:    r.Path,
			Kind:    r.Kind.String(),
			Methods: r.Methods,
		})
	}
	return infos
}
