package pipeline

import (
	"bytes"
	"context"
	"encoding/base64"

	"github.com/pkg/errors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"ailetic/entity"
	"ailetic/pkg/codec"
)

const traceName = "pipeline"

// Dispatcher runs pre-process, transform and post-process for one request.
type Dispatcher struct {
	audio codec.AudioEncoder
}

func NewDispatcher(audio codec.AudioEncoder) *Dispatcher {
	return &Dispatcher{audio: audio}
}

// Dispatch runs route over in. The first failing step aborts the request.
func (d *Dispatcher) Dispatch(ctx context.Context, route Route, in entity.Input) (*entity.ComputeResult, error) {
	ctx, span := otel.Tracer(traceName).Start(ctx, "Dispatch")
	defer span.End()

	span.SetAttributes(attribute.String("route", route.Path))
	span.SetAttributes(attribute.String("kind", route.Kind.String()))

	if in.Empty() {
		return nil, entity.ErrMissingInput
	}

	payload, err := d.preprocess(ctx, route, in)
	if err != nil {
		return nil, err
	}

	span.AddEvent("transform")
	out, err := route.Transform(ctx, payload)
	if err != nil {
		return nil, errors.Wrapf(err, "transform %s", route.Path)
	}

	return d.postprocess(ctx, route, out)
}

func (d *Dispatcher) preprocess(_ context.Context, route Route, in entity.Input) (Payload, error) {
	switch route.Kind {
	case ImageToImage:
		raw := in.File
		if len(raw) == 0 {
			raw = []byte(in.Text)
		}
		arr, _, err := codec.DecodeImage(bytes.NewReader(raw))
		if err != nil {
			return Payload{}, err
		}
		return Payload{Array: arr}, nil
	case TextToAudio:
		text := in.Text
		if text == "" {
			text = string(in.File)
		}
		return Payload{Text: text}, nil
	default:
		return Payload{}, errors.Wrapf(entity.ErrUnsupportedPipeline, "preprocess %s", route.Kind)
	}
}

func (d *Dispatcher) postprocess(_ context.Context, route Route, out Output) (*entity.ComputeResult, error) {
	if out.Array == nil {
		return nil, errors.Errorf("transform %s returned no array", route.Path)
	}

	var (
		body        []byte
		contentType string
		err         error
	)

	switch route.Kind {
	case ImageToImage:
		body, err = codec.EncodeImage(out.Array, route.ImageFormat)
		contentType = codec.ImageContentType(route.ImageFormat)
	case TextToAudio:
		if d.audio == nil {
			return nil, errors.New("no audio encoder configured")
		}
		rate := route.SampleRate
		if out.SampleRate > 0 {
			rate = out.SampleRate
		}
		body, err = codec.EncodeAudio(d.audio, out.Array, rate, route.AudioFormat)
		contentType = codec.AudioContentType(route.AudioFormat)
	default:
		return nil, errors.Wrapf(entity.ErrUnsupportedPipeline, "postprocess %s", route.Kind)
	}
	if err != nil {
		return nil, err
	}

	return &entity.ComputeResult{
		Body:        body,
		ContentType: contentType,
		Encoded:     base64.StdEncoding.EncodeToString(body),
	}, nil
}
