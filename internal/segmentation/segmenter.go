// Package segmentation talks to the pretrained background segmentation model
// and owns its load lifecycle.
package segmentation

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/url"
	"time"

	"github.com/pkg/errors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"ailetic/pkg/httpclient"
)

const traceName = "segmentation"

// Segmenter returns a foreground mask for img. Mask pixels greater than zero are foreground.
type Segmenter interface {
	Segment(ctx context.Context, img image.Image) (*image.Gray, error)
}

type RemoteConfig struct {
	Endpoint   string
	HealthPath string
	Timeout    time.Duration
}

// Remote sends images to an inference server as a multipart "image" field and
// reads the mask image from the response body.
type Remote struct {
	endpoint string
	cli      httpclient.IClient
}

func NewRemote(endpoint string, cli httpclient.IClient) *Remote {
	return &Remote{endpoint: endpoint, cli: cli}
}

// LoadRemote builds a Remote and, when a health path is configured, waits for
// the model server to report ready.
func LoadRemote(ctx context.Context, cfg RemoteConfig) (*Remote, error) {
	if cfg.Endpoint == "" {
		return nil, errors.New("segmentation: empty model endpoint")
	}

	r := NewRemote(cfg.Endpoint, httpclient.NewHTTPClientWithTimeout(cfg.Timeout))
	if cfg.HealthPath == "" {
		return r, nil
	}

	healthURL, err := resolve(cfg.Endpoint, cfg.HealthPath)
	if err != nil {
		return nil, err
	}
	err = r.cli.DoHTTPRequest(ctx, &httpclient.RequestParam{
		RequestURI: healthURL,
		Method:     http.MethodGet,
	})
	if err != nil {
		return nil, errors.Wrap(err, "segmentation: model health check")
	}

	return r, nil
}

func resolve(endpoint, path string) (string, error) {
	base, err := url.Parse(endpoint)
	if err != nil {
		return "", errors.Wrap(err, "segmentation: parse endpoint")
	}
	ref, err := url.Parse(path)
	if err != nil {
		return "", errors.Wrap(err, "segmentation: parse health path")
	}
	return base.ResolveReference(ref).String(), nil
}

func (r *Remote) Segment(ctx context.Context, img image.Image) (*image.Gray, error) {
	ctx, span := otel.Tracer(traceName).Start(ctx, "Segment")
	defer span.End()

	b := img.Bounds()
	span.SetAttributes(attribute.Int("width", b.Dx()), attribute.Int("height", b.Dy()))

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	part, err := writer.CreateFormFile("image", "input.png")
	if err != nil {
		return nil, errors.Wrap(err, "create form file")
	}
	if err := png.Encode(part, img); err != nil {
		return nil, errors.Wrap(err, "encode model input")
	}
	if err := writer.Close(); err != nil {
		return nil, errors.Wrap(err, "close multipart writer")
	}

	var raw []byte
	reqParam := &httpclient.RequestParam{
		RequestURI: r.endpoint,
		Method:     http.MethodPost,
		Header:     map[string]string{"Content-Type": writer.FormDataContentType()},
		Body:       body,
		Response:   &raw,
	}
	if err := r.cli.DoHTTPRequest(ctx, reqParam); err != nil {
		return nil, errors.Wrap(err, "segmentation request")
	}

	mask, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, errors.Wrap(err, "decode mask")
	}

	return ToMask(mask), nil
}

// ToMask flattens a model output into a gray mask. Images carrying
// transparency use their alpha channel, everything else its luminance.
func ToMask(img image.Image) *image.Gray {
	if g, ok := img.(*image.Gray); ok {
		return g
	}

	b := img.Bounds()
	useAlpha := false
	if o, ok := img.(interface{ Opaque() bool }); ok {
		useAlpha = !o.Opaque()
	}

	mask := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			c := img.At(b.Min.X+x, b.Min.Y+y)
			if useAlpha {
				_, _, _, a := c.RGBA()
				mask.SetGray(x, y, color.Gray{Y: uint8(a >> 8)})
			} else {
				mask.SetGray(x, y, color.GrayModel.Convert(c).(color.Gray))
			}
		}
	}
	return mask
}
