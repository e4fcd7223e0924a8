package transform

import (
	"context"
	"image"

	"github.com/nfnt/resize"
	"github.com/pkg/errors"
	"go.opentelemetry.io/otel"
	"golang.org/x/image/draw"

	"ailetic/internal/pipeline"
	"ailetic/internal/segmentation"
	"ailetic/pkg/codec"
	"ailetic/pkg/ndarray"
)

const traceName = "transform"

const (
	defaultInputSize = 256
	backgroundFill   = 255
)

// BackgroundRemover whitens every pixel the segmentation model classifies as background.
type BackgroundRemover struct {
	models    segmentation.Provider
	inputSize int
}

func NewBackgroundRemover(models segmentation.Provider, inputSize int) *BackgroundRemover {
	if inputSize <= 0 {
		inputSize = defaultInputSize
	}
	return &BackgroundRemover{models: models, inputSize: inputSize}
}

func (b *BackgroundRemover) Transform(ctx context.Context, in pipeline.Payload) (pipeline.Output, error) {
	ctx, span := otel.Tracer(traceName).Start(ctx, "RemoveBackground")
	defer span.End()

	if in.Array == nil {
		return pipeline.Output{}, errors.New("remove background: no image")
	}
	h, w, _, err := in.Array.ImageDims()
	if err != nil {
		return pipeline.Output{}, err
	}

	img, err := codec.ArrayToImage(in.Array)
	if err != nil {
		return pipeline.Output{}, err
	}

	model, err := b.models.Acquire(ctx)
	if err != nil {
		return pipeline.Output{}, err
	}

	small := resize.Resize(uint(b.inputSize), uint(b.inputSize), img, resize.Bilinear)
	mask, err := model.Segment(ctx, small)
	if err != nil {
		return pipeline.Output{}, err
	}

	full := image.NewGray(image.Rect(0, 0, w, h))
	draw.BiLinear.Scale(full, full.Bounds(), mask, mask.Bounds(), draw.Src, nil)

	return pipeline.Output{Array: ApplyMask(in.Array, full, backgroundFill)}, nil
}

// ApplyMask keeps the pixels of arr where mask is non-zero and sets every
// channel of the remaining pixels to fill. mask must match arr's height and width.
func ApplyMask(arr *ndarray.Array, mask *image.Gray, fill float64) *ndarray.Array {
	out := arr.Clone()
	h, w := arr.Shape[0], arr.Shape[1]
	c := 1
	if arr.Ndim() == 3 {
		c = arr.Shape[2]
	}

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if mask.GrayAt(x, y).Y > 0 {
				continue
			}
			i := (y*w + x) * c
			for ch := 0; ch < c; ch++ {
				out.Data[i+ch] = fill
			}
		}
	}
	return out
}
