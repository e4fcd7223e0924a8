package transform

import (
	"context"

	"github.com/pkg/errors"

	"ailetic/internal/pipeline"
	"ailetic/pkg/ndarray"
)

// Grayscale averages the channel axis into an H×W array.
func Grayscale(_ context.Context, in pipeline.Payload) (pipeline.Output, error) {
	if in.Array == nil {
		return pipeline.Output{}, errors.New("grayscale: no image")
	}
	h, w, c, err := in.Array.ImageDims()
	if err != nil {
		return pipeline.Output{}, err
	}

	out := ndarray.New(h, w)
	for p := 0; p < h*w; p++ {
		var sum float64
		for ch := 0; ch < c; ch++ {
			sum += in.Array.Data[p*c+ch]
		}
		out.Data[p] = sum / float64(c)
	}

	return pipeline.Output{Array: out}, nil
}
