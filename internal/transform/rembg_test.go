package transform

import (
	"context"
	"errors"
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ailetic/internal/pipeline"
	"ailetic/internal/segmentation"
	"ailetic/pkg/ndarray"
)

// halfSegmenter marks the left half of whatever it is given as foreground.
type halfSegmenter struct {
	seen image.Rectangle
}

func (h *halfSegmenter) Segment(_ context.Context, img image.Image) (*image.Gray, error) {
	h.seen = img.Bounds()
	b := img.Bounds()
	mask := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx()/2; x++ {
			mask.SetGray(x, y, color.Gray{Y: 255})
		}
	}
	return mask, nil
}

type staticProvider struct {
	seg segmentation.Segmenter
	err error
}

func (s staticProvider) Acquire(context.Context) (segmentation.Segmenter, error) {
	return s.seg, s.err
}

func filled(h, w, c int, v float64) *ndarray.Array {
	arr := ndarray.New(h, w, c)
	for i := range arr.Data {
		arr.Data[i] = v
	}
	return arr
}

func TestBackgroundRemover_Transform(t *testing.T) {
	seg := &halfSegmenter{}
	b := NewBackgroundRemover(staticProvider{seg: seg}, 32)

	in := filled(20, 40, 3, 10)
	out, err := b.Transform(context.Background(), pipeline.Payload{Array: in})
	require.NoError(t, err)

	assert.Equal(t, image.Rect(0, 0, 32, 32), seg.seen)
	require.Equal(t, in.Shape, out.Array.Shape)

	// far left is kept, far right is whitened
	assert.Equal(t, []float64{10, 10, 10}, out.Array.Data[0:3])
	last := len(out.Array.Data)
	assert.Equal(t, []float64{255, 255, 255}, out.Array.Data[last-3:last])

	// input is untouched
	assert.Equal(t, 10.0, in.Data[last-1])
}

func TestBackgroundRemover_Errors(t *testing.T) {
	b := NewBackgroundRemover(staticProvider{err: errors.New("model gone")}, 0)
	_, err := b.Transform(context.Background(), pipeline.Payload{Array: filled(2, 2, 3, 1)})
	assert.Error(t, err)

	_, err = b.Transform(context.Background(), pipeline.Payload{})
	assert.Error(t, err)
}

func TestApplyMask(t *testing.T) {
	arr := filled(1, 3, 4, 7)
	mask := image.NewGray(image.Rect(0, 0, 3, 1))
	mask.SetGray(1, 0, color.Gray{Y: 1})

	out := ApplyMask(arr, mask, 255)
	assert.Equal(t, []float64{
		255, 255, 255, 255,
		7, 7, 7, 7,
		255, 255, 255, 255,
	}, out.Data)
}
