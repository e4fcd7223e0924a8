// Package ndarray holds a minimal dense row-major float64 array used to pass
// pixels and audio samples between pipeline stages.
package ndarray

import (
	"fmt"
	"math"
)

// Array is a dense row-major array. Data has exactly Size() elements.
type Array struct {
	Shape []int
	Data  []float64
}

// New allocates a zero-filled array of the given shape.
func New(shape ...int) *Array {
	return &Array{
		Shape: append([]int(nil), shape...),
		Data:  make([]float64, size(shape)),
	}
}

// FromSlice wraps data with shape. It fails when the lengths disagree.
func FromSlice(data []float64, shape ...int) (*Array, error) {
	if size(shape) != len(data) {
		return nil, fmt.Errorf("ndarray: shape %v needs %d elements, got %d", shape, size(shape), len(data))
	}
	return &Array{Shape: append([]int(nil), shape...), Data: data}, nil
}

func size(shape []int) int {
	if len(shape) == 0 {
		return 0
	}
	n := 1
	for _, d := range shape {
		n *= d
	}
	return n
}

// Ndim -.
func (a *Array) Ndim() int { return len(a.Shape) }

// Size -.
func (a *Array) Size() int { return size(a.Shape) }

// Validate checks that Data matches Shape.
func (a *Array) Validate() error {
	if a == nil {
		return fmt.Errorf("ndarray: nil array")
	}
	for _, d := range a.Shape {
		if d < 0 {
			return fmt.Errorf("ndarray: negative dimension in shape %v", a.Shape)
		}
	}
	if a.Size() != len(a.Data) {
		return fmt.Errorf("ndarray: shape %v needs %d elements, got %d", a.Shape, a.Size(), len(a.Data))
	}
	return nil
}

// ImageDims interprets the array as an image and returns height, width and
// channels. Two dimensional arrays are single channel.
func (a *Array) ImageDims() (h, w, c int, err error) {
	if err := a.Validate(); err != nil {
		return 0, 0, 0, err
	}
	switch a.Ndim() {
	case 2:
		return a.Shape[0], a.Shape[1], 1, nil
	case 3:
		return a.Shape[0], a.Shape[1], a.Shape[2], nil
	default:
		return 0, 0, 0, fmt.Errorf("ndarray: image needs 2 or 3 dimensions, got shape %v", a.Shape)
	}
}

// At3 returns the element at (y, x, ch) of a 3-D array.
func (a *Array) At3(y, x, ch int) float64 {
	return a.Data[(y*a.Shape[1]+x)*a.Shape[2]+ch]
}

// Set3 -.
func (a *Array) Set3(y, x, ch int, v float64) {
	a.Data[(y*a.Shape[1]+x)*a.Shape[2]+ch] = v
}

// Clone returns a deep copy.
func (a *Array) Clone() *Array {
	return &Array{
		Shape: append([]int(nil), a.Shape...),
		Data:  append([]float64(nil), a.Data...),
	}
}

// Clip limits v to [lo, hi].
func Clip(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Uint8 clips v to the uint8 range and truncates toward zero. NaN maps to 0.
func Uint8(v float64) uint8 {
	if math.IsNaN(v) {
		return 0
	}
	return uint8(Clip(v, 0, 255))
}
