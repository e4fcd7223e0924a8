package ndarray

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromSlice(t *testing.T) {
	a, err := FromSlice([]float64{1, 2, 3, 4, 5, 6}, 1, 2, 3)
	require.NoError(t, err)
	assert.Equal(t, 3, a.Ndim())
	assert.Equal(t, 6.0, a.At3(0, 1, 2))

	_, err = FromSlice([]float64{1, 2}, 2, 2)
	assert.Error(t, err)
}

func TestImageDims(t *testing.T) {
	tests := []struct {
		name    string
		arr     *Array
		h, w, c int
		wantErr bool
	}{
		{"rgb", New(4, 5, 3), 4, 5, 3, false},
		{"gray 2d", New(2, 7), 2, 7, 1, false},
		{"1d", New(10), 0, 0, 0, true},
		{"bad data", &Array{Shape: []int{2, 2}, Data: []float64{1}}, 0, 0, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, w, c, err := tt.arr.ImageDims()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, []int{tt.h, tt.w, tt.c}, []int{h, w, c})
		})
	}
}

func TestSet3AndClone(t *testing.T) {
	a := New(2, 2, 3)
	a.Set3(1, 1, 2, 42)
	b := a.Clone()
	b.Set3(1, 1, 2, 7)

	assert.Equal(t, 42.0, a.At3(1, 1, 2))
	assert.Equal(t, 7.0, b.At3(1, 1, 2))
}

func TestUint8(t *testing.T) {
	assert.Equal(t, uint8(0), Uint8(-12))
	assert.Equal(t, uint8(255), Uint8(300))
	assert.Equal(t, uint8(127), Uint8(127.9))
	assert.Equal(t, uint8(0), Uint8(math.NaN()))
}
