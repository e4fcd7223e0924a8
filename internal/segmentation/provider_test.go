package segmentation

import (
	"context"
	"errors"
	"image"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ailetic/pkg/logger"
)

type stubSegmenter struct {
	id int32
}

func (s *stubSegmenter) Segment(_ context.Context, img image.Image) (*image.Gray, error) {
	return image.NewGray(img.Bounds()), nil
}

func countingLoader(loads *int32) Loader {
	return func(context.Context) (Segmenter, error) {
		n := atomic.AddInt32(loads, 1)
		return &stubSegmenter{id: n}, nil
	}
}

func TestShared_LoadsOnce(t *testing.T) {
	var loads, hooks int32
	s, err := NewShared(context.Background(), countingLoader(&loads), WithLoadHook(func() { atomic.AddInt32(&hooks, 1) }))
	require.NoError(t, err)

	first, err := s.Acquire(context.Background())
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		m, err := s.Acquire(context.Background())
		require.NoError(t, err)
		assert.Same(t, first, m)
	}

	assert.Equal(t, int32(1), atomic.LoadInt32(&loads))
	assert.Equal(t, int32(1), atomic.LoadInt32(&hooks))
}

func TestShared_Reload(t *testing.T) {
	var loads int32
	s, err := NewShared(context.Background(), countingLoader(&loads))
	require.NoError(t, err)

	require.NoError(t, s.Reload(context.Background()))

	m, err := s.Acquire(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(2), m.(*stubSegmenter).id)
}

func TestShared_ReloadFailureKeepsModel(t *testing.T) {
	var loads int32
	fail := false
	load := func(ctx context.Context) (Segmenter, error) {
		if fail {
			return nil, errors.New("weights unavailable")
		}
		return countingLoader(&loads)(ctx)
	}

	s, err := NewShared(context.Background(), load)
	require.NoError(t, err)

	fail = true
	assert.Error(t, s.Reload(context.Background()))

	m, err := s.Acquire(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(1), m.(*stubSegmenter).id)
}

func TestNewShared_LoadFailure(t *testing.T) {
	_, err := NewShared(context.Background(), func(context.Context) (Segmenter, error) {
		return nil, errors.New("no model")
	})
	assert.Error(t, err)
}

func TestPerRequest_LoadsEveryTime(t *testing.T) {
	var loads int32
	p := NewPerRequest(countingLoader(&loads))

	for i := 0; i < 3; i++ {
		_, err := p.Acquire(context.Background())
		require.NoError(t, err)
	}
	assert.Equal(t, int32(3), atomic.LoadInt32(&loads))
}

func TestShared_Schedule(t *testing.T) {
	var loads int32
	s, err := NewShared(context.Background(), countingLoader(&loads))
	require.NoError(t, err)

	_, err = s.Schedule("not a cron spec", logger.New("error"))
	assert.Error(t, err)

	c, err := s.Schedule("@every 1h", logger.New("error"))
	require.NoError(t, err)
	defer c.Stop()
	assert.Len(t, c.Entries(), 1)
}
