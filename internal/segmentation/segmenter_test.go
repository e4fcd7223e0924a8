package segmentation

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// maskServer answers with a mask whose left half is foreground.
func maskServer(t *testing.T, hits *int) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("/segment", func(w http.ResponseWriter, r *http.Request) {
		*hits++
		assert.Equal(t, http.MethodPost, r.Method)

		file, _, err := r.FormFile("image")
		if !assert.NoError(t, err) {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		defer file.Close()

		in, err := png.Decode(file)
		if !assert.NoError(t, err) {
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		b := in.Bounds()
		mask := image.NewGray(b)
		for y := 0; y < b.Dy(); y++ {
			for x := 0; x < b.Dx()/2; x++ {
				mask.SetGray(x, y, color.Gray{Y: 1})
			}
		}
		w.Header().Set("Content-Type", "image/png")
		_ = png.Encode(w, mask)
	})
	return httptest.NewServer(mux)
}

func TestRemote_Segment(t *testing.T) {
	hits := 0
	server := maskServer(t, &hits)
	defer server.Close()

	r, err := LoadRemote(context.Background(), RemoteConfig{
		Endpoint:   server.URL + "/segment",
		HealthPath: "/health",
		Timeout:    time.Second,
	})
	require.NoError(t, err)

	mask, err := r.Segment(context.Background(), image.NewNRGBA(image.Rect(0, 0, 8, 4)))
	require.NoError(t, err)

	assert.Equal(t, 1, hits)
	assert.Equal(t, image.Rect(0, 0, 8, 4), mask.Bounds())
	assert.Equal(t, uint8(1), mask.GrayAt(0, 0).Y)
	assert.Equal(t, uint8(0), mask.GrayAt(7, 3).Y)
}

func TestLoadRemote_HealthFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	_, err := LoadRemote(context.Background(), RemoteConfig{
		Endpoint:   server.URL + "/segment",
		HealthPath: "/health",
	})
	assert.Error(t, err)

	_, err = LoadRemote(context.Background(), RemoteConfig{})
	assert.Error(t, err)
}

func TestRemote_Segment_BadMask(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("not a mask"))
	}))
	defer server.Close()

	r, err := LoadRemote(context.Background(), RemoteConfig{Endpoint: server.URL})
	require.NoError(t, err)

	_, err = r.Segment(context.Background(), image.NewGray(image.Rect(0, 0, 2, 2)))
	assert.Error(t, err)
}

func TestToMask(t *testing.T) {
	alpha := image.NewNRGBA(image.Rect(0, 0, 2, 1))
	alpha.SetNRGBA(0, 0, color.NRGBA{R: 255, G: 255, B: 255, A: 0})
	alpha.SetNRGBA(1, 0, color.NRGBA{R: 0, G: 0, B: 0, A: 255})

	m := ToMask(alpha)
	assert.Equal(t, uint8(0), m.GrayAt(0, 0).Y)
	assert.Equal(t, uint8(255), m.GrayAt(1, 0).Y)

	opaque := image.NewRGBA(image.Rect(0, 0, 2, 1))
	opaque.Set(0, 0, color.RGBA{A: 255})
	opaque.Set(1, 0, color.RGBA{R: 255, G: 255, B: 255, A: 255})

	m = ToMask(opaque)
	assert.Equal(t, uint8(0), m.GrayAt(0, 0).Y)
	assert.Equal(t, uint8(255), m.GrayAt(1, 0).Y)

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, m))
}
