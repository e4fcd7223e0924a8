package transform

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ailetic/internal/pipeline"
	"ailetic/pkg/httpclient"
)

// pcmDecoder pretends the remote audio is already raw PCM.
type pcmDecoder struct {
	format string
	rate   int
}

func (p *pcmDecoder) DecodeToPCM(in io.Reader, format string, sampleRate int, out io.Writer) error {
	p.format, p.rate = format, sampleRate
	_, err := io.Copy(out, in)
	return err
}

func TestSpeech_Transform(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req synthesizeRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "hello there", req.Text)
		assert.Equal(t, "alloy", req.Voice)

		_ = binary.Write(w, binary.LittleEndian, []int16{0, 16384, -16384})
	}))
	defer server.Close()

	dec := &pcmDecoder{}
	s := NewSpeech(server.URL, "alloy", "wav", 22050, httpclient.NewHTTPClient(), dec)

	out, err := s.Transform(context.Background(), pipeline.Payload{Text: "  hello there "})
	require.NoError(t, err)

	assert.Equal(t, "wav", dec.format)
	assert.Equal(t, 22050, dec.rate)
	assert.Equal(t, 22050, out.SampleRate)
	require.Equal(t, []int{3}, out.Array.Shape)
	assert.InDelta(t, 0.5, out.Array.Data[1], 1e-3)
	assert.InDelta(t, -0.5, out.Array.Data[2], 1e-3)
}

func TestSpeech_EmptyText(t *testing.T) {
	s := NewSpeech("http://unused", "", "wav", 22050, httpclient.NewHTTPClient(), &pcmDecoder{})
	_, err := s.Transform(context.Background(), pipeline.Payload{Text: "   "})
	assert.Error(t, err)
}
