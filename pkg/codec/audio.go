package codec

import (
	"bytes"
	"encoding/base64"
	"encoding/binary"
	"fmt"
	"io"
	"math"

	"ailetic/pkg/ndarray"
)

// DefaultSampleRate is used when neither the transform nor the route supplies one.
const DefaultSampleRate = 44100

// AudioEncoder transcodes mono 16-bit PCM into a container format.
type AudioEncoder interface {
	EncodePCM(pcm io.Reader, sampleRate int, format string, out io.Writer) error
}

// AudioDecoder transcodes any container into mono 16-bit PCM.
type AudioDecoder interface {
	DecodeToPCM(in io.Reader, format string, sampleRate int, out io.Writer) error
}

// AudioContentType returns the MIME type for an audio container.
func AudioContentType(format string) string {
	switch format {
	case "mp3":
		return "audio/mpeg"
	case "wav":
		return "audio/wav"
	default:
		return "audio/" + format
	}
}

// FloatToPCM scales a signal in [-1, 1] to int16 (clipping) and writes it little endian.
func FloatToPCM(signal []float64) []byte {
	out := make([]byte, 2*len(signal))
	for i, v := range signal {
		if math.IsNaN(v) {
			v = 0
		}
		s := int16(ndarray.Clip(v*math.MaxInt16, math.MinInt16, math.MaxInt16))
		binary.LittleEndian.PutUint16(out[2*i:], uint16(s))
	}
	return out
}

// PCMToFloat is the inverse of FloatToPCM. A trailing odd byte is ignored.
func PCMToFloat(pcm []byte) []float64 {
	out := make([]float64, len(pcm)/2)
	for i := range out {
		s := int16(binary.LittleEndian.Uint16(pcm[2*i:]))
		out[i] = float64(s) / math.MaxInt16
	}
	return out
}

// EncodeAudio treats arr as a mono signal and transcodes it to format.
func EncodeAudio(enc AudioEncoder, arr *ndarray.Array, sampleRate int, format string) ([]byte, error) {
	if err := arr.Validate(); err != nil {
		return nil, err
	}
	if arr.Ndim() != 1 && !(arr.Ndim() == 2 && arr.Shape[1] == 1) {
		return nil, fmt.Errorf("codec: audio needs a mono signal, got shape %v", arr.Shape)
	}
	if sampleRate <= 0 {
		sampleRate = DefaultSampleRate
	}

	var out bytes.Buffer
	if err := enc.EncodePCM(bytes.NewReader(FloatToPCM(arr.Data)), sampleRate, format, &out); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

// ArrayToBase64Audio encodes arr as audio and returns the base64 of the bytes.
func ArrayToBase64Audio(enc AudioEncoder, arr *ndarray.Array, sampleRate int, format string) (string, error) {
	body, err := EncodeAudio(enc, arr, sampleRate, format)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(body), nil
}

// DecodeAudio transcodes r to a normalised mono signal at sampleRate.
func DecodeAudio(dec AudioDecoder, r io.Reader, format string, sampleRate int) (*ndarray.Array, error) {
	if sampleRate <= 0 {
		sampleRate = DefaultSampleRate
	}

	var pcm bytes.Buffer
	if err := dec.DecodeToPCM(r, format, sampleRate, &pcm); err != nil {
		return nil, err
	}

	signal := PCMToFloat(pcm.Bytes())
	return &ndarray.Array{Shape: []int{len(signal)}, Data: signal}, nil
}
