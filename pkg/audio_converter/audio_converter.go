package audio_converter

import (
	"bytes"
	"io"
	"os/exec"
	"strings"

	"github.com/pkg/errors"
	ffmpeg "github.com/u2takey/ffmpeg-go"
)

// PCMFormat is the raw sample layout exchanged with ffmpeg: signed 16-bit little endian.
const PCMFormat = "s16le"

type AudioConverter struct {
}

func NewAudioConverter() *AudioConverter {
	return &AudioConverter{}
}

// Available reports whether an ffmpeg binary can be found on PATH.
func Available() bool {
	_, err := exec.LookPath("ffmpeg")
	return err == nil
}

// EncodePCM transcodes mono 16-bit PCM at sampleRate into the given container format.
func (ac *AudioConverter) EncodePCM(pcm io.Reader, sampleRate int, format string, out io.Writer) error {
	var stderr bytes.Buffer

	err := encodeStream(sampleRate, format).
		WithInput(pcm).
		WithOutput(out).
		WithErrorOutput(&stderr).
		Run()
	if err != nil {
		return errors.Wrapf(err, "ffmpeg pcm to %s: %s", format, lastLine(stderr.String()))
	}

	return nil
}

// DecodeToPCM transcodes audio in the given format (empty lets ffmpeg probe it)
// into mono 16-bit PCM at sampleRate.
func (ac *AudioConverter) DecodeToPCM(in io.Reader, format string, sampleRate int, out io.Writer) error {
	var stderr bytes.Buffer

	err := decodeStream(format, sampleRate).
		WithInput(in).
		WithOutput(out).
		WithErrorOutput(&stderr).
		Run()
	if err != nil {
		return errors.Wrapf(err, "ffmpeg %s to pcm: %s", format, lastLine(stderr.String()))
	}

	return nil
}

// encodeStream reads raw mono PCM from stdin and writes format to stdout.
func encodeStream(sampleRate int, format string) *ffmpeg.Stream {
	return ffmpeg.Input("pipe:", ffmpeg.KwArgs{"f": PCMFormat, "ar": sampleRate, "ac": 1}).
		Output("pipe:", ffmpeg.KwArgs{"f": format}).
		OverWriteOutput()
}

// decodeStream reads format (probed when empty) from stdin and writes raw mono PCM to stdout.
func decodeStream(format string, sampleRate int) *ffmpeg.Stream {
	inArgs := ffmpeg.KwArgs{}
	if format != "" {
		inArgs["f"] = format
	}

	return ffmpeg.Input("pipe:", inArgs).
		Output("pipe:", ffmpeg.KwArgs{"f": PCMFormat, "acodec": "pcm_s16le", "ar": sampleRate, "ac": 1}).
		OverWriteOutput()
}

func lastLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.LastIndexByte(s, '\n'); i >= 0 {
		return s[i+1:]
	}
	return s
}
