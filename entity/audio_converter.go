package entity

import "io"

// AudioConverter transcodes between raw mono s16le PCM and container formats.
type AudioConverter interface {
	EncodePCM(pcm io.Reader, sampleRate int, format string, out io.Writer) error
	DecodeToPCM(in io.Reader, format string, sampleRate int, out io.Writer) error
}
