package transform

import (
	"bytes"
	"context"
	"net/http"
	"strings"

	"github.com/pkg/errors"
	"go.opentelemetry.io/otel"

	"ailetic/internal/pipeline"
	"ailetic/pkg/codec"
	"ailetic/pkg/httpclient"
)

type synthesizeRequest struct {
	Text  string `json:"text"`
	Voice string `json:"voice,omitempty"`
}

// Speech turns text into a signal through a remote text-to-speech endpoint.
// The endpoint answers with encoded audio which is decoded back into samples.
type Speech struct {
	endpoint   string
	voice      string
	format     string
	sampleRate int
	cli        httpclient.IClient
	decoder    codec.AudioDecoder
}

func NewSpeech(endpoint, voice, format string, sampleRate int, cli httpclient.IClient, decoder codec.AudioDecoder) *Speech {
	return &Speech{
		endpoint:   endpoint,
		voice:      voice,
		format:     format,
		sampleRate: sampleRate,
		cli:        cli,
		decoder:    decoder,
	}
}

func (s *Speech) Transform(ctx context.Context, in pipeline.Payload) (pipeline.Output, error) {
	ctx, span := otel.Tracer(traceName).Start(ctx, "Synthesize")
	defer span.End()

	text := strings.TrimSpace(in.Text)
	if text == "" {
		return pipeline.Output{}, errors.New("speech: empty text")
	}

	var audio []byte
	err := s.cli.DoHTTPRequest(ctx, &httpclient.RequestParam{
		RequestURI: s.endpoint,
		Method:     http.MethodPost,
		Header:     map[string]string{"Content-Type": "application/json"},
		Body:       synthesizeRequest{Text: text, Voice: s.voice},
		Response:   &audio,
	})
	if err != nil {
		return pipeline.Output{}, errors.Wrap(err, "speech request")
	}

	signal, err := codec.DecodeAudio(s.decoder, bytes.NewReader(audio), s.format, s.sampleRate)
	if err != nil {
		return pipeline.Output{}, err
	}

	return pipeline.Output{Array: signal, SampleRate: s.sampleRate}, nil
}
