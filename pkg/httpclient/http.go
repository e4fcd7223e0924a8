package httpclient

import (
	"context"
	"time"
)

type IClient interface {
	DoHTTPRequest(ctx context.Context, requestParam *RequestParam) error
}

// RequestParam describes one outbound call.
//
// Body may be nil, []byte, string, an io.Reader, or any value marshalled as JSON.
// Response may be nil (body discarded), *[]byte (raw body), or a JSON target.
type RequestParam struct {
	RequestURI string
	Method     string
	Header     map[string]string
	Body       interface{}
	Response   interface{}

	Timeout time.Duration
}
