package httpclient

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// Request describes an outbound HTTP request.
type Request struct {
	Method string
	// Path is appended to the client's BaseURL. Absolute URLs are used as is.
	Path    string
	Headers map[string]string
	Query   map[string]string
	// Body accepts *MultipartBody, []byte, string, io.Reader or any value
	// that is JSON-encoded. A plain io.Reader cannot be replayed, so requests
	// carrying one are sent once.
	Body any
}

// Response is the result of an HTTP request.
type Response struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
}

// IsSuccess returns true if the status code is 2xx.
func (r *Response) IsSuccess() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// DecodeJSON unmarshals the body into v.
func (r *Response) DecodeJSON(v any) error {
	if err := json.Unmarshal(r.Body, v); err != nil {
		return fmt.Errorf("decode response body: %w", err)
	}
	return nil
}

// StreamResponse is an open response whose body the caller reads and closes.
type StreamResponse struct {
	StatusCode    int
	Headers       http.Header
	ContentLength int64
	Body          io.ReadCloser
	// URL is the final URL after redirects.
	URL string
}

// Close releases the underlying connection.
func (r *StreamResponse) Close() error {
	if r.Body == nil {
		return nil
	}
	return r.Body.Close()
}
