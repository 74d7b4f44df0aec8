package httpclient

import (
	"context"
	"net/http"
)

// GetJSON performs a GET request and decodes the JSON response into T.
func GetJSON[T any](ctx context.Context, c *Client, path string, query map[string]string) (T, error) {
	return doJSON[T](ctx, c, Request{Method: http.MethodGet, Path: path, Query: query})
}

// PostJSON performs a POST request and decodes the JSON response into T.
func PostJSON[T any](ctx context.Context, c *Client, path string, body any) (T, error) {
	return doJSON[T](ctx, c, Request{Method: http.MethodPost, Path: path, Body: body})
}

func doJSON[T any](ctx context.Context, c *Client, req Request) (T, error) {
	var out T
	if req.Headers == nil {
		req.Headers = map[string]string{}
	}
	req.Headers["Accept"] = "application/json"

	resp, err := c.Do(ctx, req)
	if err != nil {
		return out, err
	}
	if err := resp.DecodeJSON(&out); err != nil {
		return out, err
	}
	return out, nil
}
