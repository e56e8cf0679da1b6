package shopsdk

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"golang.org/x/oauth2"
)

// maxBodySize bounds how much of a response is read.
const maxBodySize = 4 << 20

// call describes one backend request.
type call struct {
	method string
	path   string
	query  url.Values
	body   any

	// public calls never carry the bearer token (login, register, OTP).
	public bool

	out any
}

// url builds a complete URL by appending the path to the base URL.
func (c *Client) url(path string) string {
	return c.BaseURL + path
}

// do performs the call, decodes a 2xx body into out and turns everything else
// into an *APIError that has been through the interceptor.
func (c *Client) do(ctx context.Context, cl call) error {
	req, err := c.newRequest(ctx, cl)
	if err != nil {
		return err
	}

	authenticated := false
	if !cl.public && c.Tokens != nil {
		token, err := c.Tokens.Token(ctx)
		switch {
		case err == nil && token != "":
			(&oauth2.Token{AccessToken: token, TokenType: "Bearer"}).SetAuthHeader(req)
			authenticated = true
		case err != nil && !errors.Is(err, ErrNoToken):
			return fmt.Errorf("failed to read session token: %w", err)
		}
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		if isCancelled(err) {
			return err
		}
		apiErr := networkError(err)
		apiErr.Authenticated = authenticated
		return c.intercept(ctx, apiErr)
	}

	return c.decodeJSON(ctx, resp, cl.out, authenticated)
}

func (c *Client) newRequest(ctx context.Context, cl call) (*http.Request, error) {
	target := c.url(cl.path)
	if len(cl.query) > 0 {
		target += "?" + cl.query.Encode()
	}

	var body io.Reader
	if cl.body != nil {
		data, err := json.Marshal(cl.body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, cl.method, target, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if cl.body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req, nil
}

// decodeJSON reads the body once for both error parsing and success decoding.
func (c *Client) decodeJSON(ctx context.Context, resp *http.Response, target any, authenticated bool) error {
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := parseErrorResponse(resp, bodyBytes)
		apiErr.Authenticated = authenticated
		return c.intercept(ctx, apiErr)
	}

	if target == nil || len(bytes.TrimSpace(bodyBytes)) == 0 {
		return nil
	}

	if err := json.Unmarshal(bodyBytes, target); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func (c *Client) intercept(ctx context.Context, apiErr *APIError) error {
	c.Logger.DebugContext(ctx, "backend call failed",
		"status", apiErr.StatusCode,
		"code", apiErr.Code,
		"message", apiErr.Message,
	)

	if c.Interceptor != nil {
		apiErr.Handled = c.Interceptor.Intercept(ctx, apiErr)
	}
	return apiErr
}
