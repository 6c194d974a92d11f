package rpc

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/goccy/go-json"
	"github.com/wkalt/fbc/util/httputil"
)

// Client issues RPC calls against a server. Generated service stubs wrap it
// with typed request and response handling.
type Client struct {
	serverURL string
	httpc     *http.Client
}

// NewClient returns a client for the given server. The shared key is sent as
// a bearer token on every request.
func NewClient(serverURL, sharedKey string) *Client {
	return &Client{
		serverURL: serverURL,
		httpc:     NewHTTPClient(sharedKey),
	}
}

// Invoke calls a unary method and returns the encoded response buffer.
func (c *Client) Invoke(ctx context.Context, service, method string, req []byte) ([]byte, error) {
	resp, err := c.post(ctx, service, method, req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	return body, nil
}

// OpenStream calls a streaming method. The caller must drain or close the
// returned stream.
func (c *Client) OpenStream(ctx context.Context, service, method string, req []byte) (*Stream, error) {
	resp, err := c.post(ctx, service, method, req)
	if err != nil {
		return nil, err
	}
	return &Stream{body: resp.Body}, nil
}

func (c *Client) post(ctx context.Context, service, method string, body []byte) (*http.Response, error) {
	url := fmt.Sprintf("%s/rpc/%s/%s", c.serverURL, service, method)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/octet-stream")
	resp, err := c.httpc.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("error calling %s.%s: %w", service, method, err)
	}
	if resp.StatusCode != http.StatusOK {
		defer resp.Body.Close()
		var errResp httputil.ErrorResponse
		if err := json.NewDecoder(resp.Body).Decode(&errResp); err != nil {
			return nil, fmt.Errorf("%s.%s: unexpected status: %s", service, method, resp.Status)
		}
		return nil, fmt.Errorf("%s.%s: %s", service, method, errResp.Error)
	}
	return resp, nil
}

// Stream is a server-to-client sequence of encoded buffers.
type Stream struct {
	body io.ReadCloser
}

// Recv returns the next message, or io.EOF when the server ends the stream.
func (s *Stream) Recv() ([]byte, error) {
	return ReadFrame(s.body)
}

// Close releases the underlying connection. Safe to call after EOF and after
// context cancellation.
func (s *Stream) Close() error {
	if err := s.body.Close(); err != nil {
		return fmt.Errorf("failed to close stream: %w", err)
	}
	return nil
}

type transport struct {
	key string
}

func (t *transport) RoundTrip(req *http.Request) (*http.Response, error) {
	if t.key != "" {
		req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", t.key))
	}
	return http.DefaultTransport.RoundTrip(req)
}

// NewHTTPClient returns an HTTP client that authenticates with the shared key.
func NewHTTPClient(sharedKey string) *http.Client {
	return &http.Client{
		Transport: &transport{key: sharedKey},
	}
}
