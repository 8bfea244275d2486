package alexa

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
)

// Doer abstracts the HTTP client so tests can stub the upstream.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Response surfaces the raw upstream status, body and headers. The
// transport never interprets status codes; classification belongs to
// the caller.
type Response struct {
	Status int
	Body   []byte
	Header http.Header
}

func (r *Response) OK() bool {
	return r.Status >= 200 && r.Status < 300
}

type Transport struct {
	baseURL   string
	doer      Doer
	headers   *HeaderBuilder
	sanitizer *Sanitizer
}

func NewTransport(baseURL string, doer Doer, headers *HeaderBuilder, sanitizer *Sanitizer) *Transport {
	return &Transport{
		baseURL:   strings.TrimRight(baseURL, "/"),
		doer:      doer,
		headers:   headers,
		sanitizer: sanitizer,
	}
}

func (t *Transport) Get(ctx context.Context, path, token string, extra map[string]string) (*Response, error) {
	return t.do(ctx, http.MethodGet, path, token, extra, nil)
}

func (t *Transport) PostJSON(ctx context.Context, path, token string, payload any) (*Response, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, &UpstreamError{Body: "encode request: " + err.Error()}
	}
	extra := map[string]string{"Content-Type": "application/json; charset=utf-8"}
	return t.do(ctx, http.MethodPost, path, token, extra, body)
}

func (t *Transport) do(ctx context.Context, method, path, token string, extra map[string]string, body []byte) (*Response, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, t.baseURL+path, reader)
	if err != nil {
		return nil, &UpstreamError{Body: t.sanitizer.Sanitize(err.Error())}
	}
	req.Header = t.headers.Build(token, extra)

	resp, err := t.doer.Do(req)
	if err != nil {
		return nil, &UpstreamError{Body: t.sanitizer.Sanitize(err.Error())}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &UpstreamError{Status: resp.StatusCode, Body: t.sanitizer.Sanitize(err.Error())}
	}

	return &Response{Status: resp.StatusCode, Body: data, Header: resp.Header}, nil
}

// statusError classifies a non-2xx upstream response. Bodies are
// sanitized before they can reach a log line or a caller.
func (t *Transport) statusError(resp *Response) error {
	body := t.sanitizer.Sanitize(string(resp.Body))
	if resp.Status == http.StatusUnauthorized || resp.Status == http.StatusForbidden {
		return &AuthError{Status: resp.Status, Body: body}
	}
	return &UpstreamError{Status: resp.Status, Body: body}
}

func (t *Transport) Sanitizer() *Sanitizer {
	return t.sanitizer
}
