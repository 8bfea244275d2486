package alexa

import (
	"context"
	"net/http"
)

// PlaceholderToken is the sentinel anti-forgery value. It is sent as the
// probe cookie during resolution and returned when every source fails;
// callers must treat it as unauthenticated-grade.
const PlaceholderToken = "1"

type Token struct {
	Value    string
	Resolved bool
}

// tokenSources are tried in strict order. The second is an unrelated
// device-listing path that also happens to refresh the csrf cookie.
var tokenSources = []string{
	"/api/handlebars",
	"/api/devices-v2/device?cached=false",
}

// TokenResolver obtains a short-lived anti-forgery token from the
// upstream's Set-Cookie headers. Resolve never fails: any network error,
// non-OK status or placeholder echo moves on to the next source, and the
// terminal default is the placeholder itself.
type TokenResolver struct {
	transport *Transport
}

func NewTokenResolver(transport *Transport) *TokenResolver {
	return &TokenResolver{transport: transport}
}

func (r *TokenResolver) Resolve(ctx context.Context) Token {
	for _, path := range tokenSources {
		if value, ok := r.trySource(ctx, path); ok {
			return Token{Value: value, Resolved: true}
		}
	}
	return Token{Value: PlaceholderToken}
}

func (r *TokenResolver) trySource(ctx context.Context, path string) (string, bool) {
	resp, err := r.transport.Get(ctx, path, PlaceholderToken, nil)
	if err != nil || resp.Status != http.StatusOK {
		return "", false
	}

	for _, cookie := range (&http.Response{Header: resp.Header}).Cookies() {
		if cookie.Name == CookieCSRF && cookie.Value != "" && cookie.Value != PlaceholderToken {
			return cookie.Value, true
		}
	}
	return "", false
}
