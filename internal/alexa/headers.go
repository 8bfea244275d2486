package alexa

import (
	"fmt"
	"net/http"
	"strings"
)

// The upstream differentiates behavior by client signature, so every
// request carries the vendor mobile app's user agent.
const (
	mobileUserAgent = "AppleWebKit PitanguiBridge/2.2.527420.0-[HARDWARE=iPhone14,3][SOFTWARE=16.6][DEVICE=iPhone]"
	acceptValue     = "application/json; charset=utf-8"
	acceptLanguage  = "en-US"
)

type HeaderBuilder struct {
	creds Credentials
}

func NewHeaderBuilder(creds Credentials) *HeaderBuilder {
	return &HeaderBuilder{creds: creds}
}

// Build assembles the header set the upstream requires. The Cookie
// header always carries the placeholder csrf cookie plus the session
// pair under the canonical names, whatever region the values came from.
// Extra headers are merged last and may override anything.
func (b *HeaderBuilder) Build(token string, extra map[string]string) http.Header {
	if token == "" {
		token = PlaceholderToken
	}

	h := http.Header{}
	h.Set("Cookie", fmt.Sprintf("%s=%s; %s=%s; %s=%s",
		CookieCSRF, PlaceholderToken,
		CookieSession, b.creds.SessionID,
		CookieAuthToken, b.creds.AuthToken))
	h.Set("Accept", acceptValue)
	h.Set("Accept-Language", acceptLanguage)
	h.Set("User-Agent", mobileUserAgent)
	setCSRFHeader(h, token)

	for k, v := range extra {
		if strings.EqualFold(k, CookieCSRF) {
			setCSRFHeader(h, v)
			continue
		}
		h.Set(k, v)
	}
	return h
}

// setCSRFHeader writes the anti-forgery header under its literal
// lowercase name; the upstream does not recognize the canonicalized
// form on every path.
func setCSRFHeader(h http.Header, token string) {
	delete(h, http.CanonicalHeaderKey(CookieCSRF))
	h[CookieCSRF] = []string{token}
}
