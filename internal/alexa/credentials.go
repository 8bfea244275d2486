package alexa

import "errors"

// Cookie names the upstream recognizes. The values may have been lifted
// from a regional cookie pair (e.g. ubid-acbde), but the names sent back
// are always the canonical pair.
const (
	CookieSession   = "ubid-main"
	CookieAuthToken = "at-main"
	CookieCSRF      = "csrf"
)

type Credentials struct {
	SessionID    string
	AuthToken    string
	RegionSuffix string
}

func (c Credentials) Validate() error {
	if c.SessionID == "" {
		return errors.New("missing session id")
	}
	if c.AuthToken == "" {
		return errors.New("missing auth token")
	}
	return nil
}

// Secrets returns the credential values that must never appear in logs
// or error bodies.
func (c Credentials) Secrets() []string {
	return []string{c.SessionID, c.AuthToken}
}
