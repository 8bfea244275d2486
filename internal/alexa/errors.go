package alexa

import "fmt"

// AuthError means the upstream rejected the session cookies (401/403).
// Credentials are assumed stale; the caller must re-provision, the
// client never retries these.
type AuthError struct {
	Status int
	Body   string
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("upstream auth rejected (status %d): %s", e.Status, e.Body)
}

// NotFoundError means directory resolution found no matching endpoint,
// or a matched endpoint lacked the legacy serial/type pair. It signals
// an account-topology problem, not a credential problem.
type NotFoundError struct {
	What string
}

func (e *NotFoundError) Error() string {
	return e.What + " not found"
}

// UpstreamError covers every other non-2xx response or network failure.
// Safe to retry at the caller's discretion.
type UpstreamError struct {
	Status int
	Body   string
}

func (e *UpstreamError) Error() string {
	if e.Status == 0 {
		return "upstream request failed: " + e.Body
	}
	return fmt.Sprintf("upstream returned status %d: %s", e.Status, e.Body)
}

// MalformedResponseError means a 2xx response whose body does not match
// the expected shape. Fatal for that call, not retried.
type MalformedResponseError struct {
	What string
}

func (e *MalformedResponseError) Error() string {
	return "malformed upstream response: " + e.What
}
