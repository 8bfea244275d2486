package alexa

import (
	"regexp"
	"strings"
)

const redactedMarker = "[redacted]"

var (
	// Canonical credential field names followed by a separator and a value.
	credentialFieldPattern = regexp.MustCompile(`(?i)(ubid-main|at-main|sessionId|authToken)\s*[=:]\s*[^\s;,"']+`)
	// Opaque token runs long enough to be credential material.
	opaqueTokenPattern = regexp.MustCompile(`[A-Za-z0-9_-]{20,}`)
	numericOnlyPattern = regexp.MustCompile(`^[0-9]+$`)
)

// Sanitizer strips credential-shaped substrings from text before it is
// logged or returned to a caller. It is a heuristic filter biased toward
// over-redaction, not a guarantee.
type Sanitizer struct {
	secrets []string
}

func NewSanitizer(secrets ...string) *Sanitizer {
	kept := make([]string, 0, len(secrets))
	for _, s := range secrets {
		if s != "" {
			kept = append(kept, s)
		}
	}
	return &Sanitizer{secrets: kept}
}

func (s *Sanitizer) Sanitize(text string) string {
	for _, secret := range s.secrets {
		text = strings.ReplaceAll(text, secret, redactedMarker)
	}
	text = credentialFieldPattern.ReplaceAllString(text, "$1="+redactedMarker)
	return redactOpaqueTokens(text)
}

func redactOpaqueTokens(text string) string {
	matches := opaqueTokenPattern.FindAllStringIndex(text, -1)
	if len(matches) == 0 {
		return text
	}

	var b strings.Builder
	last := 0
	for _, m := range matches {
		start, end := m[0], m[1]
		token := text[start:end]
		if numericOnlyPattern.MatchString(token) || isDotted(text, start, end) || insideURL(text, start) {
			continue
		}
		b.WriteString(text[last:start])
		b.WriteString(redactedMarker)
		last = end
	}
	b.WriteString(text[last:])
	return b.String()
}

// isDotted reports whether the run is adjacent to a dot, which marks
// hostnames, file names and dotted identifiers rather than secrets.
func isDotted(text string, start, end int) bool {
	if start > 0 && text[start-1] == '.' {
		return true
	}
	if end < len(text) && text[end] == '.' {
		return true
	}
	return false
}

// insideURL reports whether the run sits inside a URL (a "://" appears
// earlier in the same whitespace-delimited word).
func insideURL(text string, start int) bool {
	wordStart := start
	for wordStart > 0 && !isSpace(text[wordStart-1]) {
		wordStart--
	}
	return strings.Contains(text[wordStart:start], "://")
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}
