package observability

import (
	"strings"
	"unicode"
)

// Request metadata ends up in log lines and span attributes, so anything
// client-controlled is stripped of control characters and truncated before
// it is recorded.

const (
	maxRouteLen  = 180
	maxMethodLen = 10
	maxActorLen  = 64
)

func sanitizeString(value string, limit int) string {
	cleaned := strings.Map(func(r rune) rune {
		switch r {
		case '\n', '\r', '\t':
			return r
		}
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, value)

	if limit > 0 {
		if runes := []rune(cleaned); len(runes) > limit {
			cleaned = string(runes[:limit])
		}
	}
	return cleaned
}

// SanitizeRoute normalises a chi route pattern for logging.
func SanitizeRoute(route string) string {
	if route == "" {
		return "/"
	}
	return sanitizeString(route, maxRouteLen)
}

// SanitizeMethod normalises an HTTP method for logging.
func SanitizeMethod(method string) string {
	return sanitizeString(method, maxMethodLen)
}

// SanitizeUserID truncates an actor reference so log lines never carry more
// of an identifier than needed to correlate requests.
func SanitizeUserID(uid string) string {
	return sanitizeString(uid, maxActorLen)
}
