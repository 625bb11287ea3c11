package widget

import (
	"net/url"
	"strings"
)

const originWildcard = "*"

// normalizeOrigin reduces an Origin/Referer value to scheme://host,
// keeping an explicit port. Returns "" for values that do not parse.
func normalizeOrigin(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}

	parsed, err := url.Parse(raw)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return ""
	}

	return strings.ToLower(parsed.Scheme + "://" + parsed.Host)
}

// isOriginAllowed applies the allowlist semantics: an empty list means
// no restriction, the wildcard entry admits everything, otherwise the
// normalized origin must match an entry.
func isOriginAllowed(origin string, allowlist []string) bool {
	if len(allowlist) == 0 {
		return true
	}

	normalized := normalizeOrigin(origin)

	for _, entry := range allowlist {
		if entry == originWildcard {
			return true
		}

		if normalized != "" && normalizeOrigin(entry) == normalized {
			return true
		}
	}

	return false
}
