package widget

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_NormalizeOrigin_ReducesToSchemeAndHost(t *testing.T) {
	cases := []struct {
		name     string
		input    string
		expected string
	}{
		{"plain origin", "https://example.com", "https://example.com"},
		{"uppercase host", "HTTPS://Example.COM", "https://example.com"},
		{"explicit port kept", "http://localhost:3000", "http://localhost:3000"},
		{"referer with path", "https://example.com/checkout/cart?x=1", "https://example.com"},
		{"surrounding whitespace", "  https://example.com  ", "https://example.com"},
		{"missing scheme", "example.com", ""},
		{"empty", "", ""},
		{"garbage", "://nope", ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, normalizeOrigin(tc.input))
		})
	}
}

func Test_IsOriginAllowed_AppliesAllowlistSemantics(t *testing.T) {
	cases := []struct {
		name      string
		origin    string
		allowlist []string
		expected  bool
	}{
		{"empty allowlist admits everything", "https://evil.example", nil, true},
		{"wildcard admits everything", "https://evil.example", []string{"*"}, true},
		{"exact match", "https://shop.example.com", []string{"https://shop.example.com"}, true},
		{"case-insensitive match", "https://Shop.Example.com", []string{"https://shop.example.com"}, true},
		{"entry with path still matches", "https://shop.example.com", []string{"https://shop.example.com/"}, true},
		{"different host rejected", "https://evil.example", []string{"https://shop.example.com"}, false},
		{"different port rejected", "http://localhost:4000", []string{"http://localhost:3000"}, false},
		{"unparsable origin rejected", "not-an-origin", []string{"https://shop.example.com"}, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, isOriginAllowed(tc.origin, tc.allowlist))
		})
	}
}
