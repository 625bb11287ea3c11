package projects_services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_Slugify_ProducesExpectedSlugs(t *testing.T) {
	cases := []struct {
		name     string
		input    string
		expected string
	}{
		{"simple name", "My Project", "my-project"},
		{"already a slug", "my-project", "my-project"},
		{"mixed case", "BugTrail Backend", "bugtrail-backend"},
		{"punctuation collapses", "Hello,   World!!", "hello-world"},
		{"leading and trailing junk", "  --Project--  ", "project"},
		{"digits survive", "Sprint 42 Board", "sprint-42-board"},
		{"non-ascii letters dropped", "Проект Alpha", "alpha"},
		{"only junk falls back", "!!!", "project"},
		{"empty falls back", "", "project"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, Slugify(tc.input))
		})
	}
}
