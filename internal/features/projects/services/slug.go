package projects_services

import (
	"fmt"
	"strings"
	"unicode"
)

// Slugify lowers a project name into a URL-safe slug: runs of
// non-alphanumeric characters collapse into single dashes.
func Slugify(name string) string {
	var builder strings.Builder
	lastDash := true // suppress a leading dash

	for _, r := range strings.ToLower(name) {
		if unicode.IsLetter(r) && r < 128 || unicode.IsDigit(r) {
			builder.WriteRune(r)
			lastDash = false
			continue
		}

		if !lastDash {
			builder.WriteByte('-')
			lastDash = true
		}
	}

	slug := strings.Trim(builder.String(), "-")
	if slug == "" {
		slug = "project"
	}

	return slug
}

func (s *ProjectService) generateUniqueSlug(name string) (string, error) {
	base := Slugify(name)
	slug := base

	for suffix := 2; ; suffix++ {
		exists, err := s.projectRepository.SlugExists(slug)
		if err != nil {
			return "", fmt.Errorf("failed to check slug uniqueness: %w", err)
		}
		if !exists {
			return slug, nil
		}

		slug = fmt.Sprintf("%s-%d", base, suffix)
	}
}
