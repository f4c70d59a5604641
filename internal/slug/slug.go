// Package slug builds URL-safe venue identifiers.
package slug

import (
	"context"
	"fmt"
	"regexp"
	"strings"
)

var (
	nonSlugChars = regexp.MustCompile(`[^a-z0-9\s-]`)
	whitespace   = regexp.MustCompile(`\s+`)
	dashes       = regexp.MustCompile(`-+`)
)

// Make lowercases and joins the parts with dashes, dropping anything that is
// not a letter, digit, space or dash.
func Make(parts ...string) string {
	s := strings.ToLower(strings.Join(parts, "-"))
	s = nonSlugChars.ReplaceAllString(s, "")
	s = whitespace.ReplaceAllString(s, "-")
	s = dashes.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// ExistsFunc reports whether a slug is already taken.
type ExistsFunc func(ctx context.Context, slug string) (bool, error)

// maxAttempts bounds the suffix search so a broken ExistsFunc cannot spin forever.
const maxAttempts = 1000

// Unique returns base, or base-2, base-3 ... for the first candidate that is free.
func Unique(ctx context.Context, base string, exists ExistsFunc) (string, error) {
	if base == "" {
		return "", fmt.Errorf("empty slug")
	}

	candidate := base
	for n := 2; n <= maxAttempts+1; n++ {
		taken, err := exists(ctx, candidate)
		if err != nil {
			return "", fmt.Errorf("checking slug %q: %w", candidate, err)
		}
		if !taken {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, n)
	}
	return "", fmt.Errorf("no free slug for %q after %d attempts", base, maxAttempts)
}
