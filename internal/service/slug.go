package service

import (
	"regexp"
	"strings"
)

var (
	slugStripPattern     = regexp.MustCompile(`[^\w\s-]`)
	slugSeparatorPattern = regexp.MustCompile(`[\s_-]+`)
	whitespacePattern    = regexp.MustCompile(`\s+`)
)

// Slugify derives a URL-safe identifier from a post title: lower-case,
// trim, drop everything but word characters, whitespace and hyphens, then
// collapse separator runs into single hyphens. A title made entirely of
// stripped characters yields ""; callers must treat that as invalid.
func Slugify(title string) string {
	slug := strings.ToLower(strings.TrimSpace(title))
	slug = slugStripPattern.ReplaceAllString(slug, "")
	slug = slugSeparatorPattern.ReplaceAllString(slug, "-")
	return strings.Trim(slug, "-")
}

// headingAnchor normalizes heading text into a URL-fragment anchor. Same
// character family as Slugify but applied per heading: underscores survive
// and surrounding hyphens are kept, matching the rendered heading ids.
func headingAnchor(text string) string {
	anchor := strings.ToLower(text)
	anchor = slugStripPattern.ReplaceAllString(anchor, "")
	return whitespacePattern.ReplaceAllString(anchor, "-")
}
