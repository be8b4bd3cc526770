// Package htmlsanitize cleans the rich text of blog posts before it is stored.
package htmlsanitize

import (
	"html"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	policy     *bluemonday.Policy
	policyOnce sync.Once
)

func getPolicy() *bluemonday.Policy {
	policyOnce.Do(func() {
		policy = bluemonday.UGCPolicy()

		// Editor output: tables, inline marks, figures with captions
		policy.AllowElements("table", "thead", "tbody", "tfoot", "tr", "th", "td")
		policy.AllowAttrs("colspan", "rowspan").OnElements("th", "td")
		policy.AllowElements("u", "s", "sub", "sup", "mark", "figure", "figcaption")
		policy.AllowAttrs("class").Globally()
		policy.AllowAttrs("loading").Matching(bluemonday.SpaceSeparatedTokens).OnElements("img")

		// Links open in a new tab on the public blog
		policy.RequireNoFollowOnLinks(true)
		policy.AddTargetBlankToFullyQualifiedLinks(true)
	})
	return policy
}

// Sanitize strips scripts, event handlers and unsafe URLs from post HTML
// while keeping formatting, links, images and tables.
func Sanitize(s string) string {
	if strings.TrimSpace(s) == "" {
		return ""
	}
	return getPolicy().Sanitize(s)
}

// StripTags removes all markup, leaving text. Used for excerpts and SEO
// descriptions, which are rendered as plain text, so entities come back
// unescaped.
func StripTags(s string) string {
	if s == "" {
		return ""
	}
	return strings.TrimSpace(html.UnescapeString(bluemonday.StrictPolicy().Sanitize(s)))
}
