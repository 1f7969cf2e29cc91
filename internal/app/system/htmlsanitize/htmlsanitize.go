// internal/app/system/htmlsanitize/htmlsanitize.go

// Package htmlsanitize strips markup from user-supplied free text before
// it is stored. Complaint titles and descriptions and profile text fields
// are plain text; anything that looks like HTML is removed, not escaped
// into the document.
package htmlsanitize

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var strict = bluemonday.StrictPolicy()

// Text removes all HTML elements and attributes from s and unescapes the
// remaining entities, returning trimmed plain text.
func Text(s string) string {
	return strings.TrimSpace(html.UnescapeString(strict.Sanitize(s)))
}
