// Package sanitize strips markup from user-supplied free text before it is
// stored or fed to the AI model. Feedback entries, document content, and
// agent prompts all pass through here.
package sanitize

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var strict = bluemonday.StrictPolicy()

// Text removes all HTML from s, trims surrounding whitespace, and truncates
// to maxLen runes. maxLen <= 0 means no truncation.
func Text(s string, maxLen int) string {
	s = strings.TrimSpace(strict.Sanitize(s))
	if maxLen > 0 {
		if r := []rune(s); len(r) > maxLen {
			s = string(r[:maxLen])
		}
	}
	return s
}
