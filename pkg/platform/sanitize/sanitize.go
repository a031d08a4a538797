// Package sanitize strips markup from free-text user input.
package sanitize

import (
	"html"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	strictOnce   sync.Once
	strictPolicy *bluemonday.Policy
)

func strict() *bluemonday.Policy {
	strictOnce.Do(func() {
		strictPolicy = bluemonday.StrictPolicy()
	})
	return strictPolicy
}

// Text removes every HTML element from s and returns plain text.
// bluemonday escapes its output; the result is unescaped again because views
// escape on render and names like "O'Brien" must survive unchanged.
func Text(s string) string {
	if s == "" {
		return ""
	}
	cleaned := strict().Sanitize(s)
	return strings.TrimSpace(html.UnescapeString(cleaned))
}
