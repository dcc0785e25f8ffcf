// Package sanitize strips markup outside an allow-list before it lands in a chapter.
package sanitize

import "github.com/microcosm-cc/bluemonday"

type Sanitizer struct {
	policy *bluemonday.Policy
}

// New returns a sanitizer with the user-generated-content policy: formatting,
// paragraphs, lists, tables, links and images survive; scripts, styles and
// event handlers do not.
func New() *Sanitizer {
	return &Sanitizer{policy: bluemonday.UGCPolicy()}
}

func (s *Sanitizer) Sanitize(html string) string {
	return s.policy.Sanitize(html)
}
