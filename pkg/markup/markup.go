// Package markup is the text transform the composition pipeline consumes.
// Full BBCode rendering lives elsewhere; the pipeline only needs
// sanitize-on-input and strip-for-emptiness-checks.
package markup

import (
	"regexp"
	"strings"
)

// Transformer sanitizes raw markup for storage and strips it for
// emptiness/length checks.
type Transformer interface {
	Sanitize(text string) string
	Strip(text string) string
}

type bbcode struct{}

// NewTransformer returns the default BBCode transformer.
func NewTransformer() Transformer {
	return &bbcode{}
}

var (
	bbTagRe   = regexp.MustCompile(`\[/?[a-zA-Z][a-zA-Z0-9]*(?:=[^\]]*)?\]`)
	htmlTagRe = regexp.MustCompile(`<[^>]*>`)
)

// Sanitize normalizes line endings and neutralizes raw HTML so stored
// bodies are safe to render through the BBCode pipeline.
func (b *bbcode) Sanitize(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "<", "&lt;")
	text = strings.ReplaceAll(text, ">", "&gt;")
	return text
}

// Strip removes BBCode and HTML tags, leaving plain text. Used to detect
// bodies that are empty once markup is removed.
func (b *bbcode) Strip(text string) string {
	text = bbTagRe.ReplaceAllString(text, "")
	text = htmlTagRe.ReplaceAllString(text, "")
	return strings.TrimSpace(text)
}
