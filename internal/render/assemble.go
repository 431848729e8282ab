package render

import (
	"html/template"
	"regexp"
)

var tokenRE = regexp.MustCompile(`__[A-Z][A-Z0-9_]*__`)

// Assemble replaces every __NAME__ token in tmpl with slots["NAME"] in a
// single pass; slot values are never rescanned. Tokens without a slot are
// removed. Slot values must already be safe HTML.
func Assemble(tmpl string, slots map[string]template.HTML) template.HTML {
	out := tokenRE.ReplaceAllStringFunc(tmpl, func(tok string) string {
		return string(slots[tok[2:len(tok)-2]])
	})
	return template.HTML(out) //nolint:gosec // template is embedded, slots are safe HTML
}
