package model

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
)

var invisible = runes.In(&unicode.RangeTable{ //nolint:gochecknoglobals // immutable rune set
	R16: []unicode.Range16{
		{Lo: 0x00AD, Hi: 0x00AD, Stride: 1},
		{Lo: 0x200B, Hi: 0x200F, Stride: 1},
		{Lo: 0xFEFF, Hi: 0xFEFF, Stride: 1},
	},
	LatinOffset: 1,
})

// StripInvisible drops zero-width characters and soft hyphens and turns NBSP into a space.
func StripInvisible(s string) string {
	t := transform.Chain(
		runes.Remove(invisible),
		runes.Map(func(r rune) rune {
			if r == '\u00a0' {
				return ' '
			}
			return r
		}),
	)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// NormText strips invisible characters, collapses whitespace and upper-cases.
// Both table columns and lookup arguments go through it.
func NormText(s string) string {
	return strings.ToUpper(strings.Join(strings.Fields(StripInvisible(s)), " "))
}
