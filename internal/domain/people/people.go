// Package people turns responsible names into display names, initials and photos.
package people

import (
	"encoding/base64"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/okian/painel/internal/domain/model"
)

var upperWords = map[string]string{"Sdr": "SDR", "Closer": "CLOSER"} //nolint:gochecknoglobals // team names stay upper-case

// PrettyName title-cases a normalized name in pt-BR, keeping team names upper-case.
func PrettyName(name string) string {
	s := cases.Title(language.BrazilianPortuguese).String(strings.TrimSpace(name))
	words := strings.Fields(s)
	for i, w := range words {
		if up, ok := upperWords[w]; ok {
			words[i] = up
		}
	}
	return strings.Join(words, " ")
}

// Initials are the first two letters of a single name, or the first letters
// of the first and last names. Empty names give "?".
func Initials(name string) string {
	parts := strings.Fields(name)
	switch len(parts) {
	case 0:
		return "?"
	case 1:
		r := []rune(parts[0])
		return strings.ToUpper(string(r[:min(2, len(r))]))
	default:
		first := []rune(parts[0])
		last := []rune(parts[len(parts)-1])
		return strings.ToUpper(string(first[0]) + string(last[0]))
	}
}

// Directory maps normalized names to photo sources.
type Directory struct {
	photos map[string]string
}

// NewDirectory builds a directory. Values starting with http(s):// or data:
// are used as they are; anything else is read as a local file and inlined
// as a data URI.
func NewDirectory(entries map[string]string) (*Directory, error) {
	d := &Directory{photos: make(map[string]string, len(entries))}
	for name, src := range entries {
		src = strings.TrimSpace(src)
		if src == "" {
			continue
		}
		if !isRemote(src) {
			uri, err := dataURI(src)
			if err != nil {
				return nil, fmt.Errorf("photo for %q: %w", name, err)
			}
			src = uri
		}
		d.photos[model.NormText(name)] = src
	}
	return d, nil
}

// Photo returns the photo source for name.
func (d *Directory) Photo(name string) (string, bool) {
	if d == nil {
		return "", false
	}
	src, ok := d.photos[model.NormText(name)]
	return src, ok
}

// Len is the number of known photos.
func (d *Directory) Len() int {
	if d == nil {
		return 0
	}
	return len(d.photos)
}

func isRemote(src string) bool {
	l := strings.ToLower(src)
	return strings.HasPrefix(l, "http://") || strings.HasPrefix(l, "https://") || strings.HasPrefix(l, "data:")
}

func dataURI(path string) (string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	typ := mime.TypeByExtension(filepath.Ext(path))
	if typ == "" {
		typ = "application/octet-stream"
	}
	return "data:" + typ + ";base64," + base64.StdEncoding.EncodeToString(b), nil
}
