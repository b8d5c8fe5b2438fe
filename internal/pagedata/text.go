package pagedata

import (
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/net/html"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// StripHTML removes markup from s and decodes entities, keeping only text.
func StripHTML(s string) string {
	if !strings.ContainsAny(s, "<&") {
		return strings.Join(strings.Fields(s), " ")
	}
	z := html.NewTokenizer(strings.NewReader(s))
	var b strings.Builder
	for {
		switch z.Next() {
		case html.ErrorToken:
			return strings.Join(strings.Fields(b.String()), " ")
		case html.TextToken:
			b.Write(z.Text())
		}
	}
}

var titleCaser = cases.Title(language.English)

// TitleFromPageName derives a human title from the last segment of a page name.
func TitleFromPageName(pageName string) string {
	if i := strings.LastIndexByte(pageName, '_'); i >= 0 && i < len(pageName)-1 {
		pageName = pageName[i+1:]
	}
	words := strings.FieldsFunc(pageName, func(r rune) bool { return r == '-' || r == '_' || r == ' ' })
	return titleCaser.String(strings.Join(words, " "))
}

// slugger produces heading anchors that are unique within one page.
type slugger struct {
	seen map[string]int
}

func newSlugger() *slugger { return &slugger{seen: make(map[string]int)} }

func (s *slugger) slug(text string) string {
	var b strings.Builder
	lastDash := false
	for _, r := range strings.ToLower(text) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_':
			b.WriteRune(r)
			lastDash = false
		case unicode.IsSpace(r) || r == '-':
			if !lastDash && b.Len() > 0 {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}
	base := strings.TrimSuffix(b.String(), "-")
	n := s.seen[base]
	s.seen[base] = n + 1
	if n == 0 {
		return base
	}
	return base + "-" + strconv.Itoa(n)
}
