// Package markup turns the HTML fragments served by the show directory into
// plain display text.
package markup

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// breaking elements end a run of text; their boundaries become a space so
// "<p>One</p><p>Two</p>" does not collapse into "OneTwo".
var breaking = map[atom.Atom]bool{
	atom.P:          true,
	atom.Br:         true,
	atom.Div:        true,
	atom.Li:         true,
	atom.Ul:         true,
	atom.Ol:         true,
	atom.Blockquote: true,
	atom.H1:         true,
	atom.H2:         true,
	atom.H3:         true,
	atom.H4:         true,
	atom.Tr:         true,
	atom.Td:         true,
}

// ToText removes every tag from fragment, decodes character entities and
// collapses runs of whitespace into a single space.
func ToText(fragment string) string {
	if !strings.ContainsAny(fragment, "<&") {
		return collapse(fragment)
	}

	z := html.NewTokenizer(strings.NewReader(fragment))
	var b strings.Builder
	skip := 0
	for {
		switch z.Next() {
		case html.ErrorToken:
			// io.EOF, or a malformed tail that carries no more text.
			return collapse(b.String())
		case html.TextToken:
			if skip == 0 {
				b.Write(z.Text())
			}
		case html.StartTagToken, html.SelfClosingTagToken:
			tag := tagAtom(z)
			if tag == atom.Script || tag == atom.Style {
				skip++
				continue
			}
			if breaking[tag] {
				b.WriteByte(' ')
			}
		case html.EndTagToken:
			tag := tagAtom(z)
			if (tag == atom.Script || tag == atom.Style) && skip > 0 {
				skip--
				continue
			}
			if breaking[tag] {
				b.WriteByte(' ')
			}
		}
	}
}

func tagAtom(z *html.Tokenizer) atom.Atom {
	name, _ := z.TagName()
	return atom.Lookup(name)
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
