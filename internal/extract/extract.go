// Package extract pulls text fragments out of HTML documents with CSS selectors.
//
// Parsing is best-effort: malformed markup is repaired by the HTML5 parser
// rather than rejected, so a page that parses at all always yields either the
// first match or an empty result.
package extract

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
)

// ParseError reports a CSS selector that cannot be compiled
type ParseError struct {
	Selector string
	Err      error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid selector %q: %v", e.Selector, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Compile checks that selector is a valid CSS selector
func Compile(selector string) error {
	if _, err := cascadia.Compile(selector); err != nil {
		return &ParseError{Selector: selector, Err: err}
	}
	return nil
}

// SelectText returns the trimmed text of the first element matching selector,
// or "" when nothing matches.
func SelectText(html, selector string) string {
	sel := first(html, selector)
	if sel == nil {
		return ""
	}
	return strings.TrimSpace(sel.Text())
}

// SelectAttr returns the named attribute of the first element matching selector.
func SelectAttr(html, selector, attr string) (string, bool) {
	sel := first(html, selector)
	if sel == nil {
		return "", false
	}
	return sel.Attr(attr)
}

func first(html, selector string) *goquery.Selection {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil
	}

	sel := doc.Find(selector).First()
	if sel.Length() == 0 {
		return nil
	}
	return sel
}
