package extract

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/text/unicode/norm"
)

// MaxDocumentSize caps how much of a page is read.
const MaxDocumentSize = 5 * 1024 * 1024

// hiddenSelector matches elements whose text a reader never sees.
const hiddenSelector = "script, style, noscript, template, head > meta, svg"

// blockSelector matches elements that visually separate text.
const blockSelector = "br, p, div, li, tr, td, th, h1, h2, h3, h4, h5, h6, section, article, header, footer, blockquote, pre"

// Text returns the visible text of an HTML document read from r.
func Text(r io.Reader) (string, error) {
	doc, err := goquery.NewDocumentFromReader(io.LimitReader(r, MaxDocumentSize))
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}

	doc.Find(hiddenSelector).Remove()
	doc.Find(blockSelector).Each(func(_ int, s *goquery.Selection) {
		s.AfterHtml(" ")
	})

	var text string
	if body := doc.Find("body"); body.Length() > 0 {
		text = body.Text()
	} else {
		text = doc.Text()
	}

	return Clean(text), nil
}

// Clean collapses whitespace runs to single spaces, trims the result and
// normalizes it to NFC.
func Clean(s string) string {
	return norm.NFC.String(strings.Join(strings.Fields(s), " "))
}

// LooksLikeHTML reports whether b sniffs as an HTML document.
func LooksLikeHTML(b []byte) bool {
	return strings.HasPrefix(http.DetectContentType(b), "text/html")
}

// Content returns data as analyzable text: HTML is reduced to its visible
// text, anything else is cleaned as is.
func Content(data []byte) (string, error) {
	if LooksLikeHTML(data) {
		return Text(bytes.NewReader(data))
	}
	return Clean(string(data)), nil
}
