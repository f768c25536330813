package extract

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

var (
	citationNumberRe = regexp.MustCompile(`\[\d+\]`)
	citationNeededRe = regexp.MustCompile(`(?i)\[citation needed\]`)
)

// cellText joins the visible text under n, skipping footnote superscripts
func cellText(n *html.Node) string {
	var buf strings.Builder

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "sup", "script", "style", "noscript":
				return
			case "br":
				buf.WriteString(" ")
			}
		}

		if n.Type == html.TextNode {
			text := strings.TrimSpace(n.Data)
			if text != "" {
				buf.WriteString(text)
				buf.WriteString(" ")
			}
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}

	walk(n)
	return cleanText(buf.String())
}

// cleanText collapses whitespace and strips inline citation markers
func cleanText(text string) string {
	text = citationNumberRe.ReplaceAllString(text, "")
	text = citationNeededRe.ReplaceAllString(text, "")
	text = whitespaceRe.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}
