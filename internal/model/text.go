package model

import (
	"strings"

	"golang.org/x/net/html"
)

// PlainText flattens an HTML fragment (employer descriptions, highlighted
// snippets) to whitespace-normalized text. Unparseable input is returned
// trimmed.
func PlainText(fragment string) string {
	if !strings.ContainsAny(fragment, "<&") {
		return strings.Join(strings.Fields(fragment), " ")
	}
	doc, err := html.Parse(strings.NewReader(fragment))
	if err != nil {
		return strings.TrimSpace(fragment)
	}
	return strings.Join(strings.Fields(extractText(doc)), " ")
}

func extractText(n *html.Node) string {
	if n.Type == html.TextNode {
		return n.Data
	}
	var sb strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && blockElement(c.Data) {
			sb.WriteByte(' ')
		}
		sb.WriteString(extractText(c))
	}
	return sb.String()
}

func blockElement(tag string) bool {
	switch tag {
	case "p", "br", "li", "div", "ul", "ol", "h1", "h2", "h3", "h4", "tr":
		return true
	}
	return false
}
