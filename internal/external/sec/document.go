package sec

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// FetchDocument downloads a filing document and returns its raw HTML
func (c *Client) FetchDocument(ctx context.Context, url string) (string, error) {
	body, err := c.fetch(ctx, url)
	if err != nil {
		return "", err
	}

	c.logger.WithFields(map[string]interface{}{
		"url":   url,
		"bytes": len(body),
	}).Debug("Fetched filing document")
	return string(body), nil
}

// noise is removed before extraction: scripts, styles and the hidden inline
// XBRL header every 10-K carries
const noise = `script, style, head, noscript, ix\:header, [style*="display:none"], [style*="display: none"]`

var blankLines = regexp.MustCompile(`\n{3,}`)

// ExtractText strips markup and returns the visible text, one text run per line
func ExtractText(document string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(document))
	if err != nil {
		return "", fmt.Errorf("parse HTML: %w", err)
	}

	doc.Find(noise).Remove()

	var b strings.Builder
	for _, n := range doc.Nodes {
		collectText(n, &b)
	}

	return normalize(b.String()), nil
}

func collectText(n *html.Node, b *strings.Builder) {
	if n.Type == html.TextNode {
		if text := strings.TrimSpace(collapseSpaces(n.Data)); text != "" {
			b.WriteString(text)
			b.WriteByte('\n')
		}
		return
	}

	for child := n.FirstChild; child != nil; child = child.NextSibling {
		collectText(child, b)
	}

	if n.Type == html.ElementNode && isBlock(n.Data) {
		b.WriteByte('\n')
	}
}

// ExtractMarkdown converts the document to markdown, keeping headings and tables
func ExtractMarkdown(document string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(document))
	if err != nil {
		return "", fmt.Errorf("parse HTML: %w", err)
	}
	doc.Find(noise).Remove()

	converter := md.NewConverter("", true, nil)
	markdown := converter.Convert(doc.Selection)

	return normalize(markdown), nil
}

// isBlock reports tags that end a paragraph. <br> is not one: the text run
// before it already ends its own line.
func isBlock(tag string) bool {
	switch tag {
	case "p", "div", "tr", "table", "li", "ul", "ol",
		"h1", "h2", "h3", "h4", "h5", "h6", "section", "article":
		return true
	}
	return false
}

// collapseSpaces folds whitespace runs, including the non-breaking spaces
// EDGAR HTML is full of, into single spaces
func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func normalize(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = blankLines.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}
