package htmlutil

import (
	"bytes"
	"net/url"

	"golang.org/x/net/html"
)

// GetText concatenates every text node under node.
func GetText(node *html.Node) string {
	var buffer bytes.Buffer
	getTextRecursive(node, &buffer)
	return buffer.String()
}

func getTextRecursive(node *html.Node, buffer *bytes.Buffer) {
	if node == nil {
		return
	}
	if node.Type == html.TextNode {
		buffer.WriteString(node.Data)
		return
	}
	child := node.FirstChild
	for child != nil {
		getTextRecursive(child, buffer)
		child = child.NextSibling
	}
}

// Absolute resolves href against base. An empty or unparsable href is absent,
// relative paths never leak out.
func Absolute(base *url.URL, href string) *string {
	if href == "" {
		return nil
	}
	link, err := url.Parse(href)
	if err != nil {
		return nil
	}
	if base != nil {
		link = base.ResolveReference(link)
	}
	if !link.IsAbs() || link.Host == "" {
		return nil
	}
	resolved := link.String()
	return &resolved
}
