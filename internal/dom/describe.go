// internal/dom/describe.go

// Package dom computes deterministic element descriptors over a parsed DOM
// snapshot. All functions are pure, synchronous, read-only traversals of the
// node tree: they never error, never mutate, and treat "not found" as data
// (empty string or nil) rather than failure. Concurrent calls are safe
// because nothing is written and nothing is retained between calls.
package dom

import (
	"strings"
	"time"

	"github.com/antchfx/htmlquery"
	"golang.org/x/net/html"

	"github.com/xkilldash9x/descry-cli/api/schemas"
)

// Describe assembles the full descriptor for node: structural identifiers,
// semantic attributes, raw markup and a capture timestamp. doc is the parsed
// document the node belongs to; when nil, the node's own root is used for
// document-wide lookups. pageURL is recorded verbatim.
//
// The caller owns the returned record; it is never retained or mutated here.
func Describe(doc, node *html.Node, pageURL string) *schemas.ElementDescriptor {
	if node == nil || node.Type != html.ElementNode {
		return nil
	}
	if doc == nil {
		doc = rootOf(node)
	}

	tag := strings.ToLower(node.Data)
	return &schemas.ElementDescriptor{
		URL:         pageURL,
		TagName:     tag,
		ID:          htmlquery.SelectAttr(node, "id"),
		FullXPath:   BuildXPath(node),
		CSSSelector: BuildCSSSelector(node),
		OuterHTML:   htmlquery.OutputHTML(node, true),
		Value:       extractValue(node, tag),
		ValueLabel:  htmlquery.SelectAttr(node, "placeholder"),
		Text:        extractText(node),
		Label:       ResolveLabel(doc, node),
		TimeStamp:   time.Now().UnixMilli(),
	}
}

// extractValue reads the snapshot-time form value of a value-bearing control.
// Blank values collapse to nil: "no value" and "empty value" are the same
// observation here. Elements that do not bear a value always yield nil.
func extractValue(node *html.Node, tag string) *string {
	var value string
	switch tag {
	case "input", "button", "option":
		value = htmlquery.SelectAttr(node, "value")
	case "textarea":
		value = strings.TrimSpace(htmlquery.InnerText(node))
	case "select":
		value = selectedOptionValue(node)
	default:
		return nil
	}
	if value == "" {
		return nil
	}
	return &value
}

// selectedOptionValue resolves the value a select control holds in a static
// snapshot: the explicitly selected option, else the first option, mirroring
// the browser's default selection.
func selectedOptionValue(selectNode *html.Node) string {
	option := htmlquery.FindOne(selectNode, ".//option[@selected]")
	if option == nil {
		option = htmlquery.FindOne(selectNode, ".//option")
	}
	if option == nil {
		return ""
	}
	if v := htmlquery.SelectAttr(option, "value"); v != "" {
		return v
	}
	return strings.TrimSpace(htmlquery.InnerText(option))
}

// extractText returns the trimmed text content of node and its descendants,
// nil when blank. Blank collapses to "no data" the same way values do.
func extractText(node *html.Node) *string {
	text := strings.TrimSpace(htmlquery.InnerText(node))
	if text == "" {
		return nil
	}
	return &text
}
