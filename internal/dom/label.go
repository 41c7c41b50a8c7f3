// internal/dom/label.go
package dom

import (
	"fmt"
	"strings"

	"github.com/antchfx/htmlquery"
	"golang.org/x/net/html"
)

// labelRule inspects one potential source of an accessible label. The second
// return reports whether the rule matched; a matched rule ends the cascade
// even when its value trims down to the empty string.
type labelRule func(doc, node *html.Node) (string, bool)

// labelCascade is the fixed resolution order for accessible labels. The order
// itself is the contract: aria-label, aria-labelledby, a label element
// targeting the node's id, the nearest enclosing label element, then the
// title attribute.
var labelCascade = []labelRule{
	fromAriaLabel,
	fromAriaLabelledBy,
	fromLabelFor,
	fromEnclosingLabel,
	fromTitle,
}

// ResolveLabel derives the best-effort accessible label for node within doc.
// It returns the empty string when no cascade rule matches; an empty label and
// "no label" are not distinguished downstream.
func ResolveLabel(doc, node *html.Node) string {
	if node == nil || node.Type != html.ElementNode {
		return ""
	}
	if doc == nil {
		doc = rootOf(node)
	}
	for _, rule := range labelCascade {
		if value, ok := rule(doc, node); ok {
			return value
		}
	}
	return ""
}

func fromAriaLabel(_, node *html.Node) (string, bool) {
	if v := htmlquery.SelectAttr(node, "aria-label"); v != "" {
		return v, true
	}
	return "", false
}

func fromAriaLabelledBy(doc, node *html.Node) (string, bool) {
	id := htmlquery.SelectAttr(node, "aria-labelledby")
	if id == "" {
		return "", false
	}
	target := findByID(doc, id)
	if target == nil {
		// A dangling reference falls through to the next rule.
		return "", false
	}
	return strings.TrimSpace(htmlquery.InnerText(target)), true
}

func fromLabelFor(doc, node *html.Node) (string, bool) {
	id := htmlquery.SelectAttr(node, "id")
	if id == "" {
		return "", false
	}
	label := htmlquery.FindOne(doc, fmt.Sprintf(`//label[@for='%s']`, id))
	if label == nil {
		return "", false
	}
	return strings.TrimSpace(htmlquery.InnerText(label)), true
}

func fromEnclosingLabel(_, node *html.Node) (string, bool) {
	for p := node.Parent; p != nil; p = p.Parent {
		if p.Type == html.ElementNode && strings.EqualFold(p.Data, "label") {
			return strings.TrimSpace(htmlquery.InnerText(p)), true
		}
	}
	return "", false
}

func fromTitle(_, node *html.Node) (string, bool) {
	if v := htmlquery.SelectAttr(node, "title"); v != "" {
		return v, true
	}
	return "", false
}

// findByID locates the element with the given id anywhere under doc.
func findByID(doc *html.Node, id string) *html.Node {
	if doc == nil {
		return nil
	}
	return htmlquery.FindOne(doc, fmt.Sprintf(`//*[@id='%s']`, id))
}

// rootOf climbs to the highest ancestor of n, which for an attached node is
// the document node.
func rootOf(n *html.Node) *html.Node {
	for n.Parent != nil {
		n = n.Parent
	}
	return n
}
