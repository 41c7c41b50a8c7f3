// internal/dom/structural.go
package dom

import (
	"fmt"
	"strings"

	"github.com/antchfx/htmlquery"
	"golang.org/x/net/html"
)

// BuildXPath generates an absolute XPath expression for a given element node.
// Elements carrying an id anchor the path at `//*[@id="..."]` and stop the
// ancestor walk there; ids are taken at face value and not re-validated for
// document-wide uniqueness. Below an anchor, each segment is the lower-cased
// tag name with a 1-based index among same-tag siblings, the index omitted
// when the element is the first (or only) of its tag at that level.
//
// Reaching the document boundary is the normal termination condition, not an
// error: a rootless node simply yields a path relative to its highest ancestor.
func BuildXPath(node *html.Node) string {
	if node == nil || node.Type != html.ElementNode {
		return ""
	}

	var segments []string
	anchored := false
	for n := node; n != nil && n.Type == html.ElementNode; n = n.Parent {
		if id := htmlquery.SelectAttr(n, "id"); id != "" {
			segments = append(segments, fmt.Sprintf(`//*[@id="%s"]`, id))
			anchored = true
			break
		}

		tag := strings.ToLower(n.Data)
		if index := sameTagIndex(n, tag); index > 1 {
			segments = append(segments, fmt.Sprintf("%s[%d]", tag, index))
		} else {
			segments = append(segments, tag)
		}
	}

	reverse(segments)
	path := strings.Join(segments, "/")
	if !anchored {
		path = "/" + path
	}
	return path
}

// BuildCSSSelector generates a CSS selector path for a given element node,
// sufficient to re-select it among its siblings at capture time. As with
// BuildXPath, an id short-circuits the walk to `#id`. Other segments carry the
// lower-cased tag name, every class token, and, when the element shares its
// tag with another sibling, an `:nth-child(n)` position among all element
// children. Segments are joined ancestor-first with " > ".
func BuildCSSSelector(node *html.Node) string {
	if node == nil || node.Type != html.ElementNode {
		return ""
	}

	var segments []string
	for n := node; n != nil && n.Type == html.ElementNode; n = n.Parent {
		if id := htmlquery.SelectAttr(n, "id"); id != "" {
			segments = append(segments, "#"+id)
			break
		}

		var seg strings.Builder
		seg.WriteString(strings.ToLower(n.Data))
		for _, class := range strings.Fields(htmlquery.SelectAttr(n, "class")) {
			seg.WriteString("." + class)
		}
		if n.Parent != nil && sameTagSiblingCount(n) > 1 {
			fmt.Fprintf(&seg, ":nth-child(%d)", elementChildIndex(n))
		}
		segments = append(segments, seg.String())
	}

	reverse(segments)
	return strings.Join(segments, " > ")
}

// sameTagIndex returns the 1-based position of n among preceding siblings
// sharing its tag name.
func sameTagIndex(n *html.Node, tag string) int {
	index := 1
	for prev := n.PrevSibling; prev != nil; prev = prev.PrevSibling {
		if prev.Type == html.ElementNode && strings.ToLower(prev.Data) == tag {
			index++
		}
	}
	return index
}

// sameTagSiblingCount counts element children of n's parent that share n's tag
// name, n included.
func sameTagSiblingCount(n *html.Node) int {
	tag := strings.ToLower(n.Data)
	count := 0
	for sib := n.Parent.FirstChild; sib != nil; sib = sib.NextSibling {
		if sib.Type == html.ElementNode && strings.ToLower(sib.Data) == tag {
			count++
		}
	}
	return count
}

// elementChildIndex returns n's 1-based position among all element children of
// its parent, matching CSS :nth-child counting.
func elementChildIndex(n *html.Node) int {
	index := 1
	for prev := n.PrevSibling; prev != nil; prev = prev.PrevSibling {
		if prev.Type == html.ElementNode {
			index++
		}
	}
	return index
}

func reverse(segments []string) {
	for i, j := 0, len(segments)-1; i < j; i, j = i+1, j-1 {
		segments[i], segments[j] = segments[j], segments[i]
	}
}
