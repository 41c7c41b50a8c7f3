// internal/browser/resolver.go
package browser

import (
	"fmt"
	"strings"

	"github.com/antchfx/htmlquery"
	"golang.org/x/net/html"

	"github.com/xkilldash9x/descry-cli/api/schemas"
)

const previewMaxLen = 64

// candidateRoles are the ARIA roles that earn a non-native element a
// reference token.
var candidateRoles = map[string]bool{
	"button":   true,
	"link":     true,
	"tab":      true,
	"menuitem": true,
	"checkbox": true,
	"radio":    true,
	"textbox":  true,
	"combobox": true,
}

// isCandidate reports whether a node belongs to the interactive surface a
// snapshot hands out reference tokens for.
func isCandidate(node *html.Node) bool {
	switch strings.ToLower(node.Data) {
	case "a":
		return htmlquery.ExistsAttr(node, "href")
	case "button", "input", "textarea", "select", "summary":
		return true
	}
	return candidateRoles[htmlquery.SelectAttr(node, "role")]
}

// SnapshotResolver maps caller-supplied reference tokens to nodes in a parsed
// snapshot. Tokens are assigned sequentially (e1, e2, ...) in document order
// when the resolver is built and stay valid for the snapshot's lifetime.
//
// Resolution failures are a boundary concern: a token that never existed or
// outlived its snapshot is rejected here, before any descriptor computation
// runs.
type SnapshotResolver struct {
	pageURL string
	doc     *html.Node
	refs    []string
	nodes   map[string]*html.Node
}

// NewSnapshotResolver parses the snapshot and assigns reference tokens to its
// interactive elements.
func NewSnapshotResolver(snap *Snapshot) (*SnapshotResolver, error) {
	if snap == nil {
		return nil, fmt.Errorf("snapshot is nil")
	}
	doc, err := htmlquery.Parse(strings.NewReader(snap.HTML))
	if err != nil {
		return nil, fmt.Errorf("failed to parse snapshot HTML: %w", err)
	}

	r := &SnapshotResolver{
		pageURL: snap.PageURL,
		doc:     doc,
		nodes:   make(map[string]*html.Node),
	}
	// A full //* scan keeps token assignment in document order; the
	// interactivity filtering happens here rather than in the query.
	for _, node := range htmlquery.Find(doc, "//*") {
		if !isCandidate(node) {
			continue
		}
		ref := fmt.Sprintf("e%d", len(r.refs)+1)
		r.refs = append(r.refs, ref)
		r.nodes[ref] = node
	}
	return r, nil
}

// Resolve returns the node a reference token points at. Unknown tokens are a
// violated precondition, reported before the descriptor core ever runs.
func (r *SnapshotResolver) Resolve(ref string) (*html.Node, error) {
	node, ok := r.nodes[ref]
	if !ok {
		return nil, fmt.Errorf("no element matches ref %q in this snapshot (have %d refs)", ref, len(r.refs))
	}
	return node, nil
}

// Refs returns the assigned tokens in document order.
func (r *SnapshotResolver) Refs() []string {
	return r.refs
}

// Entries previews every referenced element without computing descriptors.
func (r *SnapshotResolver) Entries() []schemas.RefEntry {
	entries := make([]schemas.RefEntry, 0, len(r.refs))
	for _, ref := range r.refs {
		node := r.nodes[ref]
		entries = append(entries, schemas.RefEntry{
			Ref:     ref,
			TagName: strings.ToLower(node.Data),
			Preview: previewText(node),
		})
	}
	return entries
}

// Document returns the parsed snapshot root for document-wide lookups.
func (r *SnapshotResolver) Document() *html.Node {
	return r.doc
}

// PageURL returns the URL the snapshot was captured from.
func (r *SnapshotResolver) PageURL() string {
	return r.pageURL
}

// previewText produces a short human-oriented hint for ref listings: trimmed
// text content, falling back to common identifying attributes.
func previewText(node *html.Node) string {
	text := strings.TrimSpace(htmlquery.InnerText(node))
	if text == "" {
		for _, attr := range []string{"aria-label", "placeholder", "name", "value", "title"} {
			if v := htmlquery.SelectAttr(node, attr); v != "" {
				text = v
				break
			}
		}
	}
	if len(text) > previewMaxLen {
		text = text[:previewMaxLen] + "..."
	}
	return text
}
