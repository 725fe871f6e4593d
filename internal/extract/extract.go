// Package extract walks an export tree and produces linear storage
// markup, applying the depth and field-selection rules of the legacy
// format.
package extract

import (
	"strings"

	"github.com/custodia-labs/wikiport-cli/internal/core/domain"
	"github.com/custodia-labs/wikiport-cli/internal/markup"
)

// maxDepth caps descent below the node being extracted: the node
// itself, its children, their children, and one further nested level.
// Legacy exports nest arbitrarily deep; levels past this one are the
// backfill resolver's concern, not the linear pass's.
const maxDepth = 3

// Content produces the visible markup for a node and its children,
// concatenated in order into a single flat string. Deterministic,
// no I/O.
func Content(n *domain.Node) string {
	var sb strings.Builder
	appendNode(&sb, n, 0)
	return sb.String()
}

func appendNode(sb *strings.Builder, n *domain.Node, depth int) {
	if n == nil || depth > maxDepth {
		return
	}
	sb.WriteString(FieldsMarkup(n))
	for _, child := range n.Children {
		appendNode(sb, child, depth+1)
	}
}

// FieldsMarkup emits a single node's fields. A paired LinkText and
// HiddenText field collapses into one expand macro instead of the
// fields being emitted individually; otherwise every field's value is
// emitted verbatim in field order, except fields named HiddenText.
func FieldsMarkup(n *domain.Node) string {
	linkText, hasLink := n.Field(domain.FieldLinkText)
	hiddenText, hasHidden := n.Field(domain.FieldHiddenText)
	if hasLink && hasHidden {
		macro, err := markup.ExpandMacro(linkText, hiddenText)
		if err != nil {
			// Unparseable hidden body: fall back to the raw pair.
			return linkText + hiddenText
		}
		s, err := markup.RenderNode(macro)
		if err != nil {
			return linkText + hiddenText
		}
		return s
	}

	var sb strings.Builder
	for _, f := range n.Fields {
		if f.Name == domain.FieldHiddenText {
			continue
		}
		sb.WriteString(f.Value)
	}
	return sb.String()
}

// DeepestContent descends to the deepest reachable child that itself
// carries non-empty fields and returns that node. At each level the
// first child with a non-empty field list is preferred, else the first
// child unconditionally; descent stops when no children remain. Used
// by placeholder backfill.
func DeepestContent(n *domain.Node) *domain.Node {
	current := n
	for current != nil && len(current.Children) > 0 {
		next := current.Children[0]
		for _, child := range current.Children {
			if child.HasFields() {
				next = child
				break
			}
		}
		current = next
	}
	return current
}
