package domain

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Item types found in legacy exports. Comparison is case-insensitive;
// exports from older installations mix casings freely.
const (
	ItemTypeDocument        = "document"
	ItemTypeLink            = "link"
	ItemTypeImage           = "image"
	ItemTypeSharedParagraph = "sharedparagraph"
)

// Well-known field names in legacy exports.
const (
	FieldDocumentTitle = "DocumentTitle"
	FieldLinkText      = "LinkText"
	FieldHiddenText    = "HiddenText"
	FieldURL           = "URL"
	FieldText          = "Text"
)

// Field is a single named value on a node. Values may themselves be
// markup text. Order within a node is significant.
type Field struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// ExternalInfo is an auxiliary information entry attached to a node,
// used for tooltip and external-info lookups.
type ExternalInfo struct {
	InformationType string  `json:"informationType"`
	Content         string  `json:"content"`
	Fields          []Field `json:"fields,omitempty"`
}

// External groups the optional external information entries of a node.
type External struct {
	Information []ExternalInfo `json:"information,omitempty"`
}

// Node is a recursive unit of the legacy export tree.
//
// The export wire format nests identity under a "detail" object; the
// custom JSON methods flatten that into the struct so the rest of the
// code never sees the envelope.
type Node struct {
	ID       string
	Title    string
	ItemType string

	// Fields is the ordered list of named values on this node.
	Fields []Field

	// Children are the ordered child nodes.
	Children []*Node

	// Properties is an opaque auxiliary map carried through unchanged.
	Properties map[string]string

	// External holds optional tooltip/external-info entries.
	External *External
}

// nodeJSON mirrors the export wire format.
type nodeJSON struct {
	Detail struct {
		ID       string `json:"id"`
		Title    string `json:"title"`
		ItemType string `json:"itemType"`
	} `json:"detail"`
	Fields     []Field           `json:"fields,omitempty"`
	Children   []*Node           `json:"children,omitempty"`
	Properties map[string]string `json:"properties,omitempty"`
	External   *External         `json:"external,omitempty"`
}

// UnmarshalJSON decodes a node from the legacy export format.
func (n *Node) UnmarshalJSON(data []byte) error {
	var raw nodeJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("decoding node: %w", err)
	}
	n.ID = raw.Detail.ID
	n.Title = raw.Detail.Title
	n.ItemType = raw.Detail.ItemType
	n.Fields = raw.Fields
	n.Children = raw.Children
	n.Properties = raw.Properties
	n.External = raw.External
	return nil
}

// MarshalJSON encodes a node back into the legacy export format.
func (n *Node) MarshalJSON() ([]byte, error) {
	var raw nodeJSON
	raw.Detail.ID = n.ID
	raw.Detail.Title = n.Title
	raw.Detail.ItemType = n.ItemType
	raw.Fields = n.Fields
	raw.Children = n.Children
	raw.Properties = n.Properties
	raw.External = n.External
	return json.Marshal(raw)
}

// IsType reports whether the node's item type matches, ignoring case.
func (n *Node) IsType(itemType string) bool {
	return strings.EqualFold(n.ItemType, itemType)
}

// Field returns the value of the first field with the given name and
// whether it was present.
func (n *Node) Field(name string) (string, bool) {
	for _, f := range n.Fields {
		if f.Name == name {
			return f.Value, true
		}
	}
	return "", false
}

// HasFields reports whether the node carries at least one field.
func (n *Node) HasFields() bool {
	return len(n.Fields) > 0
}

// ResolvedTitle returns the display title for linking to this node:
// the DocumentTitle field when present, else the node title, else the
// node id.
func (n *Node) ResolvedTitle() string {
	if v, ok := n.Field(FieldDocumentTitle); ok && v != "" {
		return v
	}
	if n.Title != "" {
		return n.Title
	}
	return n.ID
}

// NodeIndex is an id lookup built over a Node tree. It is read-only
// after construction and safe for concurrent readers.
type NodeIndex struct {
	byID map[string]*Node

	// order records each distinct id at its first traversal position,
	// keeping title lookups deterministic.
	order  []string
	strict bool
}

// IndexOption configures NodeIndex construction.
type IndexOption func(*NodeIndex)

// StrictDuplicates makes index construction fail with ErrDuplicateID
// when two nodes share an id. The default keeps the later occurrence
// in traversal order.
func StrictDuplicates() IndexOption {
	return func(idx *NodeIndex) { idx.strict = true }
}

// NewNodeIndex builds an id lookup over the tree rooted at root,
// visiting every node exactly once, depth-first. A nil root yields an
// empty index. Duplicate ids follow last-write-wins unless
// StrictDuplicates is set.
func NewNodeIndex(root *Node, opts ...IndexOption) (*NodeIndex, error) {
	idx := &NodeIndex{byID: make(map[string]*Node)}
	for _, opt := range opts {
		opt(idx)
	}
	if err := idx.add(root); err != nil {
		return nil, err
	}
	return idx, nil
}

func (idx *NodeIndex) add(n *Node) error {
	if n == nil {
		return nil
	}
	if n.ID != "" {
		if _, exists := idx.byID[n.ID]; exists {
			if idx.strict {
				return fmt.Errorf("%w: %s", ErrDuplicateID, n.ID)
			}
		} else {
			idx.order = append(idx.order, n.ID)
		}
		idx.byID[n.ID] = n
	}
	for _, child := range n.Children {
		if err := idx.add(child); err != nil {
			return err
		}
	}
	return nil
}

// Get returns the node with the given id, or nil when absent.
func (idx *NodeIndex) Get(id string) *Node {
	return idx.byID[id]
}

// GetByTitle returns the first node in traversal order whose resolved
// title matches, or nil. Used as the fallback lookup during
// placeholder backfill.
func (idx *NodeIndex) GetByTitle(title string) *Node {
	for _, id := range idx.order {
		n := idx.byID[id]
		if n.ResolvedTitle() == title || n.Title == title {
			return n
		}
	}
	return nil
}

// Len returns the number of distinct ids in the index.
func (idx *NodeIndex) Len() int {
	return len(idx.byID)
}
