package domain

import (
	"fmt"
	"strings"
)

// NodeType classifies a node in the knowledge-base tree.
type NodeType string

const (
	NodeTypeKB     NodeType = "kb"
	NodeTypeFolder NodeType = "folder"
	NodeTypeDoc    NodeType = "doc"
)

// Node is a single entry in the knowledge-base tree: a top-level knowledge
// base, a nested folder, or a leaf document. ParentID is empty for roots.
// Content is nil for container nodes and non-nil (possibly empty) for docs.
type Node struct {
	ID        string
	ParentID  string
	Type      NodeType
	Title     string
	Content   *string
	CreatedAt int64 // milliseconds since the Unix epoch
}

// NewNode creates a new Node instance.
func NewNode(id, parentID string, nodeType NodeType, title string, content *string, createdAt int64) *Node {
	return &Node{
		ID:        id,
		ParentID:  parentID,
		Type:      nodeType,
		Title:     title,
		Content:   content,
		CreatedAt: createdAt,
	}
}

// IsContainer returns true if the node may hold children.
func (n *Node) IsContainer() bool {
	return n.Type == NodeTypeKB || n.Type == NodeTypeFolder
}

// MatchesQuery reports whether the node's title or content contains query as
// a verbatim case-sensitive substring. Container nodes carry no content and
// match only via their title.
func (n *Node) MatchesQuery(query string) bool {
	if strings.Contains(n.Title, query) {
		return true
	}
	return n.Content != nil && strings.Contains(*n.Content, query)
}

// ValidateNode validates a Node instance.
func ValidateNode(n *Node) error {
	if n == nil {
		return fmt.Errorf("node cannot be nil")
	}

	if n.ID == "" {
		return fmt.Errorf("node ID is required")
	}

	if n.Title == "" {
		return fmt.Errorf("node Title is required")
	}

	if !IsValidNodeType(n.Type) {
		return fmt.Errorf("node Type is invalid: %s", n.Type)
	}

	return nil
}

// IsValidNodeType checks if a NodeType is valid.
func IsValidNodeType(t NodeType) bool {
	switch t {
	case NodeTypeKB, NodeTypeFolder, NodeTypeDoc:
		return true
	}
	return false
}
