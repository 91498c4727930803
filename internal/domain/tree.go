package domain

// NodeView is the nested representation of a Node returned by tree queries.
// Container views always carry a Children slice (possibly empty); doc views
// never do. Children is nil for docs and omitted from JSON via omitzero.
type NodeView struct {
	ID        string      `json:"id"`
	ParentID  *string     `json:"parentId"`
	Title     string      `json:"title"`
	Type      NodeType    `json:"type"`
	CreatedAt int64       `json:"createdAt"`
	Children  []*NodeView `json:"children,omitzero"`
}

// BuildForest reconstructs the nested forest from a full flat scan of nodes.
// Roots are nodes with an empty ParentID. A parent→children index is built
// once, so construction is O(n); sibling order follows scan order, making the
// output deterministic for a given input ordering. Orphan nodes, whose
// ParentID references a missing node, are neither roots nor reachable and
// simply never appear in the output.
func BuildForest(nodes []*Node) []*NodeView {
	childrenByParent := make(map[string][]*Node, len(nodes))
	for _, n := range nodes {
		if n.ParentID != "" {
			childrenByParent[n.ParentID] = append(childrenByParent[n.ParentID], n)
		}
	}

	forest := make([]*NodeView, 0)
	for _, n := range nodes {
		if n.ParentID == "" {
			forest = append(forest, buildView(n, childrenByParent))
		}
	}
	return forest
}

func buildView(n *Node, childrenByParent map[string][]*Node) *NodeView {
	view := &NodeView{
		ID:        n.ID,
		ParentID:  nullableParentID(n.ParentID),
		Title:     n.Title,
		Type:      n.Type,
		CreatedAt: n.CreatedAt,
	}

	if n.IsContainer() {
		view.Children = make([]*NodeView, 0)
		for _, child := range childrenByParent[n.ID] {
			view.Children = append(view.Children, buildView(child, childrenByParent))
		}
	}

	return view
}

// SubtreeIDs computes the closed subtree rooted at rootID: the root itself
// plus every node transitively reachable through ParentID links. The root is
// always included even when absent from nodes, so deleting an already-removed
// id stays a no-op downstream. Traversal uses a parent→children index, the
// O(n) equivalent of fixed-point expansion over the flat scan.
func SubtreeIDs(nodes []*Node, rootID string) map[string]struct{} {
	childrenByParent := make(map[string][]*Node, len(nodes))
	for _, n := range nodes {
		if n.ParentID != "" {
			childrenByParent[n.ParentID] = append(childrenByParent[n.ParentID], n)
		}
	}

	ids := map[string]struct{}{rootID: {}}
	queue := []string{rootID}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		for _, child := range childrenByParent[current] {
			if _, seen := ids[child.ID]; seen {
				continue
			}
			ids[child.ID] = struct{}{}
			queue = append(queue, child.ID)
		}
	}
	return ids
}

// FilterByQuery returns the nodes matching query as a case-sensitive
// substring of title or content, preserving input order. An empty query
// matches nothing.
func FilterByQuery(nodes []*Node, query string) []*Node {
	results := make([]*Node, 0)
	if query == "" {
		return results
	}
	for _, n := range nodes {
		if n.MatchesQuery(query) {
			results = append(results, n)
		}
	}
	return results
}

func nullableParentID(parentID string) *string {
	if parentID == "" {
		return nil
	}
	return &parentID
}
