package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string {
	return &s
}

func testNodes() []*Node {
	return []*Node{
		{ID: "K", ParentID: "", Type: NodeTypeKB, Title: "Root", CreatedAt: 1000},
		{ID: "F", ParentID: "K", Type: NodeTypeFolder, Title: "Sub", CreatedAt: 2000},
		{ID: "D", ParentID: "F", Type: NodeTypeDoc, Title: "Page", Content: strPtr("hello"), CreatedAt: 3000},
		{ID: "D2", ParentID: "K", Type: NodeTypeDoc, Title: "Notes", Content: strPtr(""), CreatedAt: 4000},
	}
}

func flattenPreOrder(views []*NodeView) []string {
	var ids []string
	for _, v := range views {
		ids = append(ids, v.ID)
		ids = append(ids, flattenPreOrder(v.Children)...)
	}
	return ids
}

func TestBuildForest_NestsChildrenUnderParents(t *testing.T) {
	forest := BuildForest(testNodes())

	require.Len(t, forest, 1)
	root := forest[0]
	assert.Equal(t, "K", root.ID)
	assert.Equal(t, NodeTypeKB, root.Type)
	assert.Nil(t, root.ParentID)

	require.Len(t, root.Children, 2)
	folder := root.Children[0]
	assert.Equal(t, "F", folder.ID)
	require.NotNil(t, folder.ParentID)
	assert.Equal(t, "K", *folder.ParentID)

	require.Len(t, folder.Children, 1)
	assert.Equal(t, "D", folder.Children[0].ID)
	assert.Equal(t, NodeTypeDoc, folder.Children[0].Type)

	assert.Equal(t, "D2", root.Children[1].ID)
}

func TestBuildForest_PreOrderFlattenPreservesAllIDs(t *testing.T) {
	nodes := testNodes()
	forest := BuildForest(nodes)

	ids := flattenPreOrder(forest)
	assert.ElementsMatch(t, []string{"K", "F", "D", "D2"}, ids)
	assert.Len(t, ids, len(nodes))
}

func TestBuildForest_MultipleRoots(t *testing.T) {
	nodes := []*Node{
		{ID: "A", Type: NodeTypeKB, Title: "First", CreatedAt: 1},
		{ID: "B", Type: NodeTypeKB, Title: "Second", CreatedAt: 2},
	}

	forest := BuildForest(nodes)
	require.Len(t, forest, 2)
	assert.Equal(t, "A", forest[0].ID)
	assert.Equal(t, "B", forest[1].ID)
}

func TestBuildForest_OrphansExcluded(t *testing.T) {
	nodes := []*Node{
		{ID: "K", Type: NodeTypeKB, Title: "Root", CreatedAt: 1},
		{ID: "orphan", ParentID: "missing", Type: NodeTypeDoc, Title: "Lost", CreatedAt: 2},
	}

	forest := BuildForest(nodes)
	require.Len(t, forest, 1)
	assert.Equal(t, "K", forest[0].ID)
	assert.NotContains(t, flattenPreOrder(forest), "orphan")
}

func TestBuildForest_EmptyInput(t *testing.T) {
	forest := BuildForest(nil)
	assert.NotNil(t, forest)
	assert.Empty(t, forest)
}

func TestNodeView_JSONChildrenShape(t *testing.T) {
	nodes := []*Node{
		{ID: "K", Type: NodeTypeKB, Title: "Empty KB", CreatedAt: 1},
		{ID: "D", Type: NodeTypeDoc, Title: "Loose Doc", CreatedAt: 2},
	}

	data, err := json.Marshal(BuildForest(nodes))
	require.NoError(t, err)

	var decoded []map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.Len(t, decoded, 2)

	// Containers always carry children, even when empty; docs never do.
	children, ok := decoded[0]["children"]
	require.True(t, ok)
	assert.Equal(t, []interface{}{}, children)

	_, ok = decoded[1]["children"]
	assert.False(t, ok)
}

func TestSubtreeIDs_DeletingRootCoversWholeTree(t *testing.T) {
	ids := SubtreeIDs(testNodes(), "K")

	assert.Len(t, ids, 4)
	for _, id := range []string{"K", "F", "D", "D2"} {
		assert.Contains(t, ids, id)
	}
}

func TestSubtreeIDs_MidTree(t *testing.T) {
	ids := SubtreeIDs(testNodes(), "F")

	assert.Len(t, ids, 2)
	assert.Contains(t, ids, "F")
	assert.Contains(t, ids, "D")
	assert.NotContains(t, ids, "K")
	assert.NotContains(t, ids, "D2")
}

func TestSubtreeIDs_LeafRemovesExactlyOne(t *testing.T) {
	ids := SubtreeIDs(testNodes(), "D")

	assert.Len(t, ids, 1)
	assert.Contains(t, ids, "D")
}

func TestSubtreeIDs_AbsentRootStillIncluded(t *testing.T) {
	ids := SubtreeIDs(testNodes(), "nope")

	assert.Len(t, ids, 1)
	assert.Contains(t, ids, "nope")
}

func TestSubtreeIDs_DeepChain(t *testing.T) {
	nodes := []*Node{
		{ID: "a", Type: NodeTypeKB, Title: "a"},
		{ID: "b", ParentID: "a", Type: NodeTypeFolder, Title: "b"},
		{ID: "c", ParentID: "b", Type: NodeTypeFolder, Title: "c"},
		{ID: "d", ParentID: "c", Type: NodeTypeDoc, Title: "d"},
	}

	ids := SubtreeIDs(nodes, "a")
	assert.Len(t, ids, 4)

	ids = SubtreeIDs(nodes, "c")
	assert.Len(t, ids, 2)
	assert.Contains(t, ids, "d")
}

func TestFilterByQuery(t *testing.T) {
	nodes := []*Node{
		{ID: "1", Type: NodeTypeDoc, Title: "Test Doc", Content: strPtr("hello world")},
		{ID: "2", Type: NodeTypeKB, Title: "Workspace"},
		{ID: "3", Type: NodeTypeDoc, Title: "Other", Content: strPtr("nothing here")},
	}

	tests := []struct {
		name    string
		query   string
		wantIDs []string
	}{
		{name: "matches title", query: "Test", wantIDs: []string{"1"}},
		{name: "matches content", query: "world", wantIDs: []string{"1"}},
		{name: "matches container title only", query: "Work", wantIDs: []string{"2"}},
		{name: "case sensitive", query: "test", wantIDs: []string{}},
		{name: "no match", query: "xyz", wantIDs: []string{}},
		{name: "empty query matches nothing", query: "", wantIDs: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			results := FilterByQuery(nodes, tt.query)
			ids := make([]string, 0, len(results))
			for _, n := range results {
				ids = append(ids, n.ID)
			}
			assert.Equal(t, tt.wantIDs, ids)
		})
	}
}
